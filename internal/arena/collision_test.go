package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsWrapSegment(t *testing.T) {
	cases := []struct {
		Description string
		A, B        Vector2D
		Expected    bool
	}{
		{"mirrored on X, shared Y", Vector2D{X: 995, Y: 0}, Vector2D{X: -995, Y: 0}, true},
		{"mirrored on Y, shared X", Vector2D{X: 0, Y: 995}, Vector2D{X: 0, Y: -995}, true},
		{"ordinary vertical segment", Vector2D{X: 0, Y: 0}, Vector2D{X: 0, Y: 30}, false},
		{"ordinary horizontal segment", Vector2D{X: 0, Y: 0}, Vector2D{X: 30, Y: 0}, false},
		{"diagonal, never a wrap pair", Vector2D{X: 5, Y: 5}, Vector2D{X: -5, Y: -5}, false},
	}
	for _, c := range cases {
		t.Run(c.Description, func(t *testing.T) {
			assert.Equal(t, c.Expected, isWrapSegment(c.A, c.B))
		})
	}
}

func TestHitsSnakeBody(t *testing.T) {
	target := &Snake{Body: []Vector2D{{X: 0, Y: 0}, {X: 0, Y: 50}, {X: 50, Y: 50}}}

	assert.True(t, hitsSnakeBody(Vector2D{X: 0, Y: 25}, snakeWidth, target), "point on the first segment hits")
	assert.False(t, hitsSnakeBody(Vector2D{X: 200, Y: 200}, snakeWidth, target), "far point misses")
}

func TestHitsSnakeBodySkipsWrapPair(t *testing.T) {
	target := &Snake{Body: []Vector2D{{X: 995, Y: 0}, {X: -995, Y: 0}, {X: -990, Y: 0}}}

	assert.False(t, hitsSnakeBody(Vector2D{X: 0, Y: 0}, snakeWidth, target),
		"the inter-wrap segment spans the universe and must never register as a body hit")
}

func TestHitsSelf(t *testing.T) {
	cases := []struct {
		Description string
		Body        []Vector2D
		Dir         Vector2D
		Expected    bool
	}{
		{
			Description: "too short to coil",
			Body:        []Vector2D{{X: 0, Y: 0}, {X: 0, Y: 10}},
			Dir:         DirUp,
			Expected:    false,
		},
		{
			Description: "straight run, no coil",
			Body:        []Vector2D{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 0, Y: 20}},
			Dir:         DirUp,
			Expected:    false,
		},
		{
			Description: "fresh U-turn must not self-collide on its own neck",
			Body:        []Vector2D{{X: 0, Y: 0}, {X: 0, Y: 30}, {X: 0, Y: 28}},
			Dir:         DirDown,
			Expected:    false,
		},
		{
			Description: "head re-enters an earlier loop of its own body",
			Body: []Vector2D{
				{X: 0, Y: 0}, {X: 0, Y: 30}, {X: -30, Y: 30},
				{X: -30, Y: 0}, {X: -15, Y: 0}, {X: -15, Y: 8},
			},
			Dir:      DirUp,
			Expected: true,
		},
	}
	for _, c := range cases {
		t.Run(c.Description, func(t *testing.T) {
			s := &Snake{Body: c.Body, Dir: c.Dir}
			assert.Equal(t, c.Expected, hitsSelf(s))
		})
	}
}

func TestHitsWallAndPowerup(t *testing.T) {
	w := NewWall(1, Vector2D{X: 0, Y: 0}, Vector2D{X: 0, Y: 100})
	assert.True(t, hitsWall(Vector2D{X: 0, Y: 50}, snakeWidth, w))
	assert.False(t, hitsWall(Vector2D{X: 500, Y: 500}, snakeWidth, w))

	p := NewPowerup(1, Vector2D{X: 10, Y: 10})
	assert.True(t, hitsPowerup(Vector2D{X: 10, Y: 10}, snakeWidth, p))
	assert.False(t, hitsPowerup(Vector2D{X: 1000, Y: 1000}, snakeWidth, p))
}
