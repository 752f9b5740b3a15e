package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpatialGridNearbySegments(t *testing.T) {
	g := newSpatialGrid(50)
	s := &Snake{ID: 7, Body: []Vector2D{{X: 0, Y: 0}, {X: 0, Y: 100}}}
	g.insertSnake(s)

	near := g.nearbySegments(Vector2D{X: 0, Y: 0}, 10)
	assert.NotEmpty(t, near)
	for _, ref := range near {
		assert.Equal(t, 7, ref.snakeID)
	}

	far := g.nearbySegments(Vector2D{X: 10000, Y: 10000}, 10)
	assert.Empty(t, far)
}

func TestSpatialGridNearbyPowerupsAndClear(t *testing.T) {
	g := newSpatialGrid(50)
	p := &Powerup{ID: 3, Location: Vector2D{X: 5, Y: 5}}
	g.insertPowerup(p)

	assert.Contains(t, g.nearbyPowerups(Vector2D{X: 5, Y: 5}, 10), 3)

	g.clear()
	assert.Empty(t, g.nearbyPowerups(Vector2D{X: 5, Y: 5}, 10))
}
