package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWallCachesPaddedAABB(t *testing.T) {
	w := NewWall(1, Vector2D{X: 0, Y: 0}, Vector2D{X: 0, Y: 100})

	assert.True(t, w.box.Contains(Vector2D{X: -25, Y: -25}))
	assert.True(t, w.box.Contains(Vector2D{X: 25, Y: 125}))
	assert.False(t, w.box.Contains(Vector2D{X: 26, Y: 50}))
}

func TestWallsFromConfig(t *testing.T) {
	cfgs := []WallConfig{
		{ID: 1, P1: WallEndpoint{X: 0, Y: 0}, P2: WallEndpoint{X: 0, Y: 50}},
		{ID: 2, P1: WallEndpoint{X: 100, Y: 0}, P2: WallEndpoint{X: 100, Y: 50}},
	}

	walls := wallsFromConfig(cfgs)

	assert.Len(t, walls, 2)
	assert.Equal(t, 1, walls[0].ID)
	assert.Equal(t, Vector2D{X: 0, Y: 50}, walls[0].P2)
}
