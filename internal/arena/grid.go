package arena

import "math"

// cellKey identifies one cell of the broad-phase hash grid.
type cellKey struct {
	cx, cy int
}

// segmentRef is a candidate produced by the broad phase: the caller
// must still verify it with the exact collision test against the
// snake's actual body — the grid only prunes, it never decides.
type segmentRef struct {
	snakeID int
	segIdx  int
	point   Vector2D
}

// spatialGrid buckets snake-body points and powerup locations by cell
// so collision resolution only has to walk the handful of snakes and
// powerups near a given point instead of every one in the world.
// Walls aren't indexed: a typical arena has a few dozen at most, so
// brute-force testing them stays cheap.
type spatialGrid struct {
	cellSize float64
	segments map[cellKey][]segmentRef
	powerups map[cellKey][]int
}

func newSpatialGrid(cellSize float64) *spatialGrid {
	return &spatialGrid{
		cellSize: cellSize,
		segments: make(map[cellKey][]segmentRef),
		powerups: make(map[cellKey][]int),
	}
}

func (g *spatialGrid) clear() {
	g.segments = make(map[cellKey][]segmentRef)
	g.powerups = make(map[cellKey][]int)
}

func (g *spatialGrid) keyFor(p Vector2D) cellKey {
	return cellKey{
		cx: int(math.Floor(p.X / g.cellSize)),
		cy: int(math.Floor(p.Y / g.cellSize)),
	}
}

// insertSnake indexes every segment of s's body, walking each one at
// stride == cellSize rather than just its two endpoints. A straight
// stretch of body can span many cells between corners, and a point
// query near the middle of one needs to find it without either
// endpoint being nearby.
func (g *spatialGrid) insertSnake(s *Snake) {
	for i := 0; i < len(s.Body)-1; i++ {
		a, b := s.Body[i], s.Body[i+1]
		segLen := b.Sub(a).Length()
		if segLen == 0 {
			g.insertSegmentSample(s.ID, i, a)
			continue
		}
		dir := b.Sub(a).Normalize()
		steps := int(math.Ceil(segLen / g.cellSize))
		for k := 0; k <= steps; k++ {
			d := float64(k) * g.cellSize
			if d > segLen {
				d = segLen
			}
			g.insertSegmentSample(s.ID, i, a.Add(dir.Scale(d)))
		}
	}
	if len(s.Body) == 1 {
		g.insertSegmentSample(s.ID, 0, s.Body[0])
	}
}

func (g *spatialGrid) insertSegmentSample(snakeID, segIdx int, p Vector2D) {
	k := g.keyFor(p)
	g.segments[k] = append(g.segments[k], segmentRef{snakeID: snakeID, segIdx: segIdx, point: p})
}

func (g *spatialGrid) insertPowerup(p *Powerup) {
	k := g.keyFor(p.Location)
	g.powerups[k] = append(g.powerups[k], p.ID)
}

// nearbySegments returns every segment reference whose cell is within
// radius of p, across all snakes (the caller filters by snake/self as
// needed).
func (g *spatialGrid) nearbySegments(p Vector2D, radius float64) []segmentRef {
	var out []segmentRef
	minCX := int(math.Floor((p.X - radius) / g.cellSize))
	maxCX := int(math.Floor((p.X + radius) / g.cellSize))
	minCY := int(math.Floor((p.Y - radius) / g.cellSize))
	maxCY := int(math.Floor((p.Y + radius) / g.cellSize))
	for cx := minCX; cx <= maxCX; cx++ {
		for cy := minCY; cy <= maxCY; cy++ {
			out = append(out, g.segments[cellKey{cx, cy}]...)
		}
	}
	return out
}

// nearbyPowerups returns powerup IDs whose cell is within radius of p.
func (g *spatialGrid) nearbyPowerups(p Vector2D, radius float64) []int {
	var out []int
	minCX := int(math.Floor((p.X - radius) / g.cellSize))
	maxCX := int(math.Floor((p.X + radius) / g.cellSize))
	minCY := int(math.Floor((p.Y - radius) / g.cellSize))
	maxCY := int(math.Floor((p.Y + radius) / g.cellSize))
	for cx := minCX; cx <= maxCX; cx++ {
		for cy := minCY; cy <= maxCY; cy++ {
			out = append(out, g.powerups[cellKey{cx, cy}]...)
		}
	}
	return out
}
