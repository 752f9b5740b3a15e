package arena

// Pure, non-mutating point-vs-target AABB tests. The broad-phase
// spatial grid (grid.go) only narrows the candidate set — every
// candidate is re-verified here, so this file remains the single
// source of truth for whether a collision fires.

// isWrapSegment reports whether a->b is an inter-wrap pair: on the one
// axis where they differ, both endpoints have equal magnitude and
// opposite sign. Such segments span almost the entire universe and
// must be ignored for collision.
func isWrapSegment(a, b Vector2D) bool {
	switch {
	case a.X == b.X:
		return a.Y != b.Y && a.Y == -b.Y
	case a.Y == b.Y:
		return a.X != b.X && a.X == -b.X
	default:
		return false
	}
}

// segmentAABBHit tests whether a probe point (inflated by probeSize,
// the Minkowski-style point-vs-region test) intersects the AABB of
// segment a->b inflated by segWidth. All AABBs are inclusive.
func segmentAABBHit(point Vector2D, probeSize, segWidth float64, a, b Vector2D) bool {
	box := NewAABB(a, b).Expand(segWidth/2 + probeSize/2)
	return box.Contains(point)
}

// hitsSnakeBody tests point against every segment of target's body,
// skipping wrap pairs. Used for inter-snake and powerup-vs-snake
// tests; NOT for self-collision, which additionally gates on having
// passed a reversal point (see hitsSelf).
func hitsSnakeBody(point Vector2D, probeSize float64, target *Snake) bool {
	n := len(target.Body)
	for i := 0; i < n-1; i++ {
		a, b := target.Body[i], target.Body[i+1]
		if isWrapSegment(a, b) {
			continue
		}
		if segmentAABBHit(point, probeSize, snakeWidth, a, b) {
			return true
		}
	}
	return false
}

// hitsSelf tests a snake's head against its own body. The walker must
// observe at least one segment whose direction is the cardinal-
// opposite of the snake's current head direction before any hit
// counts, letting the head safely exit its own neck after a U-turn
// while still detecting coils. The neck segment itself is additionally
// suppressed whenever its projection onto the current direction is
// non-negative.
func hitsSelf(s *Snake) bool {
	n := len(s.Body)
	if n < 3 {
		return false
	}
	head := s.Head()
	dir := s.Dir
	seenOpposite := false
	for i := 0; i < n-1; i++ {
		a, b := s.Body[i], s.Body[i+1]
		if isWrapSegment(a, b) {
			continue
		}
		segVec := b.Sub(a)
		if i == n-2 && segVec.Dot(dir) >= 0 {
			continue
		}
		if !seenOpposite {
			if segVec.Normalize().IsCardinalOpposite(dir) {
				seenOpposite = true
			}
			continue
		}
		if segmentAABBHit(head, snakeWidth, snakeWidth, a, b) {
			return true
		}
	}
	return false
}

// hitsWall tests point against a wall's cached outer AABB.
func hitsWall(point Vector2D, probeSize float64, w *Wall) bool {
	return w.box.Expand(probeSize / 2).Contains(point)
}

// hitsPowerup tests point against a powerup's location.
func hitsPowerup(point Vector2D, probeSize float64, p *Powerup) bool {
	box := NewAABB(p.Location, p.Location).Expand(powerupWidth/2 + probeSize/2)
	return box.Contains(point)
}
