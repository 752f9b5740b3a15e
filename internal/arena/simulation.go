package arena

import (
	"log/slog"
	"math"
)

const maxPlacementAttempts = 2000

// Frame is one tick's encoded output: every current snake then every
// current powerup, each destined for one newline-delimited JSON
// record.
type Frame struct {
	Snakes   []SnakeDTO
	Powerups []PowerupDTO
}

// Tick executes one simulation step in a fixed, load-bearing order:
// respawn scan, move+collide per snake, powerup spawn, frame encode,
// garbage pass. The returned Frame reflects state as of immediately
// before the garbage pass, so disconnected snakes and consumed
// powerups are emitted with their terminal flags exactly once before
// removal.
func (w *World) Tick() Frame {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.Frame++
	w.respawnScan()
	w.moveAndCollide()
	w.spawnPowerups()
	frame := w.encodeFrame()
	w.garbageCollect()
	return frame
}

// ApplyDirection validates and stores a client's direction command.
// Safe to call concurrently with Tick; it takes the same World lock.
func (w *World) ApplyDirection(snakeID int, cmd Vector2D) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s, ok := w.Snakes[snakeID]; ok {
		s.ApplyDirection(cmd)
	}
}

// Disconnect marks a snake's connection as dropped. It is emitted once
// more (dc=true, alive=false, died=true) before the next garbage pass
// removes it.
func (w *World) Disconnect(snakeID int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s, ok := w.Snakes[snakeID]; ok && !s.DC {
		s.DC = true
		s.Alive = false
		s.Died = true
	}
}

// Join registers a new snake for name and returns its ID, for use in
// the handshake response. The snake does not become alive until the
// next tick's respawn scan places it.
func (w *World) Join(name string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.AddSnake(name)
	return s.ID
}

// respawnScan is simulation step 1.
func (w *World) respawnScan() {
	for _, s := range w.OrderedSnakes() {
		if s.DC {
			continue
		}
		s.clearOneShotFlags()
		if !s.Alive && s.Respawn > 0 {
			s.Respawn--
			if s.Respawn == 0 {
				w.respawnSnake(s)
			}
		}
	}
}

// respawnSnake samples a free placement for a snake and plants its
// starting body there, vertical and two points long.
func (w *World) respawnSnake(s *Snake) {
	u := float64(w.Settings.UniverseSize)
	half := u / 2
	size := float64(w.Settings.SnakeStartingSize)

	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		x := (w.rng.Float64()*2 - 1) * (half - spawnMargin)
		y := (w.rng.Float64()*2 - 1) * (half - spawnMargin)
		tail := Vector2D{X: x, Y: y}
		head := Vector2D{X: x, Y: y + size}
		body := []Vector2D{tail, head}
		if w.siteFree(body, snakeWidth) {
			s.place(body)
			return
		}
	}
	slog.Warn("respawn placement exhausted attempts, retrying next tick", "snake", s.ID)
	s.Respawn = 1
}

// placePowerup samples a free placement for a powerup: the length-0
// variant of placement, a single sample point with no body to walk.
func (w *World) placePowerup() {
	u := float64(w.Settings.UniverseSize)
	half := u / 2

	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		x := (w.rng.Float64()*2 - 1) * (half - spawnMargin)
		y := (w.rng.Float64()*2 - 1) * (half - spawnMargin)
		p := Vector2D{X: x, Y: y}
		if w.siteFree([]Vector2D{p}, powerupWidth) {
			w.addPowerup(p)
			return
		}
	}
	slog.Warn("powerup placement exhausted attempts, skipping spawn this tick")
}

// siteFree samples body at stride == probeSize and tests each sample
// against every wall, live snake, and live powerup.
func (w *World) siteFree(body []Vector2D, probeSize float64) bool {
	if len(body) == 1 {
		return w.pointFree(body[0], probeSize)
	}
	for i := 0; i < len(body)-1; i++ {
		a, b := body[i], body[i+1]
		segLen := b.Sub(a).Length()
		if segLen == 0 {
			if !w.pointFree(a, probeSize) {
				return false
			}
			continue
		}
		dir := b.Sub(a).Normalize()
		steps := int(math.Ceil(segLen / probeSize))
		for k := 0; k <= steps; k++ {
			d := float64(k) * probeSize
			if d > segLen {
				d = segLen
			}
			if !w.pointFree(a.Add(dir.Scale(d)), probeSize) {
				return false
			}
		}
	}
	return true
}

func (w *World) pointFree(p Vector2D, probeSize float64) bool {
	for _, wall := range w.Walls {
		if hitsWall(p, probeSize, wall) {
			return false
		}
	}
	for _, s := range w.Snakes {
		if s.Alive && hitsSnakeBody(p, probeSize, s) {
			return false
		}
	}
	for _, pu := range w.Powerups {
		if !pu.Died && hitsPowerup(p, probeSize, pu) {
			return false
		}
	}
	return true
}

// moveAndCollide is simulation step 2.
func (w *World) moveAndCollide() {
	speed := float64(w.Settings.SnakeSpeed)
	for _, s := range w.OrderedSnakes() {
		if !s.Alive {
			continue
		}
		s.applyPendingDirection()
		s.move(speed)
		w.wrapIfNeeded(s)
		s.advanceTail(speed)

		w.rebuildGrid()
		w.resolvePowerupPickup(s)
		if s.Alive {
			w.resolveSnakeCollisions(s)
		}
		if s.Alive {
			w.resolveWallCollisions(s)
		}
		if s.Alive {
			if hitsSelf(s) {
				w.killPlain(s)
			}
		}
		w.venomCountdown(s)
	}
}

// wrapIfNeeded teleports a snake whose head has crossed the square
// universe's edge to the opposite edge, preserving overshoot.
func (w *World) wrapIfNeeded(s *Snake) {
	limit := float64(w.Settings.UniverseSize)/2 - snakeWidth/2
	head := s.Head()

	var overshoot, nx, ny float64
	nx, ny = head.X, head.Y
	wrapped := false

	switch {
	case head.X > limit:
		overshoot, nx, wrapped = head.X-limit, -limit, true
	case head.X < -limit:
		overshoot, nx, wrapped = -limit-head.X, limit, true
	case head.Y > limit:
		overshoot, ny, wrapped = head.Y-limit, -limit, true
	case head.Y < -limit:
		overshoot, ny, wrapped = -limit-head.Y, limit, true
	}
	if !wrapped {
		return
	}

	opposite := Vector2D{X: nx, Y: ny}
	advanced := opposite.Add(s.Dir.Scale(overshoot))
	s.Body = []Vector2D{opposite, advanced}
	s.Growth = bodyLengthTicks(w.Settings)
}

func bodyLengthTicks(s Settings) int {
	if s.SnakeSpeed <= 0 {
		return 0
	}
	return int(math.Ceil(float64(s.SnakeStartingSize) / float64(s.SnakeSpeed)))
}

// rebuildGrid reindexes every live snake and powerup from scratch.
// Called once per snake processed in moveAndCollide so the broad phase
// always reflects whatever has moved or died so far this tick,
// including the snake that was just moved.
func (w *World) rebuildGrid() {
	w.grid.clear()
	for _, s := range w.OrderedSnakes() {
		if s.Alive {
			w.grid.insertSnake(s)
		}
	}
	for _, p := range w.OrderedPowerups() {
		if !p.Died {
			w.grid.insertPowerup(p)
		}
	}
}

// nearbySnakeIDs queries the grid around p and returns the distinct
// candidate snake IDs in reference (insertion) order, so the exact
// test that follows runs in the same deterministic order brute-force
// iteration would have used.
func (w *World) nearbySnakeIDs(p Vector2D, radius float64) []int {
	candidates := make(map[int]bool)
	for _, ref := range w.grid.nearbySegments(p, radius) {
		candidates[ref.snakeID] = true
	}
	ids := make([]int, 0, len(candidates))
	for _, id := range w.snakeOrder {
		if candidates[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// nearbyPowerupIDs is nearbySnakeIDs's powerup counterpart.
func (w *World) nearbyPowerupIDs(p Vector2D, radius float64) []int {
	candidates := make(map[int]bool)
	for _, id := range w.grid.nearbyPowerups(p, radius) {
		candidates[id] = true
	}
	ids := make([]int, 0, len(candidates))
	for _, id := range w.powerupOrder {
		if candidates[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// resolvePowerupPickup credits score/growth (default/poison) or venom
// time (venom) for every powerup the snake's head touches this tick.
// The grid narrows the candidates to powerups near the head; hitsPowerup
// still makes the actual call.
func (w *World) resolvePowerupPickup(s *Snake) {
	if !s.Alive {
		return
	}
	head := s.Head()
	radius := snakeWidth + powerupWidth + w.grid.cellSize
	for _, id := range w.nearbyPowerupIDs(head, radius) {
		p, ok := w.Powerups[id]
		if !ok || p.Died || !hitsPowerup(head, snakeWidth, p) {
			continue
		}
		if w.Settings.GameMode == ModeVenom {
			s.Venomous = true
			s.VenomCounter = w.Settings.venomTicks()
		} else {
			s.Score += powerupScore
			s.grow(w.Settings.SnakeGrowthFrames)
		}
		p.Died = true
	}
}

// resolveSnakeCollisions tests s's head against every other alive
// snake's body, dispatching each hit to the mode-specific kill rules.
// The grid narrows the candidates to snakes with body near the head;
// hitsSnakeBody still makes the actual call against the full body.
func (w *World) resolveSnakeCollisions(s *Snake) {
	head := s.Head()
	radius := snakeWidth + w.grid.cellSize
	for _, id := range w.nearbySnakeIDs(head, radius) {
		if id == s.ID || !s.Alive {
			continue
		}
		other, ok := w.Snakes[id]
		if !ok || !other.Alive {
			continue
		}
		if !hitsSnakeBody(head, snakeWidth, other) {
			continue
		}
		headToHead := hitsSnakeBody(other.Head(), snakeWidth, s)
		w.resolveKill(s, other, headToHead)
	}
}

func (w *World) resolveKill(s, other *Snake, headToHead bool) {
	switch w.Settings.GameMode {
	case ModePoison:
		if headToHead {
			loser, survivor := w.tieBreakLoser(s, other)
			w.killAndAbsorbPoison(loser, survivor)
		} else {
			w.killAndAbsorbPoison(s, other)
		}
	case ModeVenom:
		if headToHead {
			switch {
			case s.Venomous && other.Venomous:
				loser, survivor := w.tieBreakLoser(s, other)
				w.killAndAbsorbVenom(loser, survivor)
			case s.Venomous:
				w.killAndAbsorbVenom(other, s)
			case other.Venomous:
				w.killAndAbsorbVenom(s, other)
			default:
				loser, _ := w.tieBreakLoser(s, other)
				w.killPlain(loser)
			}
		} else if s.Venomous {
			w.killAndAbsorbVenom(other, s)
		} else {
			w.killPlain(s)
		}
	default: // ModeDefault
		if headToHead {
			loser, _ := w.tieBreakLoser(s, other)
			w.killPlain(loser)
		} else {
			w.killPlain(s)
		}
	}
}

// tieBreakLoser picks which of two head-to-head snakes dies: the
// strictly-lower-score snake, or on an exact tie the one that is NOT
// first-iterated (earliest-joined snakes survive a dead-even clash).
func (w *World) tieBreakLoser(a, b *Snake) (loser, survivor *Snake) {
	if a.Score != b.Score {
		if a.Score < b.Score {
			return a, b
		}
		return b, a
	}
	if w.orderIndex(a.ID) < w.orderIndex(b.ID) {
		return b, a
	}
	return a, b
}

func (w *World) orderIndex(id int) int {
	for i, sid := range w.snakeOrder {
		if sid == id {
			return i
		}
	}
	return -1
}

func (w *World) killPlain(victim *Snake) {
	victim.kill(w.Settings.RespawnRate)
}

// killAndAbsorbPoison kills loser and credits survivor with loser's
// score plus proportional growth.
func (w *World) killAndAbsorbPoison(loser, survivor *Snake) {
	gained := loser.Score
	survivor.Score += gained
	survivor.grow((gained / powerupScore) * w.Settings.SnakeGrowthFrames)
	loser.kill(w.Settings.RespawnRate)
}

// killAndAbsorbVenom kills victim and credits attacker with victim's
// score, minimum one powerup-score. attacker keeps its venomous state
// and timer unchanged.
func (w *World) killAndAbsorbVenom(victim, attacker *Snake) {
	credit := victim.Score
	if credit == 0 {
		credit = powerupScore
	}
	attacker.Score += credit
	victim.kill(w.Settings.RespawnRate)
}

func (w *World) resolveWallCollisions(s *Snake) {
	head := s.Head()
	for _, wall := range w.Walls {
		if hitsWall(head, snakeWidth, wall) {
			w.killPlain(s)
			return
		}
	}
}

func (w *World) venomCountdown(s *Snake) {
	if !s.Venomous {
		return
	}
	s.VenomCounter--
	if s.VenomCounter <= 0 {
		s.Venomous = false
		s.VenomCounter = 0
	}
}

// spawnPowerups is simulation step 3.
func (w *World) spawnPowerups() {
	if len(w.Powerups) < w.Settings.MaxPowerups && w.powerupGate == 0 {
		w.placePowerup()
		w.powerupGate = w.randPowerupDelay()
		return
	}
	if w.powerupGate > 0 {
		w.powerupGate--
	}
}

// garbageCollect is simulation step 5: remove disconnected snakes and
// consumed powerups, now that the frame carrying their terminal flags
// has already been built.
func (w *World) garbageCollect() {
	for _, s := range w.OrderedSnakes() {
		if s.DC {
			w.RemoveSnake(s.ID)
		}
	}
	for _, p := range w.OrderedPowerups() {
		if p.Died {
			w.removePowerup(p.ID)
		}
	}
}
