package arena

import (
	"math/rand"
	"sort"
	"sync"
)

// World holds all authoritative game state. It is exclusively mutated
// by the simulation step during a tick; the connection layer only
// registers joins, marks disconnects, and stores a client's latest
// parsed direction on that client's snake, each under the same lock.
type World struct {
	mu sync.Mutex

	Settings Settings

	Snakes      map[int]*Snake
	snakeOrder  []int // insertion order — the reference iteration order
	Powerups    map[int]*Powerup
	powerupOrder []int
	Walls       []*Wall

	nextSnakeID   int
	nextPowerupID int
	Frame         int

	powerupGate int // ticks remaining until the next powerup spawn attempt

	grid *spatialGrid
	rng  *rand.Rand
}

// NewWorld builds an empty World from settings. The rng is seeded by
// the caller (typically from a fresh entropy source at process start,
// recorded in logs so pathological respawn scenarios can be
// reasoned about).
func NewWorld(settings Settings, rng *rand.Rand) *World {
	w := &World{
		Settings: settings,
		Snakes:   make(map[int]*Snake),
		Powerups: make(map[int]*Powerup),
		Walls:    wallsFromConfig(settings.Walls),
		rng:      rng,
		grid:     newSpatialGrid(cellSizeFor(settings)),
	}
	w.powerupGate = w.randPowerupDelay()
	return w
}

func cellSizeFor(s Settings) float64 {
	size := float64(s.SnakeStartingSize)
	if size < wallBlockSize {
		size = wallBlockSize
	}
	return size
}

// Lock and Unlock expose the World's coarse lock to callers that read
// or mutate World fields directly. Tick, ApplyDirection, Join,
// Disconnect, UniverseSize, EncodeWalls and Leaderboard acquire it
// themselves and must not be called while it is held.
func (w *World) Lock()   { w.mu.Lock() }
func (w *World) Unlock() { w.mu.Unlock() }

// AddSnake registers a new snake and returns it. Caller must hold the
// lock.
func (w *World) AddSnake(name string) *Snake {
	w.nextSnakeID++
	s := NewSnake(w.nextSnakeID, name)
	w.Snakes[s.ID] = s
	w.snakeOrder = append(w.snakeOrder, s.ID)
	return s
}

// RemoveSnake deletes a snake by ID. Caller must hold the lock.
func (w *World) RemoveSnake(id int) {
	delete(w.Snakes, id)
	for i, sid := range w.snakeOrder {
		if sid == id {
			w.snakeOrder = append(w.snakeOrder[:i], w.snakeOrder[i+1:]...)
			break
		}
	}
}

// OrderedSnakes returns every snake in insertion order — the
// reference iteration order for movement, collision, and encoding.
func (w *World) OrderedSnakes() []*Snake {
	out := make([]*Snake, 0, len(w.snakeOrder))
	for _, id := range w.snakeOrder {
		if s, ok := w.Snakes[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// addPowerup registers a new powerup. Caller must hold the lock.
func (w *World) addPowerup(loc Vector2D) *Powerup {
	w.nextPowerupID++
	p := NewPowerup(w.nextPowerupID, loc)
	w.Powerups[p.ID] = p
	w.powerupOrder = append(w.powerupOrder, p.ID)
	return p
}

// removePowerup deletes a powerup by ID. Caller must hold the lock.
func (w *World) removePowerup(id int) {
	delete(w.Powerups, id)
	for i, pid := range w.powerupOrder {
		if pid == id {
			w.powerupOrder = append(w.powerupOrder[:i], w.powerupOrder[i+1:]...)
			break
		}
	}
}

// OrderedPowerups returns every powerup in insertion order.
func (w *World) OrderedPowerups() []*Powerup {
	out := make([]*Powerup, 0, len(w.powerupOrder))
	for _, id := range w.powerupOrder {
		if p, ok := w.Powerups[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// UniverseSize returns the configured universe size, for the
// handshake reply.
func (w *World) UniverseSize() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.Settings.UniverseSize
}

// Leaderboard returns the top-N snakes by score, ties broken by
// insertion order (the same reference order movement and collision
// use). Non-authoritative and read-only: callers never mutate through
// it. Shared by the opt-in TCP broadcast line and the admin HTTP
// surface, so both report identically.
func (w *World) Leaderboard(topN int) []LeaderboardEntry {
	w.mu.Lock()
	defer w.mu.Unlock()

	ordered := w.OrderedSnakes()
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})
	if topN > 0 && len(ordered) > topN {
		ordered = ordered[:topN]
	}
	entries := make([]LeaderboardEntry, 0, len(ordered))
	for _, s := range ordered {
		entries = append(entries, LeaderboardEntry{SnakeID: s.ID, Name: s.RealName, Score: s.Score})
	}
	return entries
}

func (w *World) randPowerupDelay() int {
	if w.Settings.PowerupDelay <= 0 {
		return 0
	}
	return w.rng.Intn(w.Settings.PowerupDelay)
}
