package arena

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// encodeFrame builds this tick's Frame: every snake (insertion order)
// then every powerup (insertion order), applying the venom-mode
// display-name suffix before each snake is copied to its DTO. Caller
// must hold the World lock.
func (w *World) encodeFrame() Frame {
	snakes := make([]SnakeDTO, 0, len(w.snakeOrder))
	for _, s := range w.OrderedSnakes() {
		s.Name = s.RealName
		if w.Settings.GameMode == ModeVenom && s.Venomous {
			secs := s.VenomCounter * w.Settings.MSPerFrame / 1000
			s.Name = fmt.Sprintf("%s %d", s.RealName, secs)
		}
		snakes = append(snakes, s.ToDTO())
	}

	powerups := make([]PowerupDTO, 0, len(w.powerupOrder))
	for _, p := range w.OrderedPowerups() {
		powerups = append(powerups, p.ToDTO())
	}

	return Frame{Snakes: snakes, Powerups: powerups}
}

// EncodeLines marshals a Frame to the wire form: one JSON object per
// line, snakes first then powerups, newline-delimited. No WebSocket
// framing, no length prefix — just one JSON object per line.
func (f Frame) EncodeLines() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, s := range f.Snakes {
		if err := enc.Encode(s); err != nil {
			return nil, fmt.Errorf("encode snake %d: %w", s.ID, err)
		}
	}
	for _, p := range f.Powerups {
		if err := enc.Encode(p); err != nil {
			return nil, fmt.Errorf("encode powerup %d: %w", p.ID, err)
		}
	}
	return buf.Bytes(), nil
}

// LeaderboardLine is the envelope for the opt-in leaderboard broadcast
// line: one extra JSON object appended to a tick's output, sent only
// to connections that asked for it at handshake time.
type LeaderboardLine struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// EncodeLeaderboardLine marshals one leaderboard broadcast line.
func EncodeLeaderboardLine(entries []LeaderboardEntry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(LeaderboardLine{Leaderboard: entries}); err != nil {
		return nil, fmt.Errorf("encode leaderboard: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeWalls marshals the arena's walls for the handshake: one wall
// JSON line per configured wall, sent once.
func (w *World) EncodeWalls() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, wall := range w.Walls {
		if err := enc.Encode(wall.ToDTO()); err != nil {
			return nil, fmt.Errorf("encode wall %d: %w", wall.ID, err)
		}
	}
	return buf.Bytes(), nil
}
