package arena

// Wire vocabulary. Field names are load-bearing — clients parse by
// name, not by position.

// SnakeDTO is the wire-visible form of a Snake. Internal-only fields
// (growth, respawn, venom internals, previous direction, real name)
// are never emitted.
type SnakeDTO struct {
	ID    int        `json:"snake"`
	Name  string     `json:"name"`
	Body  []Vector2D `json:"body"`
	Dir   Vector2D   `json:"dir"`
	Score int        `json:"score"`
	Died  bool       `json:"died"`
	Alive bool       `json:"alive"`
	DC    bool       `json:"dc"`
	Join  bool       `json:"join"`
}

// ClientMoving is the wire vocabulary for client direction commands.
type ClientMoving string

const (
	MovingUp    ClientMoving = "up"
	MovingDown  ClientMoving = "down"
	MovingLeft  ClientMoving = "left"
	MovingRight ClientMoving = "right"
	MovingNone  ClientMoving = "none"
)

// ClientMessage is a direction command sent by a connected client,
// one JSON object per line.
type ClientMessage struct {
	Moving ClientMoving `json:"moving"`
}

// toVector converts a client moving command to a unit cardinal, and
// reports whether the value was recognized. Unknown values are
// ignored by the caller rather than treated as an error.
func (m ClientMoving) toVector() (Vector2D, bool) {
	switch m {
	case MovingUp:
		return DirUp, true
	case MovingDown:
		return DirDown, true
	case MovingLeft:
		return DirLeft, true
	case MovingRight:
		return DirRight, true
	default:
		return Vector2D{}, false
	}
}

// LeaderboardEntry is the opt-in leaderboard row. Never part of the
// base per-tick broadcast; only sent to clients that asked for it at
// handshake time.
type LeaderboardEntry struct {
	SnakeID int    `json:"snake"`
	Name    string `json:"name"`
	Score   int    `json:"score"`
}
