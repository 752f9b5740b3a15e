package arena

// Snake is the authoritative live entity for one connected player.
// Body is ordered tail-first: index 0 is the tail, the last index is
// the head.
type Snake struct {
	ID       int
	Name     string // display name; in venom mode this may be a derived "name + seconds" string
	RealName string // the name as joined, used to recover Name once a venom suffix is no longer applied
	Body     []Vector2D

	Dir     Vector2D // current movement direction, one of the four unit cardinals
	PrevDir Vector2D // direction as of the previous tick, used to detect turns

	Score int
	Alive bool
	Died  bool // set for exactly the tick of death
	DC    bool // set for exactly the tick of disconnect
	Join  bool // one-shot, set for exactly the tick of (re)spawn

	Growth  int // ticks remaining during which the tail does not advance
	Respawn int // ticks remaining until revival

	Venomous     bool
	VenomCounter int // ticks remaining of venom time

	pendingDir Vector2D // latest accepted-but-not-yet-applied direction command
	hasPending bool
}

// NewSnake creates a dead, not-yet-placed snake. It becomes
// alive once the respawn scan's countdown reaches zero and placement
// runs, so a freshly joined snake spawns on the next tick.
func NewSnake(id int, name string) *Snake {
	return &Snake{
		ID:       id,
		Name:     name,
		RealName: name,
		Dir:      DirUp,
		PrevDir:  DirUp,
		Alive:    false,
		Respawn:  1,
	}
}

// Head returns the snake's head point (last element of Body).
func (s *Snake) Head() Vector2D {
	return s.Body[len(s.Body)-1]
}

// Tail returns the snake's tail point (first element of Body).
func (s *Snake) Tail() Vector2D {
	return s.Body[0]
}

// place resets the snake to a freshly spawned state at the given
// vertical body (tail at body[0], head at body[len-1], pointing up),
// used by both initial join and post-death respawn placement.
func (s *Snake) place(body []Vector2D) {
	s.Body = body
	s.Dir = DirUp
	s.PrevDir = DirUp
	s.Score = 0
	s.Alive = true
	s.Died = false
	s.Join = true
	s.Growth = 0
	s.Respawn = 0
	s.Venomous = false
	s.VenomCounter = 0
	s.hasPending = false
	s.Name = s.RealName
}

// kill marks the snake dead and arms its respawn countdown, wiping the
// score and any in-progress growth or venom state along with it.
func (s *Snake) kill(respawnRate int) {
	s.Alive = false
	s.Died = true
	s.Respawn = respawnRate
	s.Growth = 0
	s.Score = 0
	s.Venomous = false
	s.VenomCounter = 0
}

// clearOneShotFlags clears the died and join flags at the start of a
// tick, before any other processing — both are one-shot, single-tick
// signals that must not linger into a second broadcast.
func (s *Snake) clearOneShotFlags() {
	s.Died = false
	s.Join = false
}

// headSegmentLength returns the length of the last segment of Body
// (the segment ending at the head), or 0 if the snake has fewer than
// two points.
func (s *Snake) headSegmentLength() float64 {
	if len(s.Body) < 2 {
		return 0
	}
	head := s.Body[len(s.Body)-1]
	neck := s.Body[len(s.Body)-2]
	return head.Sub(neck).Length()
}

// neckDirection returns the direction of travel implied by the last
// segment (neck -> head), or the zero vector if undefined.
func (s *Snake) neckDirection() Vector2D {
	if len(s.Body) < 2 {
		return Vector2D{}
	}
	head := s.Body[len(s.Body)-1]
	neck := s.Body[len(s.Body)-2]
	return head.Sub(neck).Normalize()
}

// ApplyDirection validates and stores a pending direction command. It
// does not change Dir immediately — the command takes effect on the
// next tick's move.
func (s *Snake) ApplyDirection(cmd Vector2D) {
	if !s.Alive {
		return
	}
	if s.Dir.IsCardinalOpposite(cmd) {
		return
	}
	if s.headSegmentLength() <= snakeWidth && s.neckDirection().IsCardinalOpposite(cmd) {
		return
	}
	s.pendingDir = cmd
	s.hasPending = true
}

// applyPendingDirection moves the validated pending command into Dir,
// effective for this tick's move.
func (s *Snake) applyPendingDirection() {
	if s.hasPending {
		s.Dir = s.pendingDir
		s.hasPending = false
	}
}

// move advances the head by speed*Dir, inserting a corner point first
// if Dir changed since the previous tick.
func (s *Snake) move(speed float64) {
	if !s.Dir.Equal(s.PrevDir) {
		s.Body = append(s.Body, s.Head())
	}
	idx := len(s.Body) - 1
	s.Body[idx] = s.Body[idx].Add(s.Dir.Scale(speed))
	s.PrevDir = s.Dir
}

// advanceTail consumes up to `speed` units of tail length, removing
// fully-consumed segments and shortening the remaining one, unless a
// growth tick is pending.
func (s *Snake) advanceTail(speed float64) {
	if s.Growth > 0 {
		s.Growth--
		return
	}
	remaining := speed
	for remaining > 0 && len(s.Body) >= 2 {
		seg := s.Body[1].Sub(s.Body[0])
		segLen := seg.Length()
		if segLen <= remaining {
			if len(s.Body) == 2 {
				break
			}
			remaining -= segLen
			s.Body = s.Body[1:]
			continue
		}
		dir := seg.Normalize()
		s.Body[0] = s.Body[0].Add(dir.Scale(remaining))
		remaining = 0
	}
}

// grow credits amount ticks of growth (tail-freeze) to the snake.
func (s *Snake) grow(ticks int) {
	s.Growth += ticks
}

// ToDTO maps a Snake to its wire record. In venom mode the caller is
// responsible for having set Name to the venom-suffixed display form
// before calling ToDTO.
func (s *Snake) ToDTO() SnakeDTO {
	body := make([]Vector2D, len(s.Body))
	copy(body, s.Body)
	return SnakeDTO{
		ID:    s.ID,
		Name:  s.Name,
		Body:  body,
		Dir:   s.Dir,
		Score: s.Score,
		Alive: s.Alive,
		Died:  s.Died,
		DC:    s.DC,
		Join:  s.Join,
	}
}
