package arena

// Wall is a fixed obstacle made of 50px-wide blocks. Its outer AABB is
// cached at construction since walls never move.
type Wall struct {
	ID  int
	P1  Vector2D
	P2  Vector2D
	box AABB // p1/p2 padded by ±25 on both axes
}

// NewWall builds a Wall and caches its padded outer AABB.
func NewWall(id int, p1, p2 Vector2D) *Wall {
	return &Wall{
		ID:  id,
		P1:  p1,
		P2:  p2,
		box: NewAABB(p1, p2).Expand(wallBlockSize / 2),
	}
}

func wallsFromConfig(cfgs []WallConfig) []*Wall {
	walls := make([]*Wall, 0, len(cfgs))
	for _, c := range cfgs {
		walls = append(walls, NewWall(c.ID, Vector2D{X: c.P1.X, Y: c.P1.Y}, Vector2D{X: c.P2.X, Y: c.P2.Y}))
	}
	return walls
}

// WallDTO is the wire-visible form of a Wall, sent once during handshake.
type WallDTO struct {
	ID int      `json:"wall"`
	P1 Vector2D `json:"p1"`
	P2 Vector2D `json:"p2"`
}

// ToDTO maps a Wall to its wire record.
func (w *Wall) ToDTO() WallDTO {
	return WallDTO{ID: w.ID, P1: w.P1, P2: w.P2}
}
