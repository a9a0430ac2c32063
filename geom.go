package tilewave

import "fmt"

// Direction is one of the four cardinal edges of a tile.
// Values are ordered clockwise so that rotation is modular arithmetic:
// each +1 is a 90 degree clockwise turn.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// String returns a single letter tag for the direction
func (d Direction) String() string {
	switch d {
	case Up:
		return "U"
	case Right:
		return "R"
	case Down:
		return "D"
	case Left:
		return "L"
	}
	return "?"
}

// Rotate returns the direction after k 90 degree clockwise turns.
// Negative k turns counter-clockwise. The four directions form a
// cyclic group of order 4 under Rotate.
func (d Direction) Rotate(k int) Direction {
	return Direction(((int(d)+k)%4 + 4) % 4)
}

// Flip returns the opposite direction (two quarter turns).
func (d Direction) Flip() Direction {
	return d.Rotate(2)
}

// Offset returns the (x, y) step one cell over in this direction.
// Y grows upward; renderers flip as needed.
func (d Direction) Offset() (int, int) {
	switch d {
	case Up:
		return 0, 1
	case Right:
		return 1, 0
	case Down:
		return 0, -1
	case Left:
		return -1, 0
	}
	return 0, 0
}

// AllDirections returns the four cardinal directions in clockwise order.
func AllDirections() []Direction {
	return []Direction{Up, Right, Down, Left}
}

// Pos is a position on the grid.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the position one cell over in the given direction.
func (p Pos) Step(d Direction) Pos {
	dx, dy := d.Offset()
	return Pos{X: p.X + dx, Y: p.Y + dy}
}

// String formats the position as "(x, y)"
func (p Pos) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// DirSet is a set of directions packed into the low four bits.
type DirSet uint8

// NewDirSet builds a set from the given directions.
func NewDirSet(dirs ...Direction) DirSet {
	var s DirSet
	for _, d := range dirs {
		s |= 1 << uint(d)
	}
	return s
}

// Has returns whether d is in the set.
func (s DirSet) Has(d Direction) bool {
	return s&(1<<uint(d)) != 0
}

// Empty returns whether the set holds no directions.
func (s DirSet) Empty() bool {
	return s == 0
}
