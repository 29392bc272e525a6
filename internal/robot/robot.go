package robot

// Position is a cell coordinate. X is the column, Y is the row.
type Position struct {
	X int
	Y int
}

// Robot is a mobile point inside a rows x cols room.
type Robot struct {
	x, y       int
	xMax, yMax int
}

// New creates a robot for a room with the given dimensions.
// Robots start one cell in from the origin at (1, 1). On rooms that are a
// single cell wide or tall that start is pulled back onto the grid.
func New(rows, cols int) *Robot {
	r := &Robot{
		x:    1,
		y:    1,
		xMax: cols - 1,
		yMax: rows - 1,
	}
	if r.x > r.xMax {
		r.x = max(r.xMax, 0)
	}
	if r.y > r.yMax {
		r.y = max(r.yMax, 0)
	}
	return r
}

// Position returns the current position.
func (r *Robot) Position() Position {
	return Position{X: r.x, Y: r.y}
}

// Move applies one move in direction d. It reports whether the robot moved;
// a move past the room boundary is a no-op.
func (r *Robot) Move(d Direction) bool {
	switch d {
	case Right:
		if r.x < r.xMax {
			r.x++
			return true
		}
	case Left:
		if r.x >= 1 {
			r.x--
			return true
		}
	case Up:
		if r.y < r.yMax {
			r.y++
			return true
		}
	case Down:
		if r.y >= 1 {
			r.y--
			return true
		}
	}
	return false
}

// Step draws a direction from s and applies it. The drawn direction is
// returned whether or not the move was allowed.
func (r *Robot) Step(s Sampler) Direction {
	d := s.Sample(r.Position())
	r.Move(d)
	return d
}
