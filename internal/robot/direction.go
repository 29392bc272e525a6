package robot

import (
	"fmt"
	"strings"
)

// Direction is one of the four unit moves a robot can make.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in sampling order.
var Directions = [...]Direction{Up, Down, Left, Right}

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection parses a direction name (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// ParseDirections parses a list of direction names.
func ParseDirections(names []string) ([]Direction, error) {
	out := make([]Direction, 0, len(names))
	for i, name := range names {
		d, err := ParseDirection(name)
		if err != nil {
			return nil, fmt.Errorf("directions[%d]: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}
