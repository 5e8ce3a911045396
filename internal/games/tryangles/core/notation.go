package core

import (
	"fmt"
	"strconv"
	"strings"
)

// String returns the point in board notation: a column letter followed by a
// 1-based row number, e.g. "C7".
func (p Point) String() string {
	if p.X < 0 || p.X >= MaxWidth {
		return fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}
	return string(rune('A'+p.X)) + strconv.Itoa(p.Y+1)
}

// String returns the segment in board notation, e.g. "A1-C3".
func (s Segment) String() string {
	return s.A.String() + "-" + s.B.String()
}

// ParsePoint parses board notation such as "C7" or "c7".
func ParsePoint(text string) (Point, error) {
	text = strings.TrimSpace(text)
	if len(text) < 2 {
		return Point{}, fmt.Errorf("%w: point %q", ErrBadNotation, text)
	}

	col := text[0]
	switch {
	case col >= 'A' && col <= 'Z':
		col -= 'A'
	case col >= 'a' && col <= 'z':
		col -= 'a'
	default:
		return Point{}, fmt.Errorf("%w: column in %q", ErrBadNotation, text)
	}

	row, err := strconv.Atoi(text[1:])
	if err != nil || row < 1 || row > MaxHeight {
		return Point{}, fmt.Errorf("%w: row in %q", ErrBadNotation, text)
	}

	return Point{X: int(col), Y: row - 1}, nil
}

// ParseMove parses a segment written as two points joined by '-', e.g. "A1-C3".
func ParseMove(text string) (Segment, error) {
	from, to, ok := strings.Cut(strings.TrimSpace(text), "-")
	if !ok {
		return Segment{}, fmt.Errorf("%w: move %q", ErrBadNotation, text)
	}
	a, err := ParsePoint(from)
	if err != nil {
		return Segment{}, err
	}
	b, err := ParsePoint(to)
	if err != nil {
		return Segment{}, err
	}
	return Segment{A: a, B: b}, nil
}
