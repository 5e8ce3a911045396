package core

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the engine. Compare with errors.Is.
var (
	ErrBounds         = errors.New("board size out of bounds")
	ErrDuplicatePoint = errors.New("both endpoints are the same point")
	ErrIntersecting   = errors.New("you cannot play intersecting lines")
	ErrOutOfBoard     = errors.New("point is outside the board")
	ErrNoMovesToUndo  = errors.New("no moves to undo")
	ErrBadNotation    = errors.New("invalid notation")
)

// MoveError describes a rejected move. The board is unchanged when one is
// returned.
type MoveError struct {
	Move Segment
	Err  error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("move %s rejected: %v", e.Move, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

func boundsError(width, height int) error {
	return fmt.Errorf("%w: %dx%d (allowed %d-%d x %d-%d)",
		ErrBounds, width, height, MinWidth, MaxWidth, MinHeight, MaxHeight)
}
