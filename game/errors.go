package game

import (
	"errors"
	"fmt"
)

var (
	ErrGameOver   = errors.New("game is over")
	ErrHostOnly   = errors.New("only the host may submit this event")
	ErrWrongPhase = errors.New("event not allowed in this phase")
	ErrNoBattle   = errors.New("no battle is being fought")
)

// ValidationError explains why an event was rejected. The game is left untouched.
type ValidationError struct {
	Kind   EventKind
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Kind, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func reject(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// rejectWith rejects with a reason that matches sentinel under errors.Is.
func rejectWith(sentinel error, format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...), Err: sentinel}
}
