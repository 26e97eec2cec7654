package hitpoints

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLevel is returned when a level lies outside [MinLevel, MaxLevel].
	ErrInvalidLevel = errors.New("hitpoints: invalid level")
	// ErrDuplicateLevel is returned when a level has already been applied.
	ErrDuplicateLevel = errors.New("hitpoints: level already applied")
	// ErrInvalidOutcomeList is returned when a level is given no outcomes.
	ErrInvalidOutcomeList = errors.New("hitpoints: outcome list must not be empty")
	// ErrIncompleteLevelSequence is returned by Statistics when the applied
	// levels do not form the contiguous range 1..max.
	ErrIncompleteLevelSequence = errors.New("hitpoints: incomplete level sequence")
)

// LevelError associates one of the sentinel errors above with the level that
// caused it. For ErrIncompleteLevelSequence, Level is the first missing level.
type LevelError struct {
	Err   error
	Level int
}

func (e *LevelError) Error() string {
	return fmt.Sprintf("%v: level %d", e.Err, e.Level)
}

// Unwrap exposes the sentinel so callers can match with errors.Is.
func (e *LevelError) Unwrap() error {
	return e.Err
}

func levelError(err error, level int) error {
	return &LevelError{Err: err, Level: level}
}
