package stats

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateProfile is returned when profile setup completes twice
	// for the same user. Profiles are write-once.
	ErrDuplicateProfile = errors.New("profile already exists")

	// ErrUnknownUser is returned by statistics operations invoked before
	// a profile exists. The dialogue gating normally prevents this; the
	// store guards anyway.
	ErrUnknownUser = errors.New("unknown user")

	// ErrUnknownDay is returned by Snapshot when no record exists for
	// the requested day.
	ErrUnknownDay = errors.New("no statistics for day")
)

// ValidationError reports a profile or log value outside its declared
// bounds. Field names the offending input.
type ValidationError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %v out of range (%v, %v)", e.Field, e.Value, e.Min, e.Max)
}
