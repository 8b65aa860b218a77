package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the recommendation engine. Callers branch with
// errors.Is; the HTTP layer maps them onto status codes.
var (
	// ErrNoIndex means a query arrived before the first successful build.
	ErrNoIndex = errors.New("no index has been built yet")

	// ErrNotFound means no title or genre matched, including a fuzzy match
	// below the acceptance threshold. A negative result, not a defect.
	ErrNotFound = errors.New("not found")

	// ErrConfiguration means a required external collaborator is unavailable,
	// e.g. the embedding strategy was requested without a provider.
	ErrConfiguration = errors.New("configuration error")
)

// BuildError wraps a failure from any step of an index build. The build is
// discarded as a whole; the previously published index keeps serving.
type BuildError struct {
	Step string
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("index build failed at %s: %v", e.Step, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
