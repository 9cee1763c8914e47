package production

import (
	"errors"
	"fmt"
)

// ErrLessonsFailed is returned by Run when the run finished but at least one selected lesson failed
var ErrLessonsFailed = errors.New("one or more lessons failed")

// ErrNotPublished is the failure recorded when a publish step returns no identifier
var ErrNotPublished = errors.New("publisher returned no video id")

// FatalSetupError aborts a run before any lesson can be attempted, or when progress can no longer be persisted
type FatalSetupError struct {
	Stage string
	Err   error
}

func (e *FatalSetupError) Error() string {
	return fmt.Sprintf("fatal %s error: %v", e.Stage, e.Err)
}

func (e *FatalSetupError) Unwrap() error {
	return e.Err
}

// Outcome is the result of one lesson attempt: either a published id or the reason it failed
type Outcome struct {
	PublishedID string
	Err         error
}

// Success builds a successful outcome
func Success(publishedID string) Outcome {
	return Outcome{PublishedID: publishedID}
}

// Failure builds a failed outcome
func Failure(err error) Outcome {
	return Outcome{Err: err}
}

// OK reports whether the lesson was produced and published
func (o Outcome) OK() bool {
	return o.Err == nil && o.PublishedID != ""
}
