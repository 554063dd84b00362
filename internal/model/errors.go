package model

import (
	"errors"
	"fmt"
)

// ErrConfig marks invalid or degenerate grading configuration. Callers test
// for it with errors.Is.
var ErrConfig = errors.New("invalid grading configuration")

// GradeError wraps a failure inside a single grading call (parser or
// embedding inference). It is fatal for that call only: the surrounding
// system should treat the question as ungraded and carry on with the rest.
type GradeError struct {
	QuestionID string
	Err        error
}

func (e *GradeError) Error() string {
	return fmt.Sprintf("grade question %q: %v", e.QuestionID, e.Err)
}

func (e *GradeError) Unwrap() error { return e.Err }
