package advisor

import "fmt"

// ValidationError reports a missing required request field. It is a
// client-side rejection and is never retried.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// CollaboratorError reports a failure of an external collaborator (vector
// store or LLM) on the fallback path. The four deterministic intents never
// touch a collaborator and can never surface this.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
