package llm

import "errors"

var (
	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrEmptyCompletion indicates the model returned no choices.
	ErrEmptyCompletion = errors.New("llm returned no completion")
)
