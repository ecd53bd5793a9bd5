package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoFile              = errors.New("no file provided")
	ErrUnsupportedFileType = errors.New("file must be a PDF or image")
	ErrMissingAPIKey       = errors.New("model service API key is not configured")
)

// InputError marks a request that failed field validation before touching any
// external collaborator. Handlers map it to 400.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return e.Reason
}

// DocumentError marks a PDF whose embedded text could not be extracted.
// There is no vision fallback for PDFs; the pipeline aborts.
type DocumentError struct {
	Err error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("failed to extract text from PDF: %v", e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// ModelError marks a failed call to the external generative model, including
// empty and syntactically invalid responses. The call is never retried
// server-side; the user re-submits.
type ModelError struct {
	Err error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("AI processing failed: %v", e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// SchemaError marks a syntactically valid model response that does not match
// the expected receipt shape. Terminal, not retried.
type SchemaError struct {
	Fields []string
}

func (e *SchemaError) Error() string {
	return "extraction result failed validation: " + strings.Join(e.Fields, ", ")
}
