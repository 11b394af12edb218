package parser

import "fmt"

// Parse failure reasons. They are safe to show to clients.
const (
	ReasonEmpty           = "request body is empty"
	ReasonMalformed       = "request body is malformed"
	ReasonNotObject       = "request body must be a single object"
	ReasonTooLarge        = "request body is too large"
	ReasonMissingBoundary = "multipart boundary is missing"
	ReasonUnreadableFile  = "uploaded file could not be read"
)

// ParseError reports a body that could not be read into a record.
type ParseError struct {
	Kind   ContentKind
	Reason string
	Err    error
}

func newParseError(kind ContentKind, reason string, err error) *ParseError {
	return &ParseError{Kind: kind, Reason: reason, Err: err}
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s body: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s body: %s", e.Kind, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
