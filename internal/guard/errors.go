package guard

import (
	"fmt"
	"net/http"
	"time"

	"lusogate/internal/models"
	"lusogate/internal/ratelimit"
)

// Kind classifies why a request was stopped.
type Kind int

const (
	RateLimitExceeded Kind = iota + 1
	ParseFailure
	DomainCheckFailure
	SchemaValidationFailure
	Unexpected
)

func (k Kind) String() string {
	switch k {
	case RateLimitExceeded:
		return "rate_limit_exceeded"
	case ParseFailure:
		return "parse_error"
	case DomainCheckFailure:
		return "domain_check_failure"
	case SchemaValidationFailure:
		return "schema_validation_failure"
	case Unexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// Error is a rejected request with everything needed to answer it. Err holds
// internal detail for the logs and is never sent to the client.
type Error struct {
	Kind       Kind
	Code       string
	Message    string
	StatusCode int
	Issues     []models.Issue

	// Rate limit state, set for RateLimitExceeded only.
	Limit     int
	Remaining int
	ResetTime time.Time

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewRateLimitError(message string, d ratelimit.Decision) *Error {
	return &Error{
		Kind:       RateLimitExceeded,
		Code:       models.ErrorCodeRateLimitExceeded,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
		Limit:      d.Limit,
		Remaining:  d.Remaining,
		ResetTime:  d.ResetTime,
	}
}

func NewParseError(message string, err error) *Error {
	return &Error{
		Kind:       ParseFailure,
		Code:       models.ErrorCodeParse,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        err,
	}
}

func NewDomainCheckError(message string, issues []models.Issue) *Error {
	return &Error{
		Kind:       DomainCheckFailure,
		Code:       models.ErrorCodeDomainCheck,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Issues:     issues,
	}
}

func NewSchemaValidationError(message string, issues []models.Issue) *Error {
	return &Error{
		Kind:       SchemaValidationFailure,
		Code:       models.ErrorCodeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Issues:     issues,
	}
}

func NewUnexpectedError(message string, err error) *Error {
	return &Error{
		Kind:       Unexpected,
		Code:       models.ErrorCodeInternalError,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}
