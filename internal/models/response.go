// Package models - API response types and error handling.
// This file defines all outgoing API response structures with consistent formatting.
//
// Response Design Principles:
// - Every rejection carries a machine-readable error code and a human message
// - Field problems are reported as a list of issues, never a single string
// - Optional fields use omitempty to reduce response size
// - RFC3339 timestamps for international compatibility
package models

import (
	"time"
)

// Issue describes one invalid field. Code is stable across languages;
// Message is localized.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ErrorResponse is the generic error body. Internal detail never goes in
// Message; it stays in the server logs.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// ValidationErrorResponse is returned for parse, domain check and schema rejections.
type ValidationErrorResponse struct {
	Error   string  `json:"error"`
	Message string  `json:"message"`
	Issues  []Issue `json:"issues,omitempty"`
}

// RateLimitErrorResponse is returned with 429 Too Many Requests.
type RateLimitErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	ResetTime time.Time `json:"resetTime"`
	Remaining int       `json:"remaining"`
}

type SubmissionResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type ListSubmissionsResponse struct {
	Submissions []*Submission `json:"submissions"`
	TotalCount  int           `json:"total_count"`
}

type HealthCheckResponse struct {
	Status     string                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Uptime     string                     `json:"uptime,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

type ComponentHealth struct {
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Health Status Constants
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDegraded  = "degraded"
)

// Error Codes
//
// Lower-case with underscores; these are the values of the "error" field.
const (
	ErrorCodeRateLimitExceeded = "rate_limit_exceeded" // 429
	ErrorCodeParse             = "parse_error"         // 400: body unreadable
	ErrorCodeDomainCheck       = "domain_check_failed" // 400: content rules
	ErrorCodeValidation        = "validation_failed"   // 400: schema
	ErrorCodeBadRequest        = "bad_request"         // 400
	ErrorCodeNotFound          = "not_found"           // 404
	ErrorCodeMethodNotAllowed  = "method_not_allowed"  // 405
	ErrorCodeInternalError     = "internal_error"      // 500
	ErrorCodeUnavailable       = "service_unavailable" // 503
)

func NewErrorResponse(message string, code string) *ErrorResponse {
	return &ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func NewValidationErrorResponse(code, message string, issues []Issue) *ValidationErrorResponse {
	return &ValidationErrorResponse{
		Error:   code,
		Message: message,
		Issues:  issues,
	}
}

func NewRateLimitErrorResponse(message string, resetTime time.Time, remaining int) *RateLimitErrorResponse {
	return &RateLimitErrorResponse{
		Error:     ErrorCodeRateLimitExceeded,
		Message:   message,
		ResetTime: resetTime,
		Remaining: remaining,
	}
}

func NewHealthCheckResponse(status string) *HealthCheckResponse {
	return &HealthCheckResponse{
		Status:     status,
		Timestamp:  time.Now(),
		Components: make(map[string]ComponentHealth),
	}
}

func (h *HealthCheckResponse) AddComponent(name, status, message string) {
	h.Components[name] = ComponentHealth{
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	}
	if status != StatusHealthy && h.Status == StatusHealthy {
		h.Status = StatusDegraded
	}
}
