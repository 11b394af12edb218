package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("Internal server error", ErrorCodeInternalError)

	assert.Equal(t, "internal_error", resp.Error)
	assert.Equal(t, "Internal server error", resp.Message)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestValidationErrorResponse_JSON(t *testing.T) {
	resp := NewValidationErrorResponse(ErrorCodeValidation, "Request validation failed", []Issue{
		{Field: "email", Message: "email must be a valid email address", Code: "invalid_email"},
	})

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "validation_failed", decoded["error"])
	issues, ok := decoded["issues"].([]any)
	require.True(t, ok)
	require.Len(t, issues, 1)
	issue := issues[0].(map[string]any)
	assert.Equal(t, "email", issue["field"])
	assert.Equal(t, "invalid_email", issue["code"])
}

func TestValidationErrorResponse_OmitsEmptyIssues(t *testing.T) {
	data, err := json.Marshal(NewValidationErrorResponse(ErrorCodeParse, "Request body could not be parsed", nil))
	require.NoError(t, err)

	assert.NotContains(t, string(data), "issues")
}

func TestRateLimitErrorResponse_JSON(t *testing.T) {
	reset := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	data, err := json.Marshal(NewRateLimitErrorResponse("Too many requests", reset, 0))
	require.NoError(t, err)

	assert.JSONEq(t, `{"error":"rate_limit_exceeded","message":"Too many requests","resetTime":"2026-03-01T12:00:00Z","remaining":0}`, string(data))
}

func TestHealthCheckResponse_AddComponent(t *testing.T) {
	h := NewHealthCheckResponse(StatusHealthy)

	h.AddComponent("storage", StatusHealthy, "")
	assert.Equal(t, StatusHealthy, h.Status)

	h.AddComponent("counter_store", StatusUnhealthy, "connection refused")
	assert.Equal(t, StatusDegraded, h.Status)
	assert.Equal(t, "connection refused", h.Components["counter_store"].Message)
}
