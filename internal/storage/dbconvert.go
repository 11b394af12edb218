package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"lusogate/internal/models"
)

// compactPayload returns the payload without insignificant whitespace.
func compactPayload(payload json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, payload); err != nil {
		return nil, fmt.Errorf("failed to compact payload: %w", err)
	}
	return buf.Bytes(), nil
}

// copySubmission returns a deep copy so callers cannot modify stored data.
func copySubmission(s *models.Submission) *models.Submission {
	c := *s
	c.Payload = append(json.RawMessage(nil), s.Payload...)
	return &c
}

// toUnixNano and fromUnixNano store timestamps as integers in SQLite, which
// keeps ordering exact and avoids driver-specific time parsing.
func toUnixNano(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

// newerFirst orders submissions by creation time, newest first, with the ID
// as a tie breaker.
func newerFirst(a, b *models.Submission) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

// prepare validates a submission and returns the copy to store.
func prepare(s *models.Submission) (*models.Submission, error) {
	if s == nil {
		return nil, fmt.Errorf("submission is nil")
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid submission: %w", err)
	}

	payload, err := compactPayload(s.Payload)
	if err != nil {
		return nil, err
	}
	c := *s
	c.Payload = payload
	c.CreatedAt = s.CreatedAt.UTC()
	return &c, nil
}
