package models

import (
	"encoding/json"
	"errors"
	"time"
)

// Submission kinds, one per guarded write endpoint.
const (
	KindSignup   = "signup"
	KindProfile  = "profile"
	KindEvent    = "event"
	KindBusiness = "business"
	KindMessage  = "message"
	KindUpload   = "upload"
)

var submissionKinds = []string{KindSignup, KindProfile, KindEvent, KindBusiness, KindMessage, KindUpload}

// Submission is an accepted request payload as handed to storage.
type Submission struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	ClientID  string          `json:"client_id"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

func IsValidKind(kind string) bool {
	for _, k := range submissionKinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (s *Submission) Validate() error {
	if s.ID == "" {
		return errors.New("submission ID is required")
	}

	if !IsValidKind(s.Kind) {
		return errors.New("invalid submission kind: " + s.Kind)
	}

	if len(s.Payload) == 0 || !json.Valid(s.Payload) {
		return errors.New("submission payload must be valid JSON")
	}

	if s.CreatedAt.IsZero() {
		return errors.New("created_at is required")
	}

	return nil
}
