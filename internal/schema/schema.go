// Package schema validates parsed request bodies against declared payloads.
//
// A schema is a payload struct from the models package plus optional
// cross-field refinements. Field rules are the struct's validate tags and
// are checked with go-playground/validator. Refinements only run when every
// field is valid, so they can rely on well-formed values.
package schema

import (
	"sort"
	"time"

	"lusogate/internal/models"
)

// Schema describes one accepted payload shape.
type Schema struct {
	Name string

	newPayload func() any
	refine     func(payload any, now time.Time) []models.Issue
}

// Define declares a schema for payload type T. refine may be nil. Issues
// returned by refine need only Field and Code; messages are filled in by
// the validator.
func Define[T any](name string, refine func(p *T, now time.Time) []models.Issue) *Schema {
	s := &Schema{
		Name:       name,
		newPayload: func() any { return new(T) },
	}
	if refine != nil {
		s.refine = func(p any, now time.Time) []models.Issue {
			return refine(p.(*T), now)
		}
	}
	return s
}

// Result is the outcome of validating one body. Data is a pointer to the
// decoded payload and is only meaningful when Issues is empty.
type Result struct {
	Data   any
	Issues []models.Issue
}

func (r Result) Valid() bool {
	return len(r.Issues) == 0
}

var (
	Signup   = Define(models.KindSignup, refineSignup)
	Profile  = Define(models.KindProfile, refineProfile)
	Event    = Define(models.KindEvent, refineEvent)
	Business = Define[models.BusinessSubmissionRequest](models.KindBusiness, nil)
	Message  = Define[models.MessageRequest](models.KindMessage, nil)
	Upload   = Define[models.FileUploadRequest](models.KindUpload, nil)
)

var registry = map[string]*Schema{
	Signup.Name:   Signup,
	Profile.Name:  Profile,
	Event.Name:    Event,
	Business.Name: Business,
	Message.Name:  Message,
	Upload.Name:   Upload,
}

// Lookup returns the built-in schema with the given name.
func Lookup(name string) (*Schema, bool) {
	s, ok := registry[name]
	return s, ok
}

// Names lists the built-in schemas in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
