package api

import (
	"fmt"

	"lusogate/internal/checks"
	"lusogate/internal/guard"
	"lusogate/internal/models"
	"lusogate/internal/schema"
)

// Endpoints holds the guard declaration of every route.
type Endpoints struct {
	Signup      guard.Endpoint
	Profile     guard.Endpoint
	Event       guard.Endpoint
	Business    guard.Endpoint
	Message     guard.Endpoint
	Upload      guard.Endpoint
	Submissions guard.Endpoint
}

// NewEndpoints builds the endpoint declarations. It fails when a configured
// sensitive term is not a valid regular expression.
func NewEndpoints(cfg models.ValidationConfig) (*Endpoints, error) {
	sensitivity := func(fields ...string) (*checks.SensitivityCheck, error) {
		c, err := checks.NewSensitivityCheck(fields, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to build sensitivity check: %w", err)
		}
		return c, nil
	}

	profileSensitivity, err := sensitivity("bio")
	if err != nil {
		return nil, err
	}
	eventSensitivity, err := sensitivity("title", "titlePortuguese", "description", "descriptionPortuguese")
	if err != nil {
		return nil, err
	}
	businessSensitivity, err := sensitivity("description")
	if err != nil {
		return nil, err
	}
	messageSensitivity, err := sensitivity("content")
	if err != nil {
		return nil, err
	}

	consent := checks.ConsentCheck{Rules: checks.DefaultConsentRules}
	postcode := checks.GeolocationCheck{Field: "postcode"}

	return &Endpoints{
		Signup: guard.Endpoint{
			Name:   "signup",
			Class:  models.RateClassWrite,
			Schema: schema.Signup,
			Checks: []checks.Check{
				checks.CharsetCheck{Fields: []string{"firstName", "lastName"}},
				consent,
				postcode,
			},
		},
		Profile: guard.Endpoint{
			Name:   "profile",
			Class:  models.RateClassWrite,
			Schema: schema.Profile,
			Checks: []checks.Check{
				checks.CharsetCheck{Fields: []string{"firstName", "lastName", "bio", "location", "interests"}},
				consent,
				postcode,
				profileSensitivity,
			},
		},
		Event: guard.Endpoint{
			Name:   "events",
			Class:  models.RateClassWrite,
			Schema: schema.Event,
			Checks: []checks.Check{
				checks.CharsetCheck{Fields: []string{
					"title", "titlePortuguese", "description", "descriptionPortuguese",
					"location", "tags", "organizerContact.name",
				}},
				postcode,
				eventSensitivity,
			},
		},
		Business: guard.Endpoint{
			Name:   "businesses",
			Class:  models.RateClassWrite,
			Schema: schema.Business,
			Checks: []checks.Check{
				checks.CharsetCheck{Fields: []string{"name", "namePortuguese", "description", "address", "ownerName", "keywords"}},
				consent,
				postcode,
				businessSensitivity,
			},
		},
		Message: guard.Endpoint{
			Name:   "messages",
			Class:  models.RateClassMessaging,
			Schema: schema.Message,
			Checks: []checks.Check{
				checks.CharsetCheck{Fields: []string{"content"}},
				messageSensitivity,
			},
		},
		Upload: guard.Endpoint{
			Name:   "uploads",
			Class:  models.RateClassWrite,
			Schema: schema.Upload,
		},
		Submissions: guard.Endpoint{
			Name:  "submissions",
			Class: models.RateClassRead,
		},
	}, nil
}
