package schema

import (
	"time"

	"lusogate/internal/models"
)

const (
	minMemberAge = 16
	maxMemberAge = 120
)

func refineSignup(p *models.SignupRequest, now time.Time) []models.Issue {
	var issues []models.Issue
	if p.ConfirmPassword != p.Password {
		issues = append(issues, models.Issue{Field: "confirmPassword", Code: CodePasswordMismatch})
	}
	if issue, ok := checkAge(p.DateOfBirth, now); !ok {
		issues = append(issues, issue)
	}
	return issues
}

func refineProfile(p *models.ProfileUpdateRequest, now time.Time) []models.Issue {
	if issue, ok := checkAge(p.DateOfBirth, now); !ok {
		return []models.Issue{issue}
	}
	return nil
}

func refineEvent(p *models.EventCreationRequest, now time.Time) []models.Issue {
	var issues []models.Issue
	if !p.StartDatetime.After(now) {
		issues = append(issues, models.Issue{Field: "startDatetime", Code: CodeStartInPast})
	}
	if !p.EndDatetime.After(p.StartDatetime) {
		issues = append(issues, models.Issue{Field: "endDatetime", Code: CodeEndBeforeStart})
	}
	if ar := p.AgeRestriction; ar != nil && ar.MinimumAge != nil && ar.MaximumAge != nil && *ar.MinimumAge > *ar.MaximumAge {
		issues = append(issues, models.Issue{Field: "ageRestriction", Code: CodeInvalidAgeRange})
	}
	if needsPortugueseTitle(p) {
		issues = append(issues, models.Issue{Field: "titlePortuguese", Code: CodePortugueseTitleRequired})
	}
	return issues
}

// needsPortugueseTitle reports a cultural celebration tied to a named
// festivity that has no Portuguese title.
func needsPortugueseTitle(p *models.EventCreationRequest) bool {
	if p.CulturalCategory == nil || *p.CulturalCategory != "cultural_celebration" {
		return false
	}
	if p.PortugueseCelebration == nil || *p.PortugueseCelebration == "none" {
		return false
	}
	return p.TitlePortuguese == nil || *p.TitlePortuguese == ""
}

// checkAge accepts a missing date of birth. The date format itself has
// already been checked by the datetime tag.
func checkAge(dob *string, now time.Time) (models.Issue, bool) {
	if dob == nil {
		return models.Issue{}, true
	}
	born, err := time.Parse(time.DateOnly, *dob)
	if err != nil {
		return models.Issue{Field: "dateOfBirth", Code: CodeInvalidDate}, false
	}
	age := ageOn(born, now)
	if age < minMemberAge || age > maxMemberAge {
		return models.Issue{Field: "dateOfBirth", Code: CodeInvalidAge}, false
	}
	return models.Issue{}, true
}

// ageOn counts completed years.
func ageOn(born, now time.Time) int {
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return age
}
