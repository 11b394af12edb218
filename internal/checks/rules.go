package checks

import (
	"fmt"
	"regexp"
	"strconv"

	"lusogate/internal/models"
	"lusogate/internal/parser"
	"lusogate/internal/textrules"
)

// CharsetCheck rejects free text outside Latin script, digits, whitespace
// and common punctuation, and any text carrying script markers.
type CharsetCheck struct {
	Fields []string
}

func (c CharsetCheck) Name() string { return "charset" }

func (c CharsetCheck) Run(rec parser.Record) []models.Issue {
	var issues []models.Issue
	for _, field := range c.Fields {
		for _, tv := range textsAt(rec, field) {
			if !textrules.HasSafeCharacters(tv.value) {
				issues = append(issues, models.Issue{Field: tv.path, Code: CodeInvalidCharacters})
			}
		}
	}
	return issues
}

// ConsentRule ties an optional personal data field to the flag that must be
// true whenever the field is filled in.
type ConsentRule struct {
	Field   string
	Consent string
}

// DefaultConsentRules covers contact details, date of birth and national
// identifiers.
var DefaultConsentRules = []ConsentRule{
	{Field: "email", Consent: "gdprConsent"},
	{Field: "dateOfBirth", Consent: "gdprConsent"},
	{Field: "nif", Consent: "dataProcessingConsent"},
	{Field: "nationalInsurance", Consent: "dataProcessingConsent"},
}

// ConsentCheck rejects personal data sent without the matching consent. A
// missing flag is a rejection, not a reason to drop the field.
type ConsentCheck struct {
	Rules []ConsentRule
}

func (c ConsentCheck) Name() string { return "consent" }

func (c ConsentCheck) Run(rec parser.Record) []models.Issue {
	var issues []models.Issue
	for _, rule := range c.Rules {
		if !present(rec, rule.Field) {
			continue
		}
		if !consented(rec, rule.Consent) {
			issues = append(issues, models.Issue{Field: rule.Field, Code: CodeConsentRequired})
		}
	}
	return issues
}

// consented accepts a JSON true or the form value "true".
func consented(rec parser.Record, flag string) bool {
	v, ok := rec.Lookup(flag)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		// Same spellings the schema accepts when coercing form values.
		ok, err := strconv.ParseBool(t)
		return err == nil && ok
	}
	return false
}

// GeolocationCheck requires a UK postcode when the field is present. A
// missing field passes; whether it is required is the schema's call.
type GeolocationCheck struct {
	Field string
}

func (c GeolocationCheck) Name() string { return "geolocation" }

func (c GeolocationCheck) Run(rec parser.Record) []models.Issue {
	v, ok := rec.Lookup(c.Field)
	if !ok || v == nil {
		return nil
	}
	if s, ok := v.(string); ok && textrules.IsUKPostcode(s) {
		return nil
	}
	return []models.Issue{{Field: c.Field, Code: CodeInvalidPostcode}}
}

// SensitivityCheck scores free text against a deny-list. The score starts at
// 100 and every matching term costs Penalty; a request scoring below
// Threshold is rejected.
type SensitivityCheck struct {
	Fields    []string
	Penalty   int
	Threshold int

	terms []*regexp.Regexp
}

const maxScore = 100

// NewSensitivityCheck compiles the configured terms. Terms are regular
// expressions matched case-insensitively.
func NewSensitivityCheck(fields []string, cfg models.ValidationConfig) (*SensitivityCheck, error) {
	terms := make([]*regexp.Regexp, 0, len(cfg.SensitiveTerms))
	for _, term := range cfg.SensitiveTerms {
		re, err := regexp.Compile("(?i)" + term)
		if err != nil {
			return nil, fmt.Errorf("invalid sensitive term %q: %w", term, err)
		}
		terms = append(terms, re)
	}
	return &SensitivityCheck{
		Fields:    fields,
		Penalty:   cfg.SensitivePenalty,
		Threshold: cfg.SensitiveThreshold,
		terms:     terms,
	}, nil
}

func (c *SensitivityCheck) Name() string { return "sensitivity" }

// Score returns the appropriateness score and the paths that cost points.
func (c *SensitivityCheck) Score(rec parser.Record) (int, []string) {
	score := maxScore
	var flagged []string
	for _, field := range c.Fields {
		for _, tv := range textsAt(rec, field) {
			hit := false
			for _, re := range c.terms {
				if re.MatchString(tv.value) {
					score -= c.Penalty
					hit = true
				}
			}
			if hit {
				flagged = append(flagged, tv.path)
			}
		}
	}
	return score, flagged
}

func (c *SensitivityCheck) Run(rec parser.Record) []models.Issue {
	score, flagged := c.Score(rec)
	if score >= c.Threshold {
		return nil
	}
	issues := make([]models.Issue, 0, len(flagged))
	for _, path := range flagged {
		issues = append(issues, models.Issue{Field: path, Code: CodeSensitiveContent})
	}
	return issues
}
