// Package checks holds the content, consent, location and sensitivity rules
// that run on a parsed body before schema validation.
//
// Checks work on the raw record, so they see exactly what the client sent.
// Every check runs on every request; a failing check does not stop the
// others, and the caller gets all issues at once.
package checks

import (
	"fmt"
	"strings"

	"lusogate/internal/i18n"
	"lusogate/internal/models"
	"lusogate/internal/parser"
)

// Issue codes produced by the built-in checks.
const (
	CodeInvalidCharacters = "invalid_characters"
	CodeConsentRequired   = "consent_required"
	CodeInvalidPostcode   = "invalid_postcode"
	CodeSensitiveContent  = "sensitive_content"
)

// Check is one domain rule. Run returns an issue per offending field with
// Field and Code set; an empty result means the record passed.
type Check interface {
	Name() string
	Run(rec parser.Record) []models.Issue
}

// Outcome is what one check reported.
type Outcome struct {
	Check  string
	Issues []models.Issue
}

// Report collects the outcome of every check that ran.
type Report struct {
	Outcomes []Outcome
}

func (r Report) Failed() bool {
	for _, o := range r.Outcomes {
		if len(o.Issues) > 0 {
			return true
		}
	}
	return false
}

// Issues flattens all outcomes in check order.
func (r Report) Issues() []models.Issue {
	var issues []models.Issue
	for _, o := range r.Outcomes {
		issues = append(issues, o.Issues...)
	}
	return issues
}

// FailedChecks names the checks that produced issues.
func (r Report) FailedChecks() []string {
	var names []string
	for _, o := range r.Outcomes {
		if len(o.Issues) > 0 {
			names = append(names, o.Check)
		}
	}
	return names
}

// Runner runs checks and renders their messages.
type Runner struct {
	catalog *i18n.Catalog
}

func NewRunner(catalog *i18n.Catalog) *Runner {
	return &Runner{catalog: catalog}
}

// Run applies every check to rec. Messages are rendered in lang.
func (r *Runner) Run(rec parser.Record, lang string, checks ...Check) Report {
	report := Report{Outcomes: make([]Outcome, 0, len(checks))}
	for _, c := range checks {
		issues := c.Run(rec)
		for i := range issues {
			issues[i].Message = r.catalog.Message(lang, "issue."+issues[i].Code, issues[i].Field)
		}
		report.Outcomes = append(report.Outcomes, Outcome{Check: c.Name(), Issues: issues})
	}
	return report
}

// textValue is one string found at a path in the record.
type textValue struct {
	path  string
	value string
}

// textsAt returns the strings at a dotted path. Lists yield one value per
// string element; other types yield nothing.
func textsAt(rec parser.Record, path string) []textValue {
	v, ok := rec.Lookup(path)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case string:
		return []textValue{{path: path, value: t}}
	case []string:
		out := make([]textValue, 0, len(t))
		for i, s := range t {
			out = append(out, textValue{path: fmt.Sprintf("%s[%d]", path, i), value: s})
		}
		return out
	case []any:
		var out []textValue
		for i, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, textValue{path: fmt.Sprintf("%s[%d]", path, i), value: s})
			}
		}
		return out
	}
	return nil
}

// present reports whether path holds a value the client actually filled in.
func present(rec parser.Record, path string) bool {
	v, ok := rec.Lookup(path)
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}
