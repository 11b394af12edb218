package textrules

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Password problems reported by PasswordIssues.
const (
	PasswordTooShort    = "too_short"
	PasswordNoLowercase = "missing_lowercase"
	PasswordNoUppercase = "missing_uppercase"
	PasswordNoDigit     = "missing_digit"
	PasswordNoSpecial   = "missing_special"
	PasswordCommonWord  = "common_word"
)

const minPasswordLength = 8

var (
	lowerRe   = regexp.MustCompile(`[a-z]`)
	upperRe   = regexp.MustCompile(`[A-Z]`)
	digitRe   = regexp.MustCompile(`\d`)
	specialRe = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>?]`)
)

// commonWords are words too closely tied to the community to be secret.
var commonWords = []string{
	"portugal",
	"lisboa",
	"porto",
	"benfica",
	"sporting",
	"futebol",
	"saudade",
	"fado",
	"bacalhau",
	"azulejo",
}

// PasswordIssues lists every strength rule the password breaks, in a fixed
// order. An empty result means the password is acceptable.
func PasswordIssues(password string) []string {
	var issues []string
	if utf8.RuneCountInString(password) < minPasswordLength {
		issues = append(issues, PasswordTooShort)
	}
	if !lowerRe.MatchString(password) {
		issues = append(issues, PasswordNoLowercase)
	}
	if !upperRe.MatchString(password) {
		issues = append(issues, PasswordNoUppercase)
	}
	if !digitRe.MatchString(password) {
		issues = append(issues, PasswordNoDigit)
	}
	if !specialRe.MatchString(password) {
		issues = append(issues, PasswordNoSpecial)
	}

	lower := strings.ToLower(password)
	for _, w := range commonWords {
		if strings.Contains(lower, w) {
			issues = append(issues, PasswordCommonWord)
			break
		}
	}
	return issues
}

func IsStrongPassword(password string) bool {
	return len(PasswordIssues(password)) == 0
}
