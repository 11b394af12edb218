// Package textrules holds the character and format rules for community
// content: names, free text, addresses, UK postcodes, phone numbers and
// identity numbers. Letters cover Latin script with Portuguese diacritics.
package textrules

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

const letters = `A-Za-zÀ-ÖØ-öø-ÿĀ-ž`

// Lengths are checked in runes outside the expressions.
var (
	nameRe         = regexp.MustCompile(`^[` + letters + `\s'-]+$`)
	culturalTextRe = regexp.MustCompile(`^[` + letters + `\s\d.,!?()'":;\-@#$%&+=\[\]{}|\\/]+$`)
	businessNameRe = regexp.MustCompile(`^[` + letters + `\s\d.,!?()':;\-@#$%&+=\[\]{}|\\/]+$`)
	addressRe      = regexp.MustCompile(`^[` + letters + `\s\d.,\-/]+$`)
	keywordRe      = regexp.MustCompile(`^[` + letters + `\s\-]+$`)

	ukPostcodeRe = regexp.MustCompile(`(?i)^[A-Z]{1,2}[0-9R][0-9A-Z]? [0-9][A-Z]{2}$`)

	ukPhoneRe       = regexp.MustCompile(`^\+44\s?\d{2,4}\s?\d{3,4}\s?\d{3,4}$`)
	portugalPhoneRe = regexp.MustCompile(`^\+351\s?\d{3}\s?\d{3}\s?\d{3}$`)
	brazilPhoneRe   = regexp.MustCompile(`^\+55\s?\(\d{2}\)\s?\d{4,5}-\d{4}$`)
	intlPhoneRe     = regexp.MustCompile(`^\+\d{1,3}\s?[\d\s\-()]{7,15}$`)

	nifRe  = regexp.MustCompile(`^\d{9}$`)
	ukniRe = regexp.MustCompile(`^[A-Z]{2}\d{6}[A-Z]$`)

	filenameRe = regexp.MustCompile(`^[A-Za-z0-9\s\-_.()]+$`)
)

// injectionMarkers are rejected anywhere in free text, in any case.
var injectionMarkers = []string{
	"<script",
	"javascript:",
	"vbscript:",
	"data:text/html",
	"<iframe",
	"<object",
}

var blockedExtensions = map[string]bool{
	".exe": true, ".bat": true, ".cmd": true, ".com": true,
	".scr": true, ".js": true, ".vbs": true, ".php": true,
	".sh": true, ".jar": true, ".msi": true, ".ps1": true,
}

func runeLenBetween(s string, lo, hi int) bool {
	n := utf8.RuneCountInString(s)
	return n >= lo && n <= hi
}

// IsName accepts personal names: letters, spaces, apostrophes and hyphens.
func IsName(s string) bool {
	return runeLenBetween(s, 1, 100) && nameRe.MatchString(s)
}

// IsCulturalText accepts free text such as descriptions, bios and messages.
func IsCulturalText(s string) bool {
	return runeLenBetween(s, 1, 5000) && culturalTextRe.MatchString(s) && !HasInjectionMarker(s)
}

// HasSafeCharacters applies the free text character rules without a length
// limit. The empty string passes.
func HasSafeCharacters(s string) bool {
	if s == "" {
		return true
	}
	return culturalTextRe.MatchString(s) && !HasInjectionMarker(s)
}

// HasInjectionMarker reports whether s contains a script or embedding marker.
func HasInjectionMarker(s string) bool {
	lower := strings.ToLower(s)
	for _, m := range injectionMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func IsBusinessName(s string) bool {
	return runeLenBetween(s, 1, 200) && businessNameRe.MatchString(s)
}

func IsAddress(s string) bool {
	return runeLenBetween(s, 5, 200) && addressRe.MatchString(s)
}

func IsKeyword(s string) bool {
	return runeLenBetween(s, 1, 50) && keywordRe.MatchString(s)
}

// IsUKPostcode requires the single space between outward and inward codes.
func IsUKPostcode(s string) bool {
	return ukPostcodeRe.MatchString(s)
}

// IsPhone accepts UK, Portuguese and Brazilian formats, or any international
// number with a country code.
func IsPhone(s string) bool {
	return ukPhoneRe.MatchString(s) ||
		portugalPhoneRe.MatchString(s) ||
		brazilPhoneRe.MatchString(s) ||
		intlPhoneRe.MatchString(s)
}

// IsNIF checks the shape of a Portuguese tax number. The check digit is not
// verified.
func IsNIF(s string) bool {
	return nifRe.MatchString(s)
}

func IsUKNationalInsurance(s string) bool {
	return ukniRe.MatchString(s)
}

// IsSafeFilename rejects path characters and executable extensions.
func IsSafeFilename(s string) bool {
	if !filenameRe.MatchString(s) {
		return false
	}
	return !blockedExtensions[strings.ToLower(filepath.Ext(s))]
}
