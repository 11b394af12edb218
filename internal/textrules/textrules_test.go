package textrules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRules(t *testing.T) {
	tests := []struct {
		name     string
		rule     func(string) bool
		input    string
		expected bool
	}{
		{"name with diacritics", IsName, "João Conceição", true},
		{"name with apostrophe and hyphen", IsName, "O'Neill-Sá", true},
		{"name with digit", IsName, "Ana3", false},
		{"empty name", IsName, "", false},
		{"name too long", IsName, strings.Repeat("a", 101), false},

		{"cultural text", IsCulturalText, "Noite de fado em Camden, às 20h!", true},
		{"cultural text multiline", IsCulturalText, "Primeira linha\nSegunda linha", true},
		{"cultural text with markup", IsCulturalText, "<script>alert(1)</script>", false},
		{"cultural text with scheme", IsCulturalText, "Veja JavaScript:alert(1)", false},
		{"cultural text with emoji", IsCulturalText, "Olá 😀", false},
		{"cultural text at limit", IsCulturalText, strings.Repeat("ã", 5000), true},
		{"cultural text over limit", IsCulturalText, strings.Repeat("a", 5001), false},

		{"business name", IsBusinessName, "Café Lisboa & Filhos, Lda.", true},
		{"business name with quote", IsBusinessName, `O "Tasco"`, false},

		{"address", IsAddress, "12 Rua Augusta, Lisboa", true},
		{"address too short", IsAddress, "Rua", false},

		{"keyword", IsKeyword, "pastéis de nata", true},
		{"keyword with symbol", IsKeyword, "tag#1", false},

		{"postcode", IsUKPostcode, "SW1A 1AA", true},
		{"postcode lower case", IsUKPostcode, "sw1a 1aa", true},
		{"postcode short outward", IsUKPostcode, "E1 6AN", true},
		{"postcode without space", IsUKPostcode, "SW1A1AA", false},
		{"portuguese postcode", IsUKPostcode, "1100-148", false},

		{"uk phone", IsPhone, "+44 20 7946 0958", true},
		{"portugal phone", IsPhone, "+351 912 345 678", true},
		{"brazil phone", IsPhone, "+55 (11) 91234-5678", true},
		{"international phone", IsPhone, "+1 555-0100", true},
		{"phone without country code", IsPhone, "07946 095 8", false},
		{"phone with letters", IsPhone, "+44abc", false},

		{"nif", IsNIF, "123456789", true},
		{"nif too short", IsNIF, "12345678", false},
		{"national insurance", IsUKNationalInsurance, "AB123456C", true},
		{"national insurance lower case", IsUKNationalInsurance, "ab123456c", false},

		{"filename", IsSafeFilename, "cartaz.png", true},
		{"filename with parentheses", IsSafeFilename, "foto (1).jpg", true},
		{"filename with accent", IsSafeFilename, "relatório.pdf", false},
		{"filename executable", IsSafeFilename, "virus.exe", false},
		{"filename script upper case", IsSafeFilename, "script.JS", false},
		{"filename with path", IsSafeFilename, "../etc/passwd", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.rule(tt.input))
		})
	}
}

func TestHasSafeCharacters(t *testing.T) {
	assert.True(t, HasSafeCharacters(""))
	assert.True(t, HasSafeCharacters(strings.Repeat("Saudade, ", 1000)))
	assert.False(t, HasSafeCharacters("<b>negrito</b>"))
	assert.False(t, HasSafeCharacters("ver vbscript:msgbox"))
}

func TestHasInjectionMarker(t *testing.T) {
	assert.True(t, HasInjectionMarker("<IFRAME src=x>"))
	assert.True(t, HasInjectionMarker("data:text/html;base64,AAAA"))
	assert.False(t, HasInjectionMarker("javascript é uma linguagem"))
}

func TestPasswordIssues(t *testing.T) {
	tests := []struct {
		password string
		expected []string
	}{
		{"Lusitano#2024", nil},
		{"Benfica#2024", []string{PasswordCommonWord}},
		{"SAUDADE1!x", []string{PasswordCommonWord}},
		{"abc", []string{PasswordTooShort, PasswordNoUppercase, PasswordNoDigit, PasswordNoSpecial}},
		{"ABCDEFGH", []string{PasswordNoLowercase, PasswordNoDigit, PasswordNoSpecial}},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.expected, PasswordIssues(tt.password))
			assert.Equal(t, len(tt.expected) == 0, IsStrongPassword(tt.password))
		})
	}
}
