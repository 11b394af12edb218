// Package i18n holds the English and Portuguese message catalogue used for
// client-facing rejection messages. Machine codes never go through it.
package i18n

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/pt"
	ut "github.com/go-playground/universal-translator"
)

const (
	English    = "en"
	Portuguese = "pt"
)

// Catalog resolves message keys per language.
type Catalog struct {
	uni      *ut.UniversalTranslator
	fallback string
}

// New loads the built-in messages. defaultLang is used when a request does
// not ask for a supported language.
func New(defaultLang string) (*Catalog, error) {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, pt.New())

	for lang, msgs := range messages {
		tr, found := uni.GetTranslator(lang)
		if !found {
			return nil, fmt.Errorf("no locale registered for %q", lang)
		}
		for key, text := range msgs {
			if err := tr.Add(key, text, false); err != nil {
				return nil, fmt.Errorf("failed to add %s message %q: %w", lang, key, err)
			}
		}
	}

	if defaultLang != English && defaultLang != Portuguese {
		defaultLang = English
	}

	return &Catalog{uni: uni, fallback: defaultLang}, nil
}

func (c *Catalog) translator(lang string) ut.Translator {
	if tr, found := c.uni.GetTranslator(lang); found {
		return tr
	}
	tr, _ := c.uni.GetTranslator(c.fallback)
	return tr
}

// Message renders key in lang. Unknown keys render as the key itself.
func (c *Catalog) Message(lang, key string, params ...string) string {
	s, err := c.translator(lang).T(key, params...)
	if err != nil || s == "" {
		return key
	}
	return s
}

// Default is the configured fallback language.
func (c *Catalog) Default() string {
	return c.fallback
}

// Language picks the supported language with the highest quality weight in
// an Accept-Language header; ties go to the one listed first. "pt-BR" and
// "pt-PT" both map to pt, "*" maps to the default, and q=0 excludes a tag.
func (c *Catalog) Language(acceptLanguage string) string {
	best, bestQ := c.fallback, 0.0
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag, params, _ := strings.Cut(part, ";")
		primary, _, _ := strings.Cut(strings.TrimSpace(tag), "-")

		var lang string
		switch strings.ToLower(primary) {
		case English:
			lang = English
		case Portuguese:
			lang = Portuguese
		case "*":
			lang = c.fallback
		default:
			continue
		}

		if q := quality(params); q > bestQ {
			best, bestQ = lang, q
		}
	}
	return best
}

// quality reads the q parameter of one Accept-Language entry. A missing
// weight is 1; a malformed one counts as 0.
func quality(params string) float64 {
	for _, p := range strings.Split(params, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(k), "q") {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || q < 0 || q > 1 {
			return 0
		}
		return q
	}
	return 1
}
