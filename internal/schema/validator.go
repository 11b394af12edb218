package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"lusogate/internal/i18n"
	"lusogate/internal/models"
	"lusogate/internal/parser"
	"lusogate/internal/textrules"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/pt"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	pt_translations "github.com/go-playground/validator/v10/translations/pt"
)

// Validator checks parsed bodies against schemas. It is safe for concurrent
// use once built.
type Validator struct {
	validate  *validator.Validate
	uni       *ut.UniversalTranslator
	catalog   *i18n.Catalog
	now       func() time.Time
	maxUpload int64
	custom    map[string]bool
}

type Option func(*Validator)

// WithClock replaces time.Now for date refinements and year checks.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// New builds a validator with the custom tags used by the payloads in the
// models package.
func New(cfg models.ValidationConfig, catalog *i18n.Catalog, opts ...Option) (*Validator, error) {
	enLocale := en.New()
	v := &Validator{
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		uni:       ut.New(enLocale, enLocale, pt.New()),
		catalog:   catalog,
		now:       time.Now,
		maxUpload: cfg.MaxUploadBytes,
		custom:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(v)
	}

	v.validate.RegisterTagNameFunc(func(sf reflect.StructField) string {
		return jsonName(sf)
	})

	if err := v.registerTags(); err != nil {
		return nil, err
	}

	enTrans, _ := v.uni.GetTranslator(i18n.English)
	if err := en_translations.RegisterDefaultTranslations(v.validate, enTrans); err != nil {
		return nil, fmt.Errorf("failed to register English translations: %w", err)
	}
	ptTrans, _ := v.uni.GetTranslator(i18n.Portuguese)
	if err := pt_translations.RegisterDefaultTranslations(v.validate, ptTrans); err != nil {
		return nil, fmt.Errorf("failed to register Portuguese translations: %w", err)
	}

	return v, nil
}

func (v *Validator) registerTags() error {
	stringRules := map[string]func(string) bool{
		"ptname":       textrules.IsName,
		"pttext":       textrules.IsCulturalText,
		"ptaddress":    textrules.IsAddress,
		"ptkeyword":    textrules.IsKeyword,
		"businessname": textrules.IsBusinessName,
		"ukpostcode":   textrules.IsUKPostcode,
		"intlphone":    textrules.IsPhone,
		"nif":          textrules.IsNIF,
		"ukni":         textrules.IsUKNationalInsurance,
		"ptpassword":   textrules.IsStrongPassword,
		"filename":     textrules.IsSafeFilename,
	}
	for tag, rule := range stringRules {
		if err := v.register(tag, stringRule(rule)); err != nil {
			return err
		}
	}

	if err := v.register("accepted", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.Bool && fl.Field().Bool()
	}); err != nil {
		return err
	}
	if err := v.register("notfutureyear", func(fl validator.FieldLevel) bool {
		return fl.Field().CanInt() && fl.Field().Int() <= int64(v.now().Year())
	}); err != nil {
		return err
	}
	return v.register("maxupload", func(fl validator.FieldLevel) bool {
		return fl.Field().CanInt() && fl.Field().Int() <= v.maxUpload
	})
}

func (v *Validator) register(tag string, fn validator.Func) error {
	if err := v.validate.RegisterValidation(tag, fn); err != nil {
		return fmt.Errorf("failed to register %s validation: %w", tag, err)
	}
	v.custom[tag] = true
	return nil
}

func stringRule(rule func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.String && rule(fl.Field().String())
	}
}

// Validate decodes body into a fresh payload for s and reports every
// invalid field. Messages are rendered in lang; codes are not. The error
// return is reserved for failures that are not the client's fault.
func (v *Validator) Validate(s *Schema, body *parser.Body, lang string) (Result, error) {
	if s == nil || s.newPayload == nil {
		return Result{}, errors.New("schema is not defined")
	}

	payload := s.newPayload()
	var rec parser.Record
	coerce := false
	if body != nil {
		rec = body.Record
		coerce = body.Kind != parser.KindJSON
	}

	issues := newIssueSet()
	for _, de := range decode(payload, rec, coerce) {
		issues.add(models.Issue{
			Field:   de.path,
			Code:    de.code,
			Message: v.catalog.Message(lang, "issue."+de.code, de.path),
		})
		issues.block(de.path)
	}

	if err := v.validate.Struct(payload); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return Result{}, fmt.Errorf("failed to validate %s payload: %w", s.Name, err)
		}
		for _, fe := range fieldErrs {
			path := fieldPath(fe.Namespace())
			issues.add(models.Issue{
				Field:   path,
				Code:    codeFor(fe),
				Message: v.message(fe, path, lang),
			})
		}
	}

	if issues.empty() && s.refine != nil {
		for _, issue := range s.refine(payload, v.now()) {
			issue.Message = v.catalog.Message(lang, "issue."+issue.Code, issue.Field)
			issues.add(issue)
		}
	}

	return Result{Data: payload, Issues: issues.list}, nil
}

func (v *Validator) message(fe validator.FieldError, path, lang string) string {
	if v.custom[fe.Tag()] {
		return v.catalog.Message(lang, "tag."+fe.Tag(), path)
	}
	trans, found := v.uni.GetTranslator(lang)
	if !found {
		trans, _ = v.uni.GetTranslator(v.catalog.Default())
	}
	if msg := fe.Translate(trans); msg != fe.Error() {
		return msg
	}
	return v.catalog.Message(lang, "issue."+codeFor(fe), path)
}

// fieldPath drops the payload type name from a validator namespace:
// "EventCreationRequest.organizerContact.email" becomes
// "organizerContact.email".
func fieldPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return rest
}

// issueSet keeps at most one issue per field. A field that already has an
// issue also hides issues on its children, and a field that failed to
// decode hides validator issues on itself and everything under it.
type issueSet struct {
	list    []models.Issue
	seen    map[string]bool
	blocked map[string]bool
}

func newIssueSet() *issueSet {
	return &issueSet{seen: make(map[string]bool), blocked: make(map[string]bool)}
}

func (s *issueSet) block(field string) {
	s.blocked[field] = true
}

func (s *issueSet) add(issue models.Issue) {
	if s.seen[issue.Field] || s.covered(issue.Field) {
		return
	}
	s.seen[issue.Field] = true
	s.list = append(s.list, issue)
}

func (s *issueSet) covered(path string) bool {
	if s.blocked[path] {
		return true
	}
	for field := range s.blocked {
		if under(path, field) {
			return true
		}
	}
	for field := range s.seen {
		if under(path, field) {
			return true
		}
	}
	return false
}

// under reports whether path is a child or element of field.
func under(path, field string) bool {
	return strings.HasPrefix(path, field+".") || strings.HasPrefix(path, field+"[")
}

func (s *issueSet) empty() bool {
	return len(s.list) == 0
}
