package schema

import (
	"reflect"

	"github.com/go-playground/validator/v10"
)

// Issue codes. These are stable across languages and safe for clients to
// switch on.
const (
	CodeRequired                = "required"
	CodeInvalidType             = "invalid_type"
	CodeInvalidFormat           = "invalid_format"
	CodeTooShort                = "too_short"
	CodeTooLong                 = "too_long"
	CodeTooSmall                = "too_small"
	CodeTooBig                  = "too_big"
	CodeInvalidEmail            = "invalid_email"
	CodeInvalidEnum             = "invalid_enum"
	CodeInvalidUUID             = "invalid_uuid"
	CodeInvalidURL              = "invalid_url"
	CodeInvalidDate             = "invalid_date"
	CodeInvalidPostcode         = "invalid_postcode"
	CodeInvalidPhone            = "invalid_phone"
	CodeWeakPassword            = "weak_password"
	CodeConsentRequired         = "consent_required"
	CodeFileTooLarge            = "file_too_large"
	CodePasswordMismatch        = "password_mismatch"
	CodeInvalidAge              = "invalid_age"
	CodeStartInPast             = "start_in_past"
	CodeEndBeforeStart          = "end_before_start"
	CodeInvalidAgeRange         = "invalid_age_range"
	CodePortugueseTitleRequired = "portuguese_title_required"
)

var tagCodes = map[string]string{
	"required":      CodeRequired,
	"email":         CodeInvalidEmail,
	"oneof":         CodeInvalidEnum,
	"uuid":          CodeInvalidUUID,
	"http_url":      CodeInvalidURL,
	"url":           CodeInvalidURL,
	"datetime":      CodeInvalidDate,
	"accepted":      CodeConsentRequired,
	"ukpostcode":    CodeInvalidPostcode,
	"intlphone":     CodeInvalidPhone,
	"ptpassword":    CodeWeakPassword,
	"maxupload":     CodeFileTooLarge,
	"notfutureyear": CodeTooBig,
}

// codeFor maps a failed validation tag to an issue code. Length and range
// tags depend on whether the field has a length.
func codeFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min", "gte":
		if hasLength(fe.Kind()) {
			return CodeTooShort
		}
		return CodeTooSmall
	case "max", "lte":
		if hasLength(fe.Kind()) {
			return CodeTooLong
		}
		return CodeTooBig
	}
	if code, ok := tagCodes[fe.Tag()]; ok {
		return code
	}
	return CodeInvalidFormat
}

func hasLength(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return true
	}
	return false
}
