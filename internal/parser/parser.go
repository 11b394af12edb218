// Package parser turns request bodies into a generic record.
//
// The strategy is picked once per request from the Content-Type header:
// JSON, URL-encoded form or multipart form. A missing or unrecognised
// content type is read as JSON. Every failure is a *ParseError.
package parser

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"lusogate/internal/models"
)

// ContentKind identifies the body encoding.
type ContentKind int

const (
	KindUnknown ContentKind = iota
	KindJSON
	KindForm
	KindMultipart
)

func (k ContentKind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindForm:
		return "form"
	case KindMultipart:
		return "multipart"
	default:
		return "unknown"
	}
}

// KindOf classifies a Content-Type header value and returns its parameters.
func KindOf(contentType string) (ContentKind, map[string]string) {
	if strings.TrimSpace(contentType) == "" {
		return KindUnknown, nil
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return KindUnknown, nil
	}
	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		return KindJSON, params
	case mediaType == "application/x-www-form-urlencoded":
		return KindForm, params
	case mediaType == "multipart/form-data":
		return KindMultipart, params
	default:
		return KindUnknown, params
	}
}

// Record is a parsed body: field name to value. Values are whatever the
// encoding produced: JSON types, strings and []string for forms, and
// models.FileDescriptor or []models.FileDescriptor for file parts.
type Record map[string]any

// Lookup resolves a dotted path such as "organizerContact.email".
func (r Record) Lookup(path string) (any, bool) {
	var cur any = map[string]any(r)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Body is the result of parsing one request.
type Body struct {
	Kind     ContentKind
	Fallback bool
	Record   Record

	cleanup func() error
}

// Close releases temporary files held for multipart uploads.
func (b *Body) Close() error {
	if b == nil || b.cleanup == nil {
		return nil
	}
	return b.cleanup()
}

// Strategy decodes one content kind.
type Strategy interface {
	Parse(body io.Reader, params map[string]string) (*Body, error)
}

// Parser dispatches to the strategy for the request's content kind.
type Parser struct {
	maxBodyBytes   int64
	maxUploadBytes int64
	strategies     map[ContentKind]Strategy
}

func New(cfg models.ValidationConfig) *Parser {
	return &Parser{
		maxBodyBytes:   cfg.MaxBodyBytes,
		maxUploadBytes: cfg.MaxUploadBytes,
		strategies: map[ContentKind]Strategy{
			KindJSON:      jsonStrategy{},
			KindForm:      formStrategy{},
			KindMultipart: multipartStrategy{maxMemory: cfg.MultipartMemoryBytes},
		},
	}
}

// Parse reads the request body. The body is consumed.
func (p *Parser) Parse(r *http.Request) (*Body, error) {
	kind, params := KindOf(r.Header.Get("Content-Type"))

	fallback := false
	if kind == KindUnknown {
		kind = KindJSON
		fallback = true
	}

	if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
		return nil, newParseError(kind, ReasonEmpty, nil)
	}

	limit := p.maxBodyBytes
	if kind == KindMultipart {
		limit += p.maxUploadBytes
	}
	reader := http.MaxBytesReader(nil, r.Body, limit)

	body, err := p.strategies[kind].Parse(reader, params)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, newParseError(kind, ReasonTooLarge, err)
		}
		return nil, err
	}

	body.Kind = kind
	body.Fallback = fallback
	return body, nil
}
