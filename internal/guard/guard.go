// Package guard puts the request checks in front of a handler.
//
// Every guarded request goes through the same stages, in order:
//
//  1. rate check: count the request against the endpoint's rate class
//  2. parse: read the body according to its content type
//  3. domain checks: content, consent, location and sensitivity rules
//  4. schema validation: decode and validate against the endpoint schema
//
// The first failing stage answers the request and the handler never runs.
// Stages 2-4 are skipped for endpoints without a schema.
package guard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"lusogate/internal/checks"
	"lusogate/internal/i18n"
	"lusogate/internal/models"
	"lusogate/internal/parser"
	"lusogate/internal/ratelimit"
	"lusogate/internal/schema"

	"golang.org/x/time/rate"
)

// Endpoint declares what a route accepts. A nil Schema means the route is
// only rate limited.
type Endpoint struct {
	Name   string
	Class  string
	Schema *schema.Schema
	Checks []checks.Check
}

// Outcome is the result of one guarded request, as reported to a Recorder.
type Outcome string

const (
	OutcomeAllowed        Outcome = "allowed"
	OutcomeRateLimited    Outcome = "rate_limited"
	OutcomeParseError     Outcome = "parse_error"
	OutcomeDomainRejected Outcome = "domain_rejected"
	OutcomeSchemaRejected Outcome = "schema_rejected"
	OutcomeInternalError  Outcome = "internal_error"
)

// Recorder receives one outcome per guarded request.
type Recorder interface {
	RecordOutcome(ctx context.Context, endpoint string, outcome Outcome)
}

type nopRecorder struct{}

func (nopRecorder) RecordOutcome(context.Context, string, Outcome) {}

// Guard wires the limiter, parser, checks and validator together.
type Guard struct {
	limiter   *ratelimit.Limiter
	rateCfg   models.RateLimitConfig
	parser    *parser.Parser
	runner    *checks.Runner
	validator *schema.Validator
	catalog   *i18n.Catalog

	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time

	// Rate limit warnings are sampled so one noisy client cannot flood the logs.
	rateLimitLog *rate.Sometimes
}

type Option func(*Guard)

func WithRecorder(r Recorder) Option {
	return func(g *Guard) {
		g.recorder = r
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Guard) {
		g.logger = l
	}
}

// WithClock replaces time.Now when computing Retry-After.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) {
		g.now = now
	}
}

func New(limiter *ratelimit.Limiter, rateCfg models.RateLimitConfig, p *parser.Parser, v *schema.Validator, catalog *i18n.Catalog, opts ...Option) *Guard {
	g := &Guard{
		limiter:      limiter,
		rateCfg:      rateCfg,
		parser:       p,
		runner:       checks.NewRunner(catalog),
		validator:    v,
		catalog:      catalog,
		recorder:     nopRecorder{},
		logger:       slog.Default(),
		now:          time.Now,
		rateLimitLog: &rate.Sometimes{},
	}
	if rateCfg.LogSampling > 0 {
		g.rateLimitLog = &rate.Sometimes{First: 1, Interval: rateCfg.LogSampling}
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Protect returns a handler that runs the guard stages before next. The
// validated payload and client identifier are available to next through
// Payload and ClientID. Responses written by next pass through untouched.
func (g *Guard) Protect(ep Endpoint, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w}
		lang := g.catalog.Language(r.Header.Get("Accept-Language"))
		allowed := false

		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if p == http.ErrAbortHandler {
				panic(p)
			}
			err := NewUnexpectedError(g.catalog.Message(lang, i18n.MsgInternalError), fmt.Errorf("panic: %v", p))
			if sw.wroteHeader {
				g.logger.Error("Panic after response started", "endpoint", ep.Name, "error", err)
				return
			}
			outcome := g.reject(sw, r, ep, lang, err)
			if !allowed {
				g.recorder.RecordOutcome(r.Context(), ep.Name, outcome)
			}
		}()

		clientID := ratelimit.ClientIdentifier(r)
		ctx := withClientID(r.Context(), clientID)

		if err := g.checkRate(ctx, ep, clientID, lang); err != nil {
			g.recorder.RecordOutcome(ctx, ep.Name, g.reject(sw, r, ep, lang, err))
			return
		}

		if ep.Schema != nil {
			body, payload, err := g.inspect(r, ep, lang)
			// Uploaded files stay readable until next returns.
			defer body.Close()
			if err != nil {
				g.recorder.RecordOutcome(ctx, ep.Name, g.reject(sw, r, ep, lang, err))
				return
			}
			ctx = withPayload(ctx, payload)
		}

		// A panic in next is still answered, but the request already
		// counts as allowed.
		allowed = true
		g.recorder.RecordOutcome(ctx, ep.Name, OutcomeAllowed)
		next.ServeHTTP(sw, r.WithContext(ctx))
	})
}

func (g *Guard) checkRate(ctx context.Context, ep Endpoint, clientID, lang string) error {
	if !g.rateCfg.Enabled {
		return nil
	}

	key := ep.Class + ":" + clientID
	decision, err := g.limiter.CheckAndConsume(ctx, key, g.rateCfg.Window, g.rateCfg.Limit(ep.Class))
	if err != nil {
		return NewUnexpectedError(g.catalog.Message(lang, i18n.MsgInternalError), err)
	}
	if !decision.Allowed {
		g.rateLimitLog.Do(func() {
			g.logger.Warn("Rate limit exceeded",
				"endpoint", ep.Name,
				"class", ep.Class,
				"client_id", clientID,
				"limit", decision.Limit,
				"reset_time", decision.ResetTime)
		})
		return NewRateLimitError(g.catalog.Message(lang, i18n.MsgRateLimited), decision)
	}
	return nil
}

// inspect runs the parse, domain check and schema stages and returns the
// parsed body with the validated payload. The body may be nil on error and
// must be closed by the caller.
func (g *Guard) inspect(r *http.Request, ep Endpoint, lang string) (*parser.Body, any, error) {
	body, err := g.parser.Parse(r)
	if err != nil {
		var pe *parser.ParseError
		if errors.As(err, &pe) {
			return nil, nil, NewParseError(g.catalog.Message(lang, i18n.MsgParseError), err)
		}
		return nil, nil, NewUnexpectedError(g.catalog.Message(lang, i18n.MsgInternalError), err)
	}

	report := g.runner.Run(body.Record, lang, ep.Checks...)
	if report.Failed() {
		return body, nil, NewDomainCheckError(g.catalog.Message(lang, i18n.MsgDomainCheckFailed), report.Issues())
	}

	result, err := g.validator.Validate(ep.Schema, body, lang)
	if err != nil {
		return body, nil, NewUnexpectedError(g.catalog.Message(lang, i18n.MsgInternalError), err)
	}
	if !result.Valid() {
		return body, nil, NewSchemaValidationError(g.catalog.Message(lang, i18n.MsgValidationFailed), result.Issues)
	}
	return body, result.Data, nil
}

// reject answers the request for err and returns the matching outcome.
// Anything that is not an *Error is treated as unexpected.
func (g *Guard) reject(w http.ResponseWriter, r *http.Request, ep Endpoint, lang string, err error) Outcome {
	var ge *Error
	if !errors.As(err, &ge) {
		ge = NewUnexpectedError(g.catalog.Message(lang, i18n.MsgInternalError), err)
	}

	switch ge.Kind {
	case RateLimitExceeded:
		ratelimit.SetHeaders(w, ratelimit.Decision{
			Limit:     ge.Limit,
			Remaining: ge.Remaining,
			ResetTime: ge.ResetTime,
		}, g.now())
		writeJSON(w, ge.StatusCode, models.NewRateLimitErrorResponse(ge.Message, ge.ResetTime, ge.Remaining))

	case ParseFailure, DomainCheckFailure, SchemaValidationFailure:
		g.logger.Info("Request rejected",
			"endpoint", ep.Name,
			"kind", ge.Kind.String(),
			"issues", len(ge.Issues),
			"error", ge.Err)
		writeJSON(w, ge.StatusCode, models.NewValidationErrorResponse(ge.Code, ge.Message, ge.Issues))

	default:
		g.logger.Error("Request failed",
			"endpoint", ep.Name,
			"method", r.Method,
			"path", r.URL.Path,
			"error", ge)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(ge.Message, models.ErrorCodeInternalError))
	}
	return outcomeFor(ge.Kind)
}

func outcomeFor(k Kind) Outcome {
	switch k {
	case RateLimitExceeded:
		return OutcomeRateLimited
	case ParseFailure:
		return OutcomeParseError
	case DomainCheckFailure:
		return OutcomeDomainRejected
	case SchemaValidationFailure:
		return OutcomeSchemaRejected
	default:
		return OutcomeInternalError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusWriter remembers whether the response has started, so a panic can
// still be answered with a 500 when nothing was written.
type statusWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
