package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"lusogate/internal/guard"
	"lusogate/internal/models"
	"lusogate/internal/ratelimit"
	"lusogate/internal/storage"
	"lusogate/internal/version"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Handlers contains HTTP handlers for the lusogate API. Write handlers run
// behind the guard and only see validated payloads.
type Handlers struct {
	storage  storage.Storage
	counters ratelimit.Store
	info     version.Info
	now      func() time.Time
	newID    func() string
}

// HandlerOption configures optional Handlers dependencies.
type HandlerOption func(*Handlers)

// WithCounterStore adds the rate limit counter store to the health check.
func WithCounterStore(s ratelimit.Store) HandlerOption {
	return func(h *Handlers) {
		h.counters = s
	}
}

// WithVersion sets the build information reported by the health check.
func WithVersion(info version.Info) HandlerOption {
	return func(h *Handlers) {
		h.info = info
	}
}

// WithClock replaces time.Now for submission timestamps.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handlers) {
		h.now = now
	}
}

// NewHandlers creates a new handlers instance
func NewHandlers(store storage.Storage, opts ...HandlerOption) *Handlers {
	h := &Handlers{
		storage: store,
		info:    version.GetInfo(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// CreateSubmission stores the validated payload of a guarded write request
// as a submission of the given kind and answers 201.
func (h *Handlers) CreateSubmission(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := guard.Payload(r)
		if payload == nil {
			slog.Error("Submission handler reached without a validated payload", "kind", kind)
			h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Internal server error")
			return
		}

		raw, err := encodePayload(payload)
		if err != nil {
			slog.Error("Failed to encode submission payload", "kind", kind, "error", err)
			h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Internal server error")
			return
		}

		sub := &models.Submission{
			ID:        h.newID(),
			Kind:      kind,
			ClientID:  guard.ClientID(r),
			Payload:   raw,
			CreatedAt: h.now().UTC(),
		}
		if err := h.storage.SaveSubmission(r.Context(), sub); err != nil {
			slog.Error("Failed to save submission", "kind", kind, "id", sub.ID, "error", err)
			h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Internal server error")
			return
		}

		slog.Info("Submission accepted", "kind", kind, "id", sub.ID, "client_id", sub.ClientID)
		h.writeJSONResponse(w, http.StatusCreated, &models.SubmissionResponse{
			ID:        sub.ID,
			Kind:      sub.Kind,
			Message:   "Submission accepted",
			CreatedAt: sub.CreatedAt,
		})
	}
}

// secretFields are dropped from payloads before they are stored.
var secretFields = []string{"password", "confirmPassword"}

func encodePayload(payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	redacted := false
	for _, name := range secretFields {
		if _, ok := fields[name]; ok {
			delete(fields, name)
			redacted = true
		}
	}
	if !redacted {
		return raw, nil
	}
	return json.Marshal(fields)
}

// GetSubmission handles submission lookups
// GET /api/v1/submissions/{id}
func (h *Handlers) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	sub, err := h.storage.GetSubmission(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.writeErrorResponse(w, http.StatusNotFound, models.ErrorCodeNotFound, "Submission not found")
			return
		}
		slog.Error("Failed to get submission", "id", id, "error", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Internal server error")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, sub)
}

// ListSubmissions handles submission list requests
// GET /api/v1/submissions?kind=&limit=
func (h *Handlers) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind != "" && !models.IsValidKind(kind) {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeBadRequest, "Unknown submission kind: "+kind)
		return
	}

	limit := 0
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		n, err := strconv.Atoi(limitParam)
		if err != nil || n < 1 {
			h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	subs, err := h.storage.ListSubmissions(r.Context(), kind, limit)
	if err != nil {
		slog.Error("Failed to list submissions", "kind", kind, "error", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Internal server error")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, &models.ListSubmissionsResponse{
		Submissions: subs,
		TotalCount:  len(subs),
	})
}

// HealthCheck handles health check requests
// GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := models.NewHealthCheckResponse(models.StatusHealthy)
	response.Version = h.info.Version
	if !h.info.StartedAt.IsZero() {
		response.Uptime = time.Since(h.info.StartedAt).Round(time.Second).String()
	}

	if h.storage != nil {
		if err := h.storage.Ping(r.Context()); err != nil {
			response.AddComponent("storage", models.StatusUnhealthy, err.Error())
		} else {
			response.AddComponent("storage", models.StatusHealthy, "Storage is operational")
		}
	}

	if h.counters != nil {
		if err := h.counters.Ping(r.Context()); err != nil {
			response.AddComponent("rate_limiter", models.StatusUnhealthy, err.Error())
		} else {
			response.AddComponent("rate_limiter", models.StatusHealthy, "Counter store is operational")
		}
	}

	response.AddComponent("api", models.StatusHealthy, "API is operational")

	h.writeJSONResponse(w, http.StatusOK, response)
}

// writeJSONResponse writes a JSON response
func (h *Handlers) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	writeJSON(w, statusCode, data)
}

// writeErrorResponse writes an error response
func (h *Handlers) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) {
	h.writeJSONResponse(w, statusCode, models.NewErrorResponse(message, errorCode))
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already written; nothing more can be sent.
		slog.Error("Error encoding JSON response", "error", err)
	}
}
