package api

import (
	"net/http"

	"lusogate/internal/guard"
	"lusogate/internal/models"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// RouteOption configures optional route behavior.
type RouteOption func(*mux.Router)

// WithOTelMiddleware adds OpenTelemetry HTTP instrumentation middleware.
func WithOTelMiddleware(serviceName string) RouteOption {
	return func(r *mux.Router) {
		r.Use(otelmux.Middleware(serviceName,
			otelmux.WithFilter(func(r *http.Request) bool {
				return r.URL.Path != "/health" &&
					r.URL.Path != "/api/v1/health" &&
					r.URL.Path != "/metrics"
			}),
		))
	}
}

// SetupRoutes configures the HTTP routes for the API. Every submission route
// is wrapped by g with its endpoint declaration from eps.
func SetupRoutes(handlers *Handlers, g *guard.Guard, eps *Endpoints, config *models.Config, opts ...RouteOption) *mux.Router {
	router := mux.NewRouter()

	for _, opt := range opts {
		opt(router)
	}

	api := router.PathPrefix("/api/v1").Subrouter()

	api.Handle("/signup", g.Protect(eps.Signup, handlers.CreateSubmission(models.KindSignup))).Methods(http.MethodPost)
	api.Handle("/profile", g.Protect(eps.Profile, handlers.CreateSubmission(models.KindProfile))).Methods(http.MethodPut)
	api.Handle("/events", g.Protect(eps.Event, handlers.CreateSubmission(models.KindEvent))).Methods(http.MethodPost)
	api.Handle("/businesses", g.Protect(eps.Business, handlers.CreateSubmission(models.KindBusiness))).Methods(http.MethodPost)
	api.Handle("/messages", g.Protect(eps.Message, handlers.CreateSubmission(models.KindMessage))).Methods(http.MethodPost)
	api.Handle("/uploads", g.Protect(eps.Upload, handlers.CreateSubmission(models.KindUpload))).Methods(http.MethodPost)

	api.Handle("/submissions", g.Protect(eps.Submissions, http.HandlerFunc(handlers.ListSubmissions))).Methods(http.MethodGet)
	api.Handle("/submissions/{id}", g.Protect(eps.Submissions, http.HandlerFunc(handlers.GetSubmission))).Methods(http.MethodGet)

	router.HandleFunc("/health", handlers.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/health", handlers.HealthCheck).Methods(http.MethodGet)

	api.PathPrefix("").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodOptions)

	if config.Server.CORS.Enabled {
		router.Use(corsMiddleware(config.Server.CORS))
	}

	router.Use(loggingMiddleware)
	router.Use(recoveryMiddleware)

	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)
	router.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	return router
}

// methodNotAllowedHandler handles requests with invalid HTTP methods
func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, models.NewErrorResponse("Method not allowed", models.ErrorCodeMethodNotAllowed))
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Not found", models.ErrorCodeNotFound))
}
