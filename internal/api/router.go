package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/highscores-go/internal/api/apierr"
	"github.com/mcoot/highscores-go/internal/api/handler"
	"github.com/mcoot/highscores-go/internal/api/middleware"
	"github.com/mcoot/highscores-go/internal/api/response"
	"github.com/mcoot/highscores-go/internal/metrics"
	sharedmw "github.com/mcoot/highscores-go/internal/middleware"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AccountService handler.AccountService
	ScoreService   handler.ScoreService
	Authorizer     middleware.Authorizer
	// Metrics is optional; when nil no /metrics route is served
	Metrics *metrics.Metrics
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	accountHandler := handler.NewAccountHandler(cfg.AccountService, cfg.Logger)
	scoreHandler := handler.NewScoreHandler(cfg.ScoreService, cfg.Logger)

	// Create middleware
	var failures middleware.FailureRecorder
	if cfg.Metrics != nil {
		failures = cfg.Metrics
	}
	authMiddleware := middleware.Auth(cfg.Authorizer, failures)

	// Route metrics need the matched route, so they sit inside the router
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}

	// Account routes
	r.HandleFunc("/signup", accountHandler.Signup).Methods(http.MethodPost)
	r.HandleFunc("/login", accountHandler.Login).Methods(http.MethodPost)

	// High score routes; only posting requires a token
	r.HandleFunc("/high-scores", scoreHandler.List).Methods(http.MethodGet)
	r.Handle("/high-scores", authMiddleware(http.HandlerFunc(scoreHandler.Submit))).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	var notFound, methodNotAllowed http.Handler
	notFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError())
	})
	methodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewMethodNotAllowedError())
	})
	if cfg.Metrics != nil {
		notFound = cfg.Metrics.Middleware()(notFound)
		methodNotAllowed = cfg.Metrics.Middleware()(methodNotAllowed)
	}
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = methodNotAllowed

	// Logging and recovery wrap the whole router so unmatched requests get a
	// request ID and a log line too
	var h http.Handler = r
	h = middleware.Recovery(cfg.Logger)(h)
	h = sharedmw.Logging(cfg.Logger)(h)
	return h
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}
