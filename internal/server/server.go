// Package server provides the HTTP REST API for the recommendation and
// search engines.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/talent-match/internal/analytics"
	"github.com/jonathan/talent-match/internal/cache"
	"github.com/jonathan/talent-match/internal/config"
	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/recommend"
	"github.com/jonathan/talent-match/internal/search"
	"github.com/jonathan/talent-match/internal/server/middleware"
)

// Recommender produces job and candidate recommendations.
type Recommender interface {
	RecommendJobs(ctx context.Context, candidateID uuid.UUID, limit int) *recommend.Result
	RecommendCandidates(ctx context.Context, jobID uuid.UUID, limit int) *recommend.Result
}

// Searcher runs ranked search queries.
type Searcher interface {
	SearchJobs(ctx context.Context, q search.JobQuery) *search.Page
	SearchCandidates(ctx context.Context, q search.CandidateQuery) *search.Page
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	cache       cache.Facade
	recommender Recommender
	searcher    Searcher
	jwtService  *JWTService
	validator   *validator.Validate
	log         zerolog.Logger
}

// New creates a new server instance wired to Postgres and Redis.
func New(cfg *config.Config, log zerolog.Logger) (*Server, error) {
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	redisCache, err := cache.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	recorder := analytics.NewPG(database.Pool())

	s := &Server{
		db:          database,
		cache:       redisCache,
		recommender: recommend.NewEngine(database, redisCache, recorder, log, recommend.DefaultTuning()),
		searcher:    search.NewRanker(database, redisCache, recorder, log),
		validator:   validator.New(),
		log:         log,
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the router with per-route auth requirements.
func (s *Server) routes() http.Handler {
	validator := s.jwtService.AsTokenValidator()
	requireAuth := middleware.Auth(validator)
	optionalAuth := middleware.OptionalAuth(validator)

	mux := http.NewServeMux()
	mux.Handle("GET /recommendations/jobs", requireAuth(http.HandlerFunc(s.handleRecommendJobs)))
	mux.Handle("GET /jobs/{id}/candidates", requireAuth(http.HandlerFunc(s.handleRecommendCandidates)))
	mux.Handle("GET /search/jobs", optionalAuth(http.HandlerFunc(s.handleSearchJobs)))
	mux.Handle("GET /search/candidates", requireAuth(http.HandlerFunc(s.handleSearchCandidates)))
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.log.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-stop
	s.log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if redisCache, ok := s.cache.(*cache.Redis); ok {
		if err := redisCache.Close(); err != nil {
			s.log.Warn().Err(err).Msg("redis close failed")
		}
	}
	s.db.Close()
	s.log.Info().Msg("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("error encoding JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errorJSON writes a typed error using its mapped status code
func (s *Server) errorJSON(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), err.Error())
}
