package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nzaccagnino/volon/internal/auth"
	"github.com/nzaccagnino/volon/internal/db"
)

type Server struct {
	db     *db.ServerDB
	jwt    *auth.JWTManager
	router *chi.Mux
	logger *slog.Logger
	authRL *RateLimiter
	apiRL  *RateLimiter
}

type Option func(*Server)

// WithLogger sets the logger used for handler failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithRateLimits replaces the default auth and API limiters.
func WithRateLimits(authRL, apiRL *RateLimiter) Option {
	return func(s *Server) {
		s.authRL = authRL
		s.apiRL = apiRL
	}
}

type contextKey string

const userContextKey contextKey = "user"

func New(database *db.ServerDB, jwtManager *auth.JWTManager, opts ...Option) *Server {
	s := &Server{
		db:     database,
		jwt:    jwtManager,
		router: chi.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.authRL == nil {
		s.authRL = NewAuthRateLimiter()
	}
	if s.apiRL == nil {
		s.apiRL = NewAPIRateLimiter()
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))

	s.router.Get("/health", s.healthHandler)

	s.router.Route("/api/auth", func(r chi.Router) {
		r.Use(s.authRL.Middleware)
		r.Post("/login", s.loginHandler)
		r.Post("/register", s.registerHandler)
	})

	s.router.Route("/api/notes", func(r chi.Router) {
		r.Use(s.apiRL.Middleware)
		r.Use(s.authMiddleware)
		r.Get("/", s.listNotesHandler)
		r.Post("/", s.createNoteHandler)
		r.Delete("/", s.deleteAllNotesHandler)
		r.Get("/{id}", s.getNoteHandler)
		r.Patch("/{id}", s.updateNoteHandler)
		r.Delete("/{id}", s.deleteNoteHandler)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops the rate limiter cleanup loops.
func (s *Server) Close() {
	s.authRL.Stop()
	s.apiRL.Stop()
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			jsonError(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			jsonError(w, "invalid authorization header", http.StatusUnauthorized)
			return
		}

		claims, err := s.jwt.Validate(parts[1])
		if err != nil {
			jsonError(w, "invalid token", http.StatusUnauthorized)
			return
		}

		user, err := s.db.GetUserByID(claims.UserID)
		if err != nil || user == nil || !user.Active {
			jsonError(w, "user not found or inactive", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getUserFromContext(r *http.Request) *db.User {
	user, _ := r.Context().Value(userContextKey).(*db.User)
	return user
}

func jsonResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, message string, status int) {
	jsonResponse(w, map[string]string{"error": message}, status)
}
