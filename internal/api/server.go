// Package api serves the reconciled job view, the company registry and the
// blacklists over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/blacklist"
	"github.com/sells-group/jobscout-cli/internal/pipeline"
	"github.com/sells-group/jobscout-cli/internal/resolve"
	"github.com/sells-group/jobscout-cli/internal/store"
)

// maxMatchQueries caps the batch size of one match request.
const maxMatchQueries = 500

// Deps are the collaborators the server reads and writes.
type Deps struct {
	Pipeline   *pipeline.Pipeline
	Companies  store.CompanySource
	Blacklists map[blacklist.Kind]blacklist.Store
	Matcher    resolve.Matcher
	// MinRating is used when a jobs request has no min_rating parameter.
	MinRating      float64
	AllowedOrigins []string
}

// Server holds the HTTP handlers.
type Server struct {
	deps Deps
}

// New creates a Server.
func New(deps Deps) *Server {
	return &Server{deps: deps}
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	origins := s.deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/jobs", s.handleJobs)
		r.Get("/companies", s.handleCompanies)
		r.Post("/match", s.handleMatch)
		r.Route("/blacklist/{kind}", func(r chi.Router) {
			r.Get("/", s.handleBlacklistList)
			r.Put("/{value}", s.handleBlacklistAdd)
			r.Delete("/{value}", s.handleBlacklistRemove)
		})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("api: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		zap.L().Error("api: request failed", zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func parseFloatParam(r *http.Request, name string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(raw, 64)
}
