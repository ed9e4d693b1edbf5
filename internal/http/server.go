// Package http exposes the backup trigger, status and health endpoints.
package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/BrunoTulio/logr"
	"github.com/BrunoTulio/mongopher/internal/config"
	"github.com/BrunoTulio/mongopher/internal/job"
	"github.com/BrunoTulio/mongopher/internal/status"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	secretHeader = "x-backup-secret"
	secretQuery  = "secret"
	serviceName  = "backup-service"
)

type (
	Runner interface {
		Run(ctx context.Context, trigger job.Trigger) (*job.Result, error)
	}

	StatusSource interface {
		Snapshot(ctx context.Context) (*status.Snapshot, error)
	}

	Server struct {
		cfg    config.Server
		runner Runner
		status StatusSource
		log    logr.Logger
		router chi.Router
		now    func() time.Time
	}

	errorResponse struct {
		Error   string `json:"error"`
		Message string `json:"message,omitempty"`
	}
)

func New(
	cfg config.Server,
	runner Runner,
	statusSrc StatusSource,
	log logr.Logger,
) *Server {
	s := &Server{
		cfg:    cfg,
		runner: runner,
		status: statusSrc,
		log:    log,
		now:    time.Now,
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
	})

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.requireSharedSecret)
		r.Post("/backup/manual", s.handleRun(job.TriggerManual))
		r.Get("/backup/status", s.handleStatus)
	})

	r.With(s.requireCronSecret).Post("/backup/scheduled", s.handleRun(job.TriggerScheduled))

	return r
}

// requireSharedSecret is a no-op when no shared secret is configured.
func (s *Server) requireSharedSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.SharedSecret == "" {
			next.ServeHTTP(w, r)
			return
		}

		provided := r.Header.Get(secretHeader)
		if provided == "" {
			provided = r.URL.Query().Get(secretQuery)
		}

		if !secureEqual(provided, s.cfg.SharedSecret) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireCronSecret always rejects when no cron secret is configured.
func (s *Server) requireCronSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if s.cfg.CronSecret == "" || !ok || !secureEqual(token, s.cfg.CronSecret) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRun(trigger job.Trigger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// A client hanging up does not abort the run.
		ctx := context.WithoutCancel(r.Context())

		result, err := s.runner.Run(ctx, trigger)
		switch {
		case errors.Is(err, job.ErrAlreadyRunning):
			writeJSON(w, http.StatusConflict, errorResponse{Error: "Backup already running"})
			return
		case err != nil:
			s.log.Errorf("❌ %s backup failed: %v", trigger, err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Backup failed", Message: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"result":  result.Summary,
		})
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := s.status.Snapshot(r.Context())
	if err != nil {
		s.log.Errorf("status check failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Status check failed", Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"status":  snap,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"timestamp": s.now().UTC().Format("2006-01-02T15:04:05.000Z"),
		"service":   serviceName,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
