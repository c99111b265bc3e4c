// Package api serves the generation pipeline over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Nda25/anees/internal/content"
	"github.com/Nda25/anees/internal/tutor"
)

// SessionHeader carries the memo session when the body has none.
const SessionHeader = "X-Session-ID"

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// Generator produces content for a request.
type Generator interface {
	Generate(ctx context.Context, req content.Request) (*tutor.Result, error)
}

// Server holds the HTTP handlers.
type Server struct {
	gen     Generator
	log     *zap.Logger
	timeout time.Duration
}

// NewServer creates a Server. timeout bounds each generation; zero means
// no limit beyond the client's own.
func NewServer(gen Generator, log *zap.Logger, timeout time.Duration) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{gen: gen, log: log.With(zap.String("component", "api")), timeout: timeout}
}

// Routes returns the router with all endpoints and middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(s.logRequests)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Post("/api/generate", s.handleGenerate)
	// Path used by the original web front-end.
	r.Post("/.netlify/functions/anees", s.handleGenerate)

	return r
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req content.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Session) == "" {
		req.Session = r.Header.Get(SessionHeader)
	}

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, err := s.gen.Generate(ctx, req)
	if err != nil {
		status, body := StatusFor(err)
		if status >= http.StatusInternalServerError {
			s.log.Error("generation failed", zap.Int("status", status), zap.Error(err))
		}
		JSON(w, status, body)
		return
	}

	JSON(w, http.StatusOK, NewSuccess(res))
}

// logRequests logs one line per request at info level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
		)
	})
}
