// Package api serves solves over HTTP.
//
// Routes:
//
//	GET /solve/{n}?format=json   trace document for n disks (any pkg/io format)
//	GET /healthz                 liveness probe
//	GET /metrics                 Prometheus metrics, when a gatherer is set
//
// Errors are JSON objects with "code" and "error" fields. Every response
// carries an X-Run-ID header for solve requests and reports to the HTTP
// observability hooks.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/hanoi/pkg/buildinfo"
	"github.com/matzehuels/hanoi/pkg/errors"
	pkgio "github.com/matzehuels/hanoi/pkg/io"
	"github.com/matzehuels/hanoi/pkg/observability"
	"github.com/matzehuels/hanoi/pkg/pipeline"
)

// Server handles API requests.
type Server struct {
	Runner *pipeline.Runner

	// MaxDisks caps n per request. Zero means no cap beyond the solver's.
	MaxDisks int

	// Gatherer backs /metrics. The route is not registered when nil.
	Gatherer prometheus.Gatherer

	Logger *log.Logger
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	if s.Logger == nil {
		s.Logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.Healthz)
	r.Get("/solve/{n}", s.Solve)
	if s.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Healthz handles GET /healthz. The build version is reported in the
// X-Hanoi-Version header.
func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Hanoi-Version", buildinfo.Version)
	w.Write([]byte("ok\n"))
}

// Solve handles GET /solve/{n}.
func (s *Server) Solve(w http.ResponseWriter, r *http.Request) {
	n, err := errors.ParseDiskCount(chi.URLParam(r, "n"), s.MaxDisks)
	if err != nil {
		s.writeError(w, err)
		return
	}

	format := pkgio.FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		if format, err = pkgio.ParseFormat(q); err != nil {
			s.writeError(w, err)
			return
		}
	}

	result, err := s.Runner.Execute(r.Context(), pipeline.Options{
		Disks:    n,
		MaxDisks: s.MaxDisks,
		Logger:   s.Logger,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	cacheStatus := "miss"
	if result.CacheHit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Run-ID", result.RunID)
	w.Header().Set("X-Cache", cacheStatus)
	if err := pkgio.Write(w, format, result.Document()); err != nil {
		s.Logger.Error("solve response write failed", "run_id", result.RunID, "err", err)
	}
}

type errorResponse struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "err", err)
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Code: code, Error: errors.UserMessage(err)})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidArgument, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// instrument reports every request to the HTTP hooks and logs it at debug
// level.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		hooks := observability.HTTP()
		hooks.OnRequest(ctx, r.Method, r.URL.Path)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		route := "unmatched"
		if rctx := chi.RouteContext(ctx); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(ctx, r.Method, route, status, elapsed)
		s.Logger.Debug("http", "method", r.Method, "path", r.URL.Path, "status", status, "duration", elapsed)
	})
}
