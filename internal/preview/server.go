// Package preview serves the most recent successful build over HTTP so the
// generated OpenAPI document can be inspected while the sources are edited.
package preview

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erraggy/apish/internal/issues"
	"github.com/erraggy/apish/logger"
	"github.com/erraggy/apish/openapi"
	"github.com/erraggy/apish/project"
	"github.com/erraggy/apish/watch"
)

// ErrNoBuild is reported by document routes before the first successful
// build.
var ErrNoBuild = errors.New("preview: no successful build yet")

// snapshot is one successful build with its rendered documents.
type snapshot struct {
	result      *project.Result
	openapiJSON []byte
	openapiYAML []byte
	projectJSON []byte
	builtAt     time.Time
}

// Status is the body of GET /status.
type Status struct {
	Ready     bool           `json:"ready"`
	Source    string         `json:"source,omitempty"`
	BuiltAt   *time.Time     `json:"built_at,omitempty"`
	Endpoints int            `json:"endpoints"`
	Issues    []issues.Issue `json:"issues"`
	LastError string         `json:"last_error,omitempty"`
	FailedAt  *time.Time     `json:"failed_at,omitempty"`
	Rebuilds  int64          `json:"rebuilds"`
	Failures  int64          `json:"failures"`
	// LastDuration is how long the most recent rebuild took.
	LastDuration string `json:"last_duration,omitempty"`
}

// Server holds the latest build and serves it. Publish and Fail may be
// called from any goroutine while requests are being served.
type Server struct {
	mu       sync.RWMutex
	current  *snapshot
	lastErr  error
	failedAt time.Time
	rebuilds int64
	failures int64
	lastRun  time.Duration

	openapiOpts []openapi.Option
	log         logger.Logger
	metrics     *metrics
	router      chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithOpenAPIOptions passes opts to every openapi.Generate call.
func WithOpenAPIOptions(opts ...openapi.Option) Option {
	return func(s *Server) { s.openapiOpts = append(s.openapiOpts, opts...) }
}

// WithLogger sets the logger. Default: logger.NopLogger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) { s.log = logger.OrNop(l) }
}

// New returns a Server with nothing published yet.
func New(opts ...Option) *Server {
	s := &Server{log: logger.NopLogger{}, metrics: newMetrics()}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler serving every preview route.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves Handler on addr until ctx is done, then shuts the
// listener down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("preview listening", "addr", addr)

	select {
	case err := <-errc:
		return fmt.Errorf("preview: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("preview: shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.countRequests)

	r.Get("/healthz", s.healthz)
	r.Get("/status", s.status)
	r.Get("/openapi.json", s.document(func(snap *snapshot) []byte { return snap.openapiJSON }, "application/json"))
	r.Get("/openapi.yaml", s.document(func(snap *snapshot) []byte { return snap.openapiYAML }, "application/yaml"))
	r.Get("/project.json", s.document(func(snap *snapshot) []byte { return snap.projectJSON }, "application/json"))
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	return r
}

// Publish renders res and makes it the served build. When rendering fails
// the previous build stays in place and the error is returned and recorded
// as the last error.
func (s *Server) Publish(res *project.Result) error {
	if res == nil || res.Project == nil {
		err := errors.New("preview: empty build result")
		s.Fail(err)
		return err
	}
	snap, err := render(res, s.openapiOpts)
	if err != nil {
		s.Fail(err)
		return err
	}

	s.mu.Lock()
	s.current = snap
	s.lastErr = nil
	s.mu.Unlock()

	s.metrics.lastSuccess.Set(float64(snap.builtAt.Unix()))
	s.metrics.issues.Set(float64(len(res.Issues)))
	s.metrics.endpoints.Set(float64(len(res.Project.Endpoints)))
	s.log.Info("preview updated", "source", res.SourcePath, "endpoints", len(res.Project.Endpoints), "issues", len(res.Issues))
	return nil
}

// Fail records err as the last error. The previous build keeps being
// served.
func (s *Server) Fail(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	s.lastErr = err
	s.failedAt = time.Now()
	s.mu.Unlock()
	s.log.Warn("preview keeps previous build", "error", err)
}

// Observe records a finished rebuild in the metrics and status. It fits
// watch.WithOnRebuild.
func (s *Server) Observe(o watch.Outcome) {
	result := "ok"
	if o.Err != nil {
		result = "error"
	}
	s.metrics.rebuilds.WithLabelValues(result).Inc()
	s.metrics.rebuildDuration.Observe(o.Duration.Seconds())

	s.mu.Lock()
	s.rebuilds++
	if o.Err != nil {
		s.failures++
	}
	s.lastRun = o.Duration
	s.mu.Unlock()
}

// Status returns the current state as served at /status.
func (s *Server) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		Rebuilds: s.rebuilds,
		Failures: s.failures,
		Issues:   []issues.Issue{},
	}
	if s.lastRun > 0 {
		st.LastDuration = s.lastRun.String()
	}
	if s.current != nil {
		builtAt := s.current.builtAt
		st.Ready = true
		st.Source = s.current.result.SourcePath
		st.BuiltAt = &builtAt
		st.Endpoints = len(s.current.result.Project.Endpoints)
		st.Issues = append(st.Issues, s.current.result.Issues...)
	}
	if s.lastErr != nil {
		failedAt := s.failedAt
		st.LastError = s.lastErr.Error()
		st.FailedAt = &failedAt
	}
	return st
}

func render(res *project.Result, opts []openapi.Option) (*snapshot, error) {
	doc, err := openapi.Generate(res.Project, opts...)
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	snap := &snapshot{result: res, builtAt: time.Now()}
	if snap.openapiJSON, err = openapi.MarshalJSON(doc); err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	if snap.openapiYAML, err = openapi.MarshalYAML(doc); err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	if snap.projectJSON, err = json.MarshalIndent(res.Project, "", "  "); err != nil {
		return nil, fmt.Errorf("preview: marshal project: %w", err)
	}
	return snap, nil
}

func (s *Server) latest() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Server) document(pick func(*snapshot) []byte, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		snap := s.latest()
		if snap == nil {
			http.Error(w, ErrNoBuild.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Last-Modified", snap.builtAt.UTC().Format(http.TimeFormat))
		_, _ = w.Write(pick(snap))
	}
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request) {
	body, err := json.MarshalIndent(s.Status(), "", "  ")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		s.metrics.requests.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
	})
}
