// Package server is the web front end of the survey. Sessions live in a
// session.Store keyed by a cookie; each answer is posted as a form and the
// result page is pushed over a websocket once the scoring service answers.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/ppiankov/pmicheck/internal/eligibility"
	"github.com/ppiankov/pmicheck/internal/llm"
	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/report"
	"github.com/ppiankov/pmicheck/internal/session"
	"github.com/ppiankov/pmicheck/internal/util"
	"github.com/ppiankov/pmicheck/internal/worker"
)

const (
	// CookieName carries the session id
	CookieName = "pmicheck_session"

	// DefaultTick is the interval between pending dot updates
	DefaultTick = 500 * time.Millisecond

	shutdownGrace    = 10 * time.Second
	explanationSlots = 1024
)

// Server serves the survey over HTTP
type Server struct {
	cfg        model.ServerConfig
	store      *session.Store
	checker    eligibility.Checker
	timeout    time.Duration
	summarizer *llm.Summarizer
	renderer   *report.Renderer
	limiter    *worker.Limiter
	log        *util.Logger
	tick       time.Duration
	now        func() time.Time
	pages      *template.Template

	// explanations are kept beside the session, keyed by session id
	explanations *lru.Cache[string, string]

	baseCtx  context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup
}

// Option configures a Server
type Option func(*Server)

// WithSummarizer adds plain-language explanations to results
func WithSummarizer(s *llm.Summarizer) Option {
	return func(srv *Server) { srv.summarizer = s }
}

// WithRenderer sets the result renderer
func WithRenderer(r *report.Renderer) Option {
	return func(srv *Server) { srv.renderer = r }
}

// WithLimiter replaces the per-client limiter built from the config
func WithLimiter(l *worker.Limiter) Option {
	return func(srv *Server) { srv.limiter = l }
}

// WithTimeout bounds each scoring request; zero waits indefinitely
func WithTimeout(d time.Duration) Option {
	return func(srv *Server) { srv.timeout = d }
}

// WithTick sets the pending dot interval
func WithTick(d time.Duration) Option {
	return func(srv *Server) { srv.tick = d }
}

// WithLogger sets the logger
func WithLogger(l *util.Logger) Option {
	return func(srv *Server) { srv.log = l }
}

// New creates a server. Scoring requests go through checker.
func New(cfg model.ServerConfig, store *session.Store, checker eligibility.Checker, opts ...Option) (*Server, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	explanations, err := lru.New[string, string](explanationSlots)
	if err != nil {
		return nil, fmt.Errorf("explanation cache: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:          cfg,
		store:        store,
		checker:      checker,
		renderer:     report.NewRenderer(model.ReportConfig{}),
		log:          util.Discard(),
		tick:         DefaultTick,
		now:          time.Now,
		pages:        pages,
		explanations: explanations,
		baseCtx:      ctx,
		cancel:       cancel,
	}
	if rl := cfg.RateLimit; rl.RequestsPerSecond > 0 {
		s.limiter = worker.NewLimiter(rl.RequestsPerSecond, rl.Burst, rl.MaxClients)
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tick <= 0 {
		s.tick = DefaultTick
	}
	return s, nil
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
// and waits for in-flight scoring requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      h2c.NewHandler(s.Handler(), &http2.Server{}),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening on %s", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.cancel()
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	s.Close(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close waits for in-flight scoring requests until ctx is done, then
// cancels whatever is left and closes open websockets.
func (s *Server) Close(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn("abandoning in-flight eligibility requests")
	}
	s.cancel()
}
