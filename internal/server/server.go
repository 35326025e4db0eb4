// Package server hosts the booth UI: live camera preview, the capture
// trigger, strip preview and composition, and the mock session gate.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"

	"github.com/CyberJohn04/myfotobooth/internal/camera"
	"github.com/CyberJohn04/myfotobooth/internal/capture"
	"github.com/CyberJohn04/myfotobooth/internal/config"
	"github.com/CyberJohn04/myfotobooth/internal/filter"
	"github.com/CyberJohn04/myfotobooth/internal/session"
	"github.com/CyberJohn04/myfotobooth/internal/sticker"
	"github.com/CyberJohn04/myfotobooth/pkg/types"
)

// Server wires the camera feed, the sequencer and the catalogs behind one
// HTTP surface. It owns the camera for its whole lifetime.
type Server struct {
	opts   *config.ServeOptions
	logger *slog.Logger
	feed   *camera.Feed
	seq    *capture.Sequencer
	gate   session.Gate
	store  *session.Store // nil when the gate is disabled
	themes *sticker.Catalog
	env    filter.StyleEnv

	mu     sync.Mutex
	active filter.Filter   // live preview filter; sampled at each shot
	last   *capture.Result // most recent completed run
	shot   int
	remain int

	done      chan struct{}
	closeOnce sync.Once
}

// New acquires the camera and builds the booth. The caller must Close the
// returned server to release the device.
func New(opts *config.ServeOptions, themes *sticker.Catalog, logger *slog.Logger) (*Server, error) {
	if _, err := types.ParseCountdown(opts.Countdown); err != nil {
		return nil, err
	}

	var feed *camera.Feed
	if opts.Device == "none" {
		feed = camera.OpenSourceFeed(camera.NewSynthetic(config.CaptureWidth, config.CaptureHeight), 15)
	} else {
		f, err := camera.OpenDeviceFeed(opts.Device, config.CaptureWidth, config.CaptureHeight, 15, opts.Verbose)
		if err != nil {
			return nil, err
		}
		feed = f
	}

	var store *session.Store
	if !opts.NoGate {
		st, err := session.NewStore()
		if err != nil {
			feed.Close()
			return nil, err
		}
		store = st
	}

	return newServer(opts, feed, store, themes, logger, 0, 0), nil
}

// newServer finishes construction. Tick and pause override the sequencer
// timings; zero keeps the booth cadence.
func newServer(opts *config.ServeOptions, feed *camera.Feed, store *session.Store, themes *sticker.Catalog, logger *slog.Logger, tick, pause time.Duration) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		opts:   opts,
		logger: logger,
		feed:   feed,
		store:  store,
		themes: themes,
		env:    filter.DefaultStyleEnv(),
		active: filter.NoFilter(),
		done:   make(chan struct{}),
	}
	s.gate = session.Gate(session.Always{})
	if store != nil {
		s.gate = store
	}
	s.seq = capture.New(feed, capture.Options{
		Countdown: types.Countdown(opts.Countdown),
		Filter:    s.currentFilter,
		StyleEnv:  s.env,
		Tick:      tick,
		Pause:     pause,
		Verbose:   opts.Verbose,
	})

	go s.trackEvents()
	return s
}

func (s *Server) currentFilter() filter.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// trackEvents mirrors sequencer progress into fields the status endpoint
// can snapshot.
func (s *Server) trackEvents() {
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.seq.Events():
			s.mu.Lock()
			switch e := ev.(type) {
			case capture.CountdownEvent:
				s.shot, s.remain = e.Shot, e.Remaining
			case capture.ShotEvent:
				s.shot, s.remain = e.Shot, 0
			case capture.DoneEvent:
				s.shot, s.remain = 0, 0
			}
			s.mu.Unlock()
		}
	}
}

// Router assembles the HTTP surface. Everything behind the gate redirects
// to the login page until a session is active.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)
	r.Get("/booth.js", s.handleScript)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/", s.handleBooth)
		r.Get("/stream", s.handleStream)
		r.Get("/status", s.handleStatus)
		r.Post("/filter", s.handleFilter)
		r.Post("/capture", s.handleCapture)
		r.Get("/preview", s.handlePreview)
		r.Get("/snapshots/{index}", s.handleSnapshot)
		r.Get("/thumbs/{index}", s.handleThumb)
		r.Get("/stickers/{key}", s.handleSticker)
		r.Post("/compose", s.handleCompose)
		r.Post("/print", s.handlePrint)
	})
	return r
}

// Run serves until ctx is cancelled or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	if !s.feed.WaitLive(3 * time.Second) {
		s.logger.Warn("camera feed not producing frames yet", "device", s.opts.Device)
	}

	srv := &http.Server{Addr: s.opts.Addr, Handler: s.Router()}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	s.logger.Info("booth ready",
		"addr", s.opts.Addr,
		"device", s.opts.Device,
		"countdown", s.opts.Countdown,
	)

	select {
	case err := <-errc:
		return errors.Wrap(err, "booth server failed")
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Close releases the camera and stops the event tracker. Safe to call more
// than once.
func (s *Server) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return s.feed.Close()
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.gate.Active() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/status" {
			// Polled twice a second; logging it would drown everything.
			next.ServeHTTP(w, r)
			return
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
		)
	})
}
