package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmap/internal/lastfm"
	"github.com/desertthunder/ytmap/internal/repositories"
	"github.com/desertthunder/ytmap/internal/services"
	"github.com/desertthunder/ytmap/internal/shared"
	"github.com/desertthunder/ytmap/internal/tasks"
)

const (
	// SessionCookie holds the id of the browser's Spotify session.
	SessionCookie = "spotify_session"
	// SessionTTL matches the session cookie's max-age.
	SessionTTL = time.Hour
	// MaxUploadSize bounds multipart uploads.
	MaxUploadSize = 64 << 20

	defaultMaxTracks = 1000
	sweepInterval    = 10 * time.Minute
	shutdownTimeout  = 5 * time.Second
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an http.Handler that knows the paths it serves.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Options collects the server's dependencies.
//
// Spotify may be nil when no client credentials are configured; Sessions and States are then unused.
// LastFM defaults to an unconfigured client.
type Options struct {
	Config   *shared.Config
	Logger   *log.Logger
	Builder  *tasks.GraphBuilder
	LastFM   *lastfm.Client
	Spotify  services.OAuthService
	Sessions *repositories.SessionRepository
	States   *repositories.StateRepository
}

// Server is the mapper API server.
type Server struct {
	config   *shared.Config
	logger   *log.Logger
	builder  *tasks.GraphBuilder
	lastfm   *lastfm.Client
	spotify  services.OAuthService
	sessions *repositories.SessionRepository
	states   *repositories.StateRepository
	router   *BasicRouter
	now      func() time.Time
}

// New validates opts and registers every route.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("%w: server requires a config", shared.ErrMissingConfig)
	}
	if opts.Builder == nil {
		return nil, fmt.Errorf("%w: server requires a graph builder", shared.ErrMissingArgument)
	}
	if opts.Spotify != nil && (opts.Sessions == nil || opts.States == nil) {
		return nil, fmt.Errorf("%w: spotify requires session and state repositories", shared.ErrMissingArgument)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	lfm := opts.LastFM
	if lfm == nil {
		lfm = lastfm.NewClient(shared.LastFMConfig{}, lastfm.WithLogger(logger))
	}

	s := &Server{
		config:   opts.Config,
		logger:   logger,
		builder:  opts.Builder,
		lastfm:   lfm,
		spotify:  opts.Spotify,
		sessions: opts.Sessions,
		states:   opts.States,
		router:   NewBasicRouter(),
		now:      time.Now,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router
	r.Use(Recover(s.logger), Logging(s.logger), CORS())

	r.Handle(http.MethodGet, "/api/status", http.HandlerFunc(s.handleStatus))
	r.Handle(http.MethodPost, "/api/auth/setup", http.HandlerFunc(s.handleAuthSetup))
	r.Handle(http.MethodGet, "/api/graph", http.HandlerFunc(s.handleGraph))
	r.Handle(http.MethodGet, "/api/demo/graph", http.HandlerFunc(s.handleDemoGraph))
	r.Handle(http.MethodPost, "/api/upload", http.HandlerFunc(s.handleUpload))
	r.Handle(http.MethodPost, "/api/upload/paste", http.HandlerFunc(s.handleUploadPaste))
	r.Handle(http.MethodGet, "/api/similar/{artist...}", http.HandlerFunc(s.handleSimilar))
	r.Handle(http.MethodGet, "/api/lastfm/status", http.HandlerFunc(s.handleLastFMStatus))

	r.Handle(http.MethodGet, "/api/spotify/status", http.HandlerFunc(s.handleSpotifyStatus))
	r.Handle(http.MethodGet, "/api/spotify/auth", http.HandlerFunc(s.handleSpotifyAuth))
	r.Handle(http.MethodGet, "/api/spotify/library", http.HandlerFunc(s.handleSpotifyLibrary))
	r.Handle(http.MethodGet, "/api/spotify/disconnect", http.HandlerFunc(s.handleSpotifyDisconnect))
	r.Handler(&spotifyCallback{server: s})
	r.Handler(apiNotFound{})

	r.Handle(http.MethodGet, "/", http.FileServer(http.Dir(s.config.Server.StaticDir)))
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on the configured address until ctx is cancelled, then shuts down gracefully.
//
// ready, when non-nil, receives the bound address once the listener is open.
func (s *Server) ListenAndServe(ctx context.Context, ready chan<- string) error {
	ln, err := net.Listen("tcp", s.config.Server.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Server.Addr(), err)
	}
	return s.Serve(ctx, ln, ready)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener, ready chan<- string) error {
	httpServer := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sweep(sweepCtx)

	s.logger.Info("server listening", "addr", ln.Addr().String())
	if ready != nil {
		ready <- ln.Addr().String()
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// sweep periodically drops expired OAuth states and Spotify sessions.
func (s *Server) sweep(ctx context.Context) {
	if s.spotify == nil {
		return
	}

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		s.purge()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) purge() {
	if n, err := s.states.Purge(); err != nil {
		s.logger.Warn("failed to purge oauth states", "error", err)
	} else if n > 0 {
		s.logger.Debug("purged oauth states", "count", n)
	}
	if n, err := s.sessions.DeleteStale(s.now().Add(-SessionTTL)); err != nil {
		s.logger.Warn("failed to delete stale sessions", "error", err)
	} else if n > 0 {
		s.logger.Debug("deleted stale sessions", "count", n)
	}
}

func (s *Server) maxTracks() int {
	if n := s.config.Credentials.Spotify.MaxTracks; n > 0 {
		return n
	}
	return defaultMaxTracks
}
