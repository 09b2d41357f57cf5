package web

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultAddr is the default server address.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultMaxAudioBytes bounds an uploaded recording.
	DefaultMaxAudioBytes = 10 << 20
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr          string
	TemplatesFS   fs.FS
	StaticFS      fs.FS
	Runner        TurnRunner
	MaxAudioBytes int64
	Logger        logrus.FieldLogger
}

// Server is the HTTP server for the web application.
type Server struct {
	router    chi.Router
	server    *http.Server
	templates *Templates
	sessions  *SessionStore
	handlers  *Handlers
	log       logrus.FieldLogger
}

// NewServer creates a new web server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Runner == nil {
		return nil, errors.New("server requires a turn runner")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxAudioBytes <= 0 {
		cfg.MaxAudioBytes = DefaultMaxAudioBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	templates, err := NewTemplates(cfg.TemplatesFS)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	sessions := NewSessionStore()
	handlers := NewHandlers(cfg.Runner, sessions, templates, cfg.MaxAudioBytes, cfg.Logger)

	router := chi.NewRouter()

	s := &Server{
		router:    router,
		templates: templates,
		sessions:  sessions,
		handlers:  handlers,
		log:       cfg.Logger,
	}

	s.setupMiddleware()
	s.setupRoutes(cfg.StaticFS)

	// A turn makes four sequential network calls, so writes get a long deadline.
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: s.log, NoColor: true}))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes(staticFS fs.FS) {
	if staticFS != nil {
		fileServer := http.FileServer(http.FS(staticFS))
		s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	s.router.Get("/", s.handlers.Home)
	s.router.Get("/healthz", s.handlers.Healthz)
	s.router.Get("/history", s.handlers.History)
	s.router.Post("/turns", s.handlers.SubmitTurn)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.log.Infof("Starting server at http://%s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		s.log.Info("Shutting down server...")
	}

	// In-flight turns get time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.log.Info("Server stopped")
	return nil
}
