package server

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/schema"

	"github.com/sozercan/ticket-dashboard/internal/config"
	"github.com/sozercan/ticket-dashboard/internal/dashboard"
	"github.com/sozercan/ticket-dashboard/internal/session"
	"github.com/sozercan/ticket-dashboard/web"
)

const maxUploadBytes = 50 << 20

type Server struct {
	cfg        config.Config
	server     *http.Server
	router     *chi.Mux
	controller *dashboard.Controller
	sessions   *session.Store
	page       *template.Template
	forms      *schema.Decoder
}

func New(cfg config.Config, controller *dashboard.Controller, sessions *session.Store) (*Server, error) {
	page, err := template.ParseFS(web.FS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	forms := schema.NewDecoder()
	forms.IgnoreUnknownKeys(true)

	s := &Server{
		cfg:        cfg,
		router:     chi.NewRouter(),
		controller: controller,
		sessions:   sessions,
		page:       page,
		forms:      forms,
	}

	if err := s.setupRoutes(); err != nil {
		return nil, err
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(loggingMiddleware)
	s.router.Use(middleware.Recoverer)

	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		return fmt.Errorf("failed to open static assets: %w", err)
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	// Interactive dashboard
	s.router.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)
		r.Get("/", s.handleDashboard)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/chat", s.handleChat)
		r.Post("/chat/clear", s.handleClearChat)
	})

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		if len(s.cfg.CORS.AllowedOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   s.cfg.CORS.AllowedOrigins,
				AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
				AllowCredentials: true,
				MaxAge:           300,
			}))
		}
		r.Get("/health", s.handleHealth)
		r.With(s.sessionMiddleware).Get("/session", s.handleSession)
	})

	return nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response wrapper to capture status code
		rw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(rw, r)

		slog.Info("HTTP request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration", time.Since(start),
			"remote_addr", r.RemoteAddr,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) Run() error {
	// Create a channel to listen for errors coming from the listener
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("Starting server", "address", s.server.Addr)
		serverErrors <- s.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		slog.Info("Starting shutdown", "signal", sig)

		// Give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := s.server.Shutdown(ctx)
		if err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	return nil
}

// Custom response writer to capture status code
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	return rw.ResponseWriter.Write(b)
}
