package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carechat/portal/internal/auth"
	"github.com/carechat/portal/internal/config"
	"github.com/carechat/portal/internal/storage"
	"github.com/carechat/portal/internal/web/handlers"
	webmiddleware "github.com/carechat/portal/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	// Initialize logger
	logger := log.New(os.Stdout, "[carechat] ", log.LstdFlags|log.Lshortfile)
	logger.Println("Starting CareChat portal...")

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Println("Configuration loaded successfully")
	logger.Printf("Auth backend: %s", cfg.Auth.BaseURL)

	// Initialize database
	logger.Printf("Initializing database at: %s", cfg.Storage.DBPath)
	db, err := storage.InitDB(cfg.Storage.DBPath)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	logger.Println("Database initialized successfully")

	if pruned, err := storage.DeleteExpiredSessions(db); err != nil {
		logger.Printf("Failed to prune expired sessions: %v", err)
	} else if pruned > 0 {
		logger.Printf("Pruned %d expired session(s)", pruned)
	}

	// Initialize session manager
	sessionManager := auth.InitSessions(
		cfg.Session.Secret,
		cfg.Session.MaxAge,
		cfg.CookieSecure(),
		cfg.CookieSameSite(),
		db,
	)
	logger.Println("Session manager initialized")

	// Initialize auth backend client; authenticated endpoints read the
	// stored token at request time
	client := auth.NewClient(cfg.Auth.BaseURL, cfg.Auth.Timeout, sessionManager.TokenSource(), logger)

	// Initialize router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(webmiddleware.LoggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(webmiddleware.SecurityHeaders(cfg))
	r.Use(webmiddleware.RequestSizeLimit(cfg.Server.Security.MaxRequestBytes))

	// Initialize handlers
	h := handlers.New(db, client, sessionManager, logger)

	// Status endpoint, CORS-enabled for external monitors
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.Security.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet},
		}))
		r.Get("/healthz", h.Health)
	})

	// Form routes, CSRF-protected
	r.Group(func(r chi.Router) {
		if cfg.Server.Security.CSRFEnabled {
			r.Use(webmiddleware.CSRFProtection([]byte(cfg.Session.Secret), cfg.CookieSecure()))
		}

		r.Route("/auth", func(r chi.Router) {
			r.Get("/login", h.LoginPage)
			r.Post("/login", h.LoginSubmit)
			r.Get("/signup", h.SignupPage)
			r.Post("/signup", h.SignupSubmit)
			r.Get("/logout", h.Logout)
		})

		// Protected routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(webmiddleware.RequireAuth(sessionManager))
			r.Get("/", h.Home)
		})
	})

	// 404 handler (must be last)
	r.NotFound(h.NotFound)

	// HTTP server configuration
	srv := &http.Server{
		Addr:         cfg.GetAddr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Printf("Server starting on http://%s", cfg.GetAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Println("Server exited successfully")
}
