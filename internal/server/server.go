package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"contabil-site/internal/auth"
	"contabil-site/internal/content"
	"contabil-site/internal/core"
	"contabil-site/internal/features/blog"
	"contabil-site/internal/features/catalog"
	"contabil-site/internal/features/contact"
	"contabil-site/internal/features/seo"
	"contabil-site/internal/server/handlers"
	"contabil-site/internal/server/services/janitor"
	"contabil-site/internal/server/services/mailer"
)

type Server struct {
	config         *core.Config
	logger         *core.Logger
	db             *core.Database
	source         *content.StaticSource
	mailer         *mailer.Mailer
	authService    *auth.Service
	authMiddleware *auth.Middleware
	authHandler    *auth.Handler
	registry       *core.Registry
	janitor        *janitor.Janitor
	router         http.Handler
	server         *http.Server
}

// New opens the database and the post collection and wires every feature.
// Nothing is migrated until Init.
func New(config *core.Config, logger *core.Logger) (*Server, error) {
	db, err := core.OpenSQLite(config.Database.Path, logger)
	if err != nil {
		return nil, err
	}

	source, err := content.LoadFile(config.Content.PostsFile)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	contactConfig := config.Features.Contact
	mail := mailer.New(contactConfig.SMTP2GOAPIKey, contactConfig.SMTP2GOSender, logger.ForFeature("mailer"))

	authService := auth.NewService(db, logger.ForFeature("auth"))
	registry := core.NewRegistry(logger)

	srv := &Server{
		config:         config,
		logger:         logger,
		db:             db,
		source:         source,
		mailer:         mail,
		authService:    authService,
		authMiddleware: auth.NewMiddleware(authService, logger.ForFeature("auth"), config.Auth.CookieSecure),
		authHandler:    auth.NewHandler(authService, logger.ForFeature("auth"), config.Auth.CookieSecure),
		registry:       registry,
		janitor:        janitor.New(authService, logger.ForFeature("janitor"), janitor.DefaultInterval),
	}

	features := []core.Feature{
		blog.NewFeature(logger, db, source, blog.NewConfig(config)),
		seo.NewFeature(logger, db, source, seo.NewConfig(config)),
		catalog.NewFeature(logger, db, catalog.NewConfig(config)),
		contact.NewFeature(logger, db, mail, contact.NewConfig(config)),
	}
	for _, feature := range features {
		if err := registry.Register(feature); err != nil {
			db.Close()
			return nil, err
		}
	}

	srv.setupRoutes()

	return srv, nil
}

func (s *Server) setupRoutes() {
	portalHandler := handlers.NewPortalHandler(s.logger, s.registry, s.db)

	mux := chi.NewRouter()

	mux.Use(middleware.Recoverer)
	mux.Use(middleware.RequestID)
	mux.Use(requestContext)
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Logger)
	mux.Use(s.authMiddleware.Authenticate)

	mux.Get("/health", portalHandler.HealthCheckHandler)

	mux.Get("/auth/login", s.authHandler.LoginPageHandler)
	mux.Post("/auth/login", s.authHandler.LoginHandler)
	mux.Post("/auth/logout", s.authHandler.LogoutHandler)

	for _, route := range s.registry.PublicRoutes() {
		mux.Method(route.Method, route.Path, route.Handler)
	}

	mux.Route("/admin", func(r chi.Router) {
		r.Use(s.authMiddleware.RequireAdmin)

		r.Get("/", portalHandler.DashboardHandler)
		r.Get("/api/features", portalHandler.FeaturesHandler)

		for _, route := range s.authHandler.Routes() {
			r.Method(route.Method, route.Path, route.Handler)
		}

		for _, route := range s.registry.AdminRoutes() {
			r.Method(route.Method, route.Path, route.Handler)
		}
	})

	s.router = mux
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}

// requestContext copies chi's request id into the context key read by
// core.Logger.WithContext
func requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requestID := middleware.GetReqID(r.Context()); requestID != "" {
			r = r.WithContext(core.ContextWithRequestID(r.Context(), requestID))
		}
		next.ServeHTTP(w, r)
	})
}

// Handler returns the HTTP handler of the site
func (s *Server) Handler() http.Handler {
	return s.router
}

// Init migrates the auth tables, bootstraps the admin account, initializes
// the features and starts the token janitor.
func (s *Server) Init(ctx context.Context) error {
	if err := auth.NewMigrationManager(s.db, s.logger.ForFeature("auth")).Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate auth tables: %w", err)
	}

	authConfig := s.config.Auth
	if err := s.authService.EnsureAdmin(ctx, authConfig.AdminName, authConfig.AdminEmail, authConfig.AdminPassword); err != nil {
		return fmt.Errorf("failed to bootstrap admin user: %w", err)
	}

	if err := s.registry.InitAll(ctx); err != nil {
		s.logger.Error("Failed to initialize features", "error", err)
		return err
	}

	s.janitor.Start(ctx)
	return nil
}

// Start initializes the server and serves HTTP until Shutdown
func (s *Server) Start(ctx context.Context) error {
	if err := s.Init(ctx); err != nil {
		return err
	}

	s.logger.Info("Starting server", "host", s.config.Server.Host, "port", s.config.Server.Port)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, then shuts down the features and
// closes the database
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shutdown HTTP server", "error", err)
	}

	s.janitor.Stop()

	if err := s.registry.ShutdownAll(ctx); err != nil {
		s.logger.Error("Failed to shutdown features", "error", err)
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
