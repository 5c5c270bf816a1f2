package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/KristinSchanks/healthcare-qms/internal/auth"
	"github.com/KristinSchanks/healthcare-qms/internal/config"
	database "github.com/KristinSchanks/healthcare-qms/internal/db"
	"github.com/KristinSchanks/healthcare-qms/internal/session"
	"github.com/KristinSchanks/healthcare-qms/internal/web"

	"github.com/KristinSchanks/healthcare-qms/internal/api/handlers"
	"github.com/KristinSchanks/healthcare-qms/internal/api/middleware"
)

type Server struct {
	cfg         *config.Config
	db          *database.Client
	credentials *auth.Store
	sessions    *session.Manager
	router      *gin.Engine
}

func New(cfg *config.Config, db *database.Client, credentials *auth.Store, sessions *session.Manager) (*Server, error) {
	gin.SetMode(cfg.Server.Mode)

	s := &Server{
		cfg:         cfg,
		db:          db,
		credentials: credentials,
		sessions:    sessions,
		router:      gin.New(),
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.router.SetHTMLTemplate(tmpl)

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestLogger(), gin.Recovery(), middleware.Metrics())

	if len(s.cfg.Server.CORSOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = s.cfg.Server.CORSOrigins
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
		corsConfig.AllowCredentials = true

		s.router.Use(cors.New(corsConfig))
	}
}

func (s *Server) setupRoutes() {
	// 1. Initialize Modular Handlers
	authHandler := handlers.NewAuthHandler(s.credentials, s.sessions)
	dashboardHandler := handlers.NewDashboardHandler(s.sessions)
	feedbackHandler := handlers.NewFeedbackHandler(s.db, s.sessions)
	recordHandler := handlers.NewRecordHandler(s.db, s.sessions)
	healthHandler := handlers.NewHealthHandler(s.db)

	s.router.HandleMethodNotAllowed = true
	s.router.NoRoute(handlers.NotFound)
	s.router.NoMethod(handlers.MethodNotAllowed)

	// Health Check
	s.router.GET("/health", healthHandler.Check)

	// ==========================================
	// PUBLIC ROUTES (No Session Required)
	// ==========================================
	s.router.GET("/", authHandler.Home)
	s.router.GET("/login", authHandler.LoginForm)
	s.router.POST("/login", authHandler.Login)

	// ==========================================
	// PROTECTED ROUTES (Session Required)
	// ==========================================
	protected := s.router.Group("/")
	protected.Use(middleware.RequireSession(s.sessions, s.credentials))
	{
		protected.GET("/logout", middleware.WithUser(authHandler.Logout))
		protected.GET("/dashboard", middleware.WithUser(dashboardHandler.Show))

		protected.GET("/feedback", middleware.WithUser(feedbackHandler.List))
		protected.POST("/feedback", middleware.WithUser(feedbackHandler.Submit))

		protected.GET("/add", middleware.WithUser(recordHandler.NewForm))
		protected.POST("/add", middleware.WithUser(recordHandler.Create))

		protected.GET("/search", middleware.WithUser(recordHandler.Search))
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("🚀 QMS server starting on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Shutting down QMS server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
