// Package api exposes the matching engine over HTTP for the mobile client.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/linusng/cardsense/internal/matcher"
	"github.com/linusng/cardsense/internal/service"
)

// Config holds API server configuration.
type Config struct {
	ListenAddr     string
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		ListenAddr:     ":8080",
		AllowedOrigins: []string{"http://localhost:3000"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config          Config
	router          *gin.Engine
	httpServer      *http.Server
	logger          *slog.Logger
	store           service.Storage
	cardMatcher     *matcher.CardMatcher
	merchantMatcher *matcher.MerchantMatcher
}

// NewServer creates an API server over the given store and matchers.
func NewServer(cfg Config, store service.Storage, cardMatcher *matcher.CardMatcher, merchantMatcher *matcher.MerchantMatcher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		config:          cfg,
		router:          router,
		logger:          logger,
		store:           store,
		cardMatcher:     cardMatcher,
		merchantMatcher: merchantMatcher,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s.router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	})
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.POST("/match/card", s.handleMatchCard)
		api.POST("/match/merchant", s.handleMatchMerchant)
		api.GET("/categories", s.handleListCategories)

		users := api.Group("/users/:userID")
		{
			users.GET("/cards", s.handleListCards)
			users.POST("/cards", s.handleAddCard)
			users.DELETE("/cards/:cardID", s.handleDeleteCard)

			users.GET("/mappings", s.handleListMappings)
			users.POST("/mappings", s.handleSaveMapping)
			users.DELETE("/mappings", s.handleDeleteMapping)

			users.GET("/overrides", s.handleListOverrides)
			users.POST("/overrides", s.handleSaveOverride)
			users.DELETE("/overrides", s.handleDeleteOverride)
		}
	}
}

// Run starts the server and blocks until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server listening", "addr", s.config.ListenAddr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	}
}
