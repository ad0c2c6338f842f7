// Package server wires the store, service and API into an HTTP server.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/HusseinZein235/SalesAssociate/internal/api"
	"github.com/HusseinZein235/SalesAssociate/internal/config"
	"github.com/HusseinZein235/SalesAssociate/internal/files"
	"github.com/HusseinZein235/SalesAssociate/internal/logging"
	"github.com/HusseinZein235/SalesAssociate/internal/service"
	"github.com/HusseinZein235/SalesAssociate/internal/store"
)

// Server owns the HTTP stack and its backing store.
type Server struct {
	router  *gin.Engine
	store   *store.Store
	httpSrv *http.Server
}

// New builds the server from configuration, opening the database and the
// data directory.
func New(cfg *config.AppConfig) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir := config.ResolveDataDir(cfg)
	fm, err := files.NewManager(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare data directory: %w", err)
	}

	st, err := store.New(config.DatabasePath(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	svc := service.New(st, fm)
	svc.PinWorkbook(config.ResolveWorkbookPath(cfg))
	handler := api.NewHandler(svc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.GinLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))

	handler.RegisterRoutes(router.Group("/api"))

	s := &Server{
		router: router,
		store:  st,
	}
	s.httpSrv = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}
	return s, nil
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	log.Info().Str("addr", s.httpSrv.Addr).Msg("server listening")
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpSrv.Shutdown(ctx)
	if closeErr := s.store.Close(); err == nil {
		err = closeErr
	}
	return err
}
