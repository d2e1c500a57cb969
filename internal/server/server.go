// Package server exposes the debate lifecycle over HTTP.
//
// Routes accept and return JSON. Provider API keys travel in request bodies
// and are forwarded to the orchestrator per request; the server never stores
// them.
package server

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dyluth/moot/internal/config"
	"github.com/dyluth/moot/internal/orchestrator"
	"github.com/dyluth/moot/pkg/debate"
)

// Server wires the HTTP surface to the store and the debate engine.
type Server struct {
	store  debate.Store
	engine *orchestrator.Engine
	cfg    *config.MootConfig
}

// New creates a Server. The engine must be built over the same store.
func New(cfg *config.MootConfig, store debate.Store, engine *orchestrator.Engine) *Server {
	return &Server{store: store, engine: engine, cfg: cfg}
}

// Router builds the gin engine with all routes registered.
//
// The model catalog lives at /models/available rather than under /debate
// because the :id parameter owns that path segment.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.GET("/", s.handleRoot)
	r.GET("/health", s.handleHealth)
	r.GET("/models/available", s.handleModels)

	d := r.Group("/debate")
	{
		d.POST("/create", s.handleCreate)
		d.GET("", s.handleList)
		d.GET("/:id", s.handleGet)
		d.DELETE("/:id", s.handleDelete)
		d.POST("/:id/turn", s.handleTurn)
		d.POST("/:id/start", s.handleStart)
		d.POST("/:id/adjudicate", s.handleAdjudicate)
	}

	return r
}

// Run serves HTTP until the context is cancelled, then drains in-flight
// requests before returning.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Server.ListenAddr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	}
}
