// Package api exposes the irrigation service over REST.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/LeonardoBeccarini/borewell_project/internal/config"
	"github.com/LeonardoBeccarini/borewell_project/internal/services/irrigation"
)

// Server bundles the router and its dependencies.
type Server struct {
	cfg     config.Config
	svc     *irrigation.Service
	metrics prometheus.Gatherer
	engine  *gin.Engine
	ready   readiness
	now     func() time.Time
}

// New builds the router. metrics may be nil, in which case /metrics is not
// served.
func New(cfg config.Config, svc *irrigation.Service, metrics prometheus.Gatherer) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	s := &Server{cfg: cfg, svc: svc, metrics: metrics, engine: engine, now: time.Now}
	s.registerRoutes()
	return s
}

// Engine exposes the gin engine (tests).
func (s *Server) Engine() *gin.Engine { return s.engine }

// Handler is the engine wrapped with CORS.
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(s.engine)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/readyz", s.handleReady)
	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{})))
	}

	api := s.engine.Group("/api")
	api.POST("/connections", s.handleAddConnection)
	api.GET("/connections", s.handleListConnections)
	api.GET("/connections/:id", s.handleFindConnection)

	api.POST("/motors", s.handleScheduleMotor)
	api.GET("/motors", s.handlePendingMotors)
	api.POST("/motors/next", s.handleNextMotor)

	api.POST("/crops", s.handleAddCrop)
	api.GET("/crops", s.handleListCrops)

	api.GET("/history", s.handleHistory)
}

func (s *Server) handleHealth(c *gin.Context) {
	st := s.svc.Stats()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "history_full": st.HistoryFull, "stats": st})
}
