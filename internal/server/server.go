package server

import (
	"context"
	"net/http"
	"time"

	_ "address-api/docs"
	"address-api/internal/handler"
	"address-api/internal/middleware"
	"address-api/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const readinessTimeout = 2 * time.Second

// ReadinessChecker reports whether the address store is reachable.
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

// Server wires the gin engine into an http.Server.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	logger     zerolog.Logger
}

// Options carries the server's collaborators.
type Options struct {
	Addr      string
	Addresses *handler.AddressHandler
	Ready     ReadinessChecker
	Metrics   *observability.Metrics
	Gatherer  prometheus.Gatherer
	Logger    zerolog.Logger
}

// NewServer creates the engine with /health, /ready, /metrics, /swagger and the /api routes.
func NewServer(opts Options) *Server {
	engine := gin.New()
	engine.Use(
		middleware.RequestLogger(opts.Logger),
		middleware.Metrics(opts.Metrics),
		gin.Recovery(),
		middleware.ErrorHandler(opts.Logger),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	engine.GET("/ready", handleReady(opts.Ready))
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	opts.Addresses.RegisterRoutes(engine.Group("/api"))

	return &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      engine,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		engine: engine,
		logger: opts.Logger,
	}
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("http server starting")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the engine, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func handleReady(checker ReadinessChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		if err := checker.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
