// Package api exposes the HTTP surface clients use to request server
// status, query, and icon lookups.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Syfaro/mcapi/internal/api/handlers"
	_ "github.com/Syfaro/mcapi/internal/api/docs"
	"github.com/Syfaro/mcapi/internal/core"
	"github.com/Syfaro/mcapi/internal/metrics"
)

// Server is the gin-based HTTP adapter in front of core.Service.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
}

// New builds a Server listening on addr.
func New(addr string, svc *core.Service, reg *metrics.Registry, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(slogRequestLogger(logger))

	// Matches the original service's CORS policy: any origin may GET,
	// preflight results may be cached by the browser for a day.
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet},
		MaxAge:          24 * time.Hour,
	}))

	engine.Use(static.Serve("/site", static.LocalFile("./site", false)))
	engine.Use(static.Serve("/scripts", static.LocalFile("./scripts", false)))

	h := handlers.New(svc, reg)

	engine.GET("/server/status", h.ServerStatus)
	engine.GET("/server/query", h.ServerQuery)
	engine.GET("/server/image", h.ServerImage)
	engine.GET("/server/icon", h.ServerIcon)
	engine.GET("/health", h.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{engine: engine, httpServer: httpServer}
}

// Engine exposes the underlying gin.Engine for tests.
func (s *Server) Engine() *gin.Engine { return s.engine }

// ListenAndServe blocks serving HTTP until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func slogRequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
