package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xfinder/reporting-api/internal/config"
	"github.com/xfinder/reporting-api/internal/server/middlewares"
	"github.com/xfinder/reporting-api/pkg/certificates"
)

const (
	ProductionServer string = config.ServerModeProd
	DevServer        string = config.ServerModeDev
	apiV1            string = "/api/v1"
	metricsPath      string = "/metrics"
)

type Server struct {
	srv *http.Server
}

func NewServer(cfg *config.Configuration, registerHandlerFn func(router *gin.RouterGroup)) (*Server, error) {
	gin.SetMode(gin.DebugMode)
	if cfg.Server.ServerMode == ProductionServer {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	srv := &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", cfg.Server.HTTPPort),
		Handler: engine,
	}

	if cfg.Server.TLSEnabled {
		tlsConfig, err := certificates.NewTLSConfig(cfg.Server.CertValidity)
		if err != nil {
			return nil, err
		}
		srv.TLSConfig = tlsConfig
	}

	engine.GET(metricsPath, gin.WrapH(promhttp.Handler()))
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "API endpoint not found",
		})
	})

	router := engine.Group(apiV1)

	router.Use(
		middlewares.RequestID(),
		middlewares.Logger(),
		ginzap.RecoveryWithZap(zap.S().Desugar(), true),
		middlewares.Metrics(),
		middlewares.Timeout(cfg.Server.RequestTimeout),
	)

	registerHandlerFn(router)

	return &Server{srv: srv}, nil
}

// Start starts the HTTP or HTTPS server based on TLS configuration. It
// returns nil once the server is stopped.
func (r *Server) Start(ctx context.Context) error {
	var err error
	if r.srv.TLSConfig != nil {
		err = r.srv.ListenAndServeTLS("", "")
	} else {
		err = r.srv.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (r *Server) Stop(ctx context.Context) {
	if err := r.srv.Shutdown(ctx); err != nil {
		zap.S().Errorw("server shutdown", "error", err)
	}
}
