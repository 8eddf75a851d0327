package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danmuck/shipping/internal/observability"
	"github.com/danmuck/shipping/internal/shipping"
	"github.com/danmuck/shipping/internal/shipping/fedex"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

// Config is the [gateway] config section.
type Config struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

func DefaultConfig() Config {
	return Config{Addr: ":9080"}
}

// Server exposes the FedEx operations as JSON over HTTP. Every call uses the
// account it was built with.
type Server struct {
	addr    string
	fedex   *fedex.Client
	account shipping.Account
	router  *gin.Engine
	started time.Time
}

func New(cfg Config, client *fedex.Client, acct shipping.Account) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestID())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CORSOrigins),
		AllowMethods: []string{"GET", "POST", "DELETE"},
		AllowHeaders: []string{"Origin", "Content-Type", observability.RequestIDHeader},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		addr:    cfg.Addr,
		fedex:   client,
		account: acct,
		router:  r,
		started: time.Now(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is done, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.addr).Msg("gateway listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info().Msg("gateway shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.started).String(),
			"service": "shipping-gateway",
			"version": "0.0.1",
		})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.POST("/rates/list", s.handlePrice)
	s.router.POST("/rates/discount", s.handleDiscountPrice)
	s.router.POST("/labels", s.handleLabel)
	s.router.POST("/return-labels", s.handleReturnLabel)
	s.router.DELETE("/shipments/:tracking", s.handleVoid)
	s.router.POST("/services", s.handleServices)
	s.router.POST("/services/express", s.handleExpressServices)
	s.router.POST("/subscriptions", s.handleRegister)
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
