// Package api provides the HTTP API server in front of anxietyd's device queue.
// It exposes the scheduler tunables, queue statistics, forced drains and a
// request submission endpoint so anxietyctl can drive the daemon remotely.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/concave-dev/anxiety/internal/api/handlers"
	"github.com/concave-dev/anxiety/internal/logging"
	"github.com/concave-dev/anxiety/internal/netutil"
	"github.com/concave-dev/anxiety/internal/version"
)

// Represents the anxietyd API server
type Server struct {
	queue          handlers.DeviceQueue
	httpServer     *http.Server
	listener       net.Listener
	bindAddr       string
	bindPort       int
	requestTimeout time.Duration
	version        string
	startTime      time.Time
}

// NewServer creates a new API server instance that binds its own port on Start
func NewServer(config *Config) (*Server, error) {
	return NewServerWithListener(config, nil)
}

// NewServerWithListener creates an API server that serves on an already
// bound listener. The daemon pre-binds so port conflicts surface before the
// device queue is built.
func NewServerWithListener(config *Config, listener net.Listener) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid API config: %w", err)
	}

	// Set Gin to release mode for production
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		queue:          config.Queue,
		listener:       listener,
		bindAddr:       config.BindAddr,
		bindPort:       config.BindPort,
		requestTimeout: config.RequestTimeout,
		version:        version.AnxietydVersion,
		startTime:      time.Now(),
	}
	if listener != nil {
		if port, err := netutil.NewPortBinder().GetListenerPort(listener); err == nil {
			s.bindPort = port
		}
	}
	return s, nil
}

// Start starts the API server
func (s *Server) Start() error {
	logging.Info("Starting HTTP API server on %s:%d", s.bindAddr, s.bindPort)

	if s.listener == nil {
		listener, err := netutil.NewPortBinder().BindTCP(s.bindAddr, s.bindPort)
		if err != nil {
			return fmt.Errorf("failed to bind API server: %w", err)
		}
		s.listener = listener
	}

	s.httpServer = &http.Server{
		Handler: s.router(),
		// Timeouts for production. Writes get headroom over the I/O wait.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.requestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(s.listener); err != nil && err != http.ErrServerClosed {
			logging.Error("HTTP server failed: %v", err)
		}
	}()

	logging.Success("HTTP API server started successfully")
	return nil
}

// Addr returns the address the server listens on, once started or pre-bound
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return net.JoinHostPort(s.bindAddr, fmt.Sprint(s.bindPort))
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down HTTP API server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	if s.listener != nil {
		return s.listener.Close()
	}

	return nil
}

func (s *Server) router() *gin.Engine {
	router := gin.New()

	// Configure Gin logging only if not already configured by CLI tools
	if !logging.IsConfiguredByCLI() {
		gin.DefaultWriter = logging.NewLevelWriter("INFO", "gin")
		gin.DefaultErrorWriter = logging.NewLevelWriter("ERROR", "gin")
	}

	router.Use(s.requestIDMiddleware())
	router.Use(s.loggingMiddleware())
	router.Use(s.corsMiddleware())
	router.Use(gin.Recovery())

	s.setupRoutes(router)
	return router
}

// getHandlerHealth is a health endpoint handler factory
func (s *Server) getHandlerHealth() gin.HandlerFunc {
	return handlers.HandleHealth(s.queue, s.version, s.startTime)
}

func (s *Server) getHandlerHost() gin.HandlerFunc {
	return handlers.HandleHost(s.startTime)
}

func (s *Server) getHandlerListTunables() gin.HandlerFunc {
	return handlers.ListTunables(s.queue)
}

func (s *Server) getHandlerGetTunable() gin.HandlerFunc {
	return handlers.GetTunable(s.queue)
}

func (s *Server) getHandlerSetTunable() gin.HandlerFunc {
	return handlers.SetTunable(s.queue)
}

func (s *Server) getHandlerStats() gin.HandlerFunc {
	return handlers.GetStats(s.queue)
}

// getHandlerDrain and getHandlerSubmitIO bound their waits by the request timeout
func (s *Server) getHandlerDrain() gin.HandlerFunc {
	return handlers.Drain(s.queue, s.requestTimeout)
}

func (s *Server) getHandlerSubmitIO() gin.HandlerFunc {
	return handlers.SubmitIO(s.queue, s.requestTimeout)
}

func (s *Server) getHandlerMetrics() gin.HandlerFunc {
	return handlers.Metrics(s.queue)
}
