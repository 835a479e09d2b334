package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/kbukum/healthkit/config"
	"github.com/kbukum/healthkit/logger"
	"github.com/kbukum/healthkit/server/endpoint"
	"github.com/kbukum/healthkit/server/middleware"
)

// shutdownTimeout bounds graceful shutdown in Stop.
const shutdownTimeout = 5 * time.Second

// Server serves health reports over HTTP/1.1 and h2c. Gin handles the REST
// endpoints; other handlers, such as the gRPC health service, are mounted
// next to it on the same port.
type Server struct {
	httpServer  *http.Server
	engine      *gin.Engine
	mux         *http.ServeMux
	middlewares []middleware.Middleware
	config      config.ServerConfig
	log         *logger.Logger
	listener    net.Listener
}

// New creates a Server. No middleware or endpoints are registered yet.
func New(cfg config.ServerConfig, log *logger.Logger) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	mux := http.NewServeMux()
	mux.Handle("/", engine)

	s := &Server{
		engine: engine,
		mux:    mux,
		config: cfg,
		log:    log.WithComponent("server"),
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}
	return s
}

// Handler returns the full handler: middleware around the mux, wrapped for
// HTTP/2 cleartext so gRPC clients can connect without TLS.
func (s *Server) Handler() http.Handler {
	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}
	return h2c.NewHandler(middleware.Chain(s.middlewares...)(s.mux), h2s)
}

// GinEngine returns the underlying Gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Handle mounts handler at pattern on the root mux, next to Gin.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
	s.log.Debug("handler mounted", logger.Fields("pattern", pattern))
}

// Use appends middleware applied around every route.
func (s *Server) Use(mw ...middleware.Middleware) {
	s.middlewares = append(s.middlewares, mw...)
}

// ApplyMiddleware installs the standard stack: recovery, request ID and
// request logging.
func (s *Server) ApplyMiddleware() {
	s.Use(
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.RequestLogger(s.log),
	)
}

// RegisterEndpoints registers the health, liveness, metrics and version
// routes, and mounts the gRPC health service backed by checker.
func (s *Server) RegisterEndpoints(serviceName string, checker endpoint.Checker, gatherer prometheus.Gatherer) {
	s.engine.GET("/health", endpoint.Health(checker, s.config.CheckTimeout))
	s.engine.GET("/health/:name", endpoint.Component(checker, s.config.CheckTimeout))
	s.engine.GET("/livez", endpoint.Liveness(serviceName))
	s.engine.GET("/metrics", endpoint.Metrics(gatherer))
	s.engine.GET("/version", endpoint.Version())

	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, endpoint.NewGRPCHealth(checker, s.config.CheckTimeout))
	s.Handle("/"+healthpb.Health_ServiceDesc.ServiceName+"/", gs)
}

// ApplyDefaults applies the standard middleware and registers the endpoints.
func (s *Server) ApplyDefaults(serviceName string, checker endpoint.Checker, gatherer prometheus.Gatherer) {
	s.ApplyMiddleware()
	s.RegisterEndpoints(serviceName, checker, gatherer)
}

// Start binds the port and serves in a goroutine. It returns once the
// listener is bound. Middleware must be added before Start.
func (s *Server) Start(_ context.Context) error {
	s.httpServer.Handler = s.Handler()

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.listener = listener

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("server error", logger.ErrorFields("serve", err))
		}
	}()

	s.log.Info("HTTP server started", logger.Fields("addr", s.Addr()))
	return nil
}

// Stop gracefully shuts down the server within shutdownTimeout.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("server shutdown error", logger.ErrorFields("shutdown", err))
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

// Addr returns the bound address once started, the configured one before.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}
