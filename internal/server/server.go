package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rmateos/bookline/internal/config"
	"github.com/rmateos/bookline/internal/database"
)

// InboundHandler processes one inbound WhatsApp event.
type InboundHandler interface {
	HandleText(ctx context.Context, identity, text string) error
	HandleVoice(ctx context.Context, identity, mediaURL string) error
}

type Server struct {
	db      *database.DB
	handler InboundHandler
	cfg     *config.Config
	httpSrv *http.Server
	port    int
}

type ServerConfig struct {
	DB       *database.DB
	Handler  InboundHandler
	Config   *config.Config
	Port     int
	Registry prometheus.Gatherer
}

func New(cfg ServerConfig) *Server {
	s := &Server{
		db:      cfg.DB,
		handler: cfg.Handler,
		cfg:     cfg.Config,
		port:    cfg.Port,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux, cfg.Registry)

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux, registry prometheus.Gatherer) {
	mux.HandleFunc("POST /webhook/whatsapp", s.handleWhatsAppWebhook)
	mux.HandleFunc("GET /health", s.handleHealthCheck)

	if registry == nil {
		registry = prometheus.DefaultGatherer
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}

func (s *Server) Start() error {
	fmt.Printf("Starting HTTP server on http://localhost:%d\n", s.port)
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler returns the server's HTTP handler for testing purposes
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}
