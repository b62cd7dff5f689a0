package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cosmossdk.io/log"

	"github.com/openalpha/lockdeal/api/handlers"
	"github.com/openalpha/lockdeal/api/middleware"
	"github.com/openalpha/lockdeal/api/websocket"
	"github.com/openalpha/lockdeal/app"
	lockmetrics "github.com/openalpha/lockdeal/metrics"
)

// Server represents the API server
type Server struct {
	httpServer *http.Server
	config     *Config
	app        *app.App
	logger     log.Logger

	service *AppService
	hub     *websocket.Hub
	metrics *lockmetrics.Collector

	poolHandler *handlers.PoolHandler
	txHandler   *handlers.TxHandler

	rateLimiter *middleware.RateLimiter
	handler     http.Handler

	hubCancel context.CancelFunc
}

// Config contains server configuration
type Config struct {
	Host             string
	Port             int
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	DisableRateLimit bool // For testing purposes
	RateLimit        *middleware.RateLimitConfig
	WebSocket        *websocket.HubConfig
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		RateLimit:    middleware.DefaultRateLimitConfig(),
		WebSocket:    websocket.DefaultHubConfig(),
	}
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewServer wires the HTTP surface to a. collector may be nil.
func NewServer(a *app.App, config *Config, collector *lockmetrics.Collector, logger log.Logger) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.RateLimit == nil {
		config.RateLimit = middleware.DefaultRateLimitConfig()
	}
	if config.WebSocket == nil {
		config.WebSocket = websocket.DefaultHubConfig()
	}

	service, err := NewAppService(a, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load pool index: %w", err)
	}

	s := &Server{
		config:      config,
		app:         a,
		logger:      logger.With("module", "api"),
		service:     service,
		hub:         websocket.NewHub(config.WebSocket, collector),
		metrics:     collector,
		poolHandler: handlers.NewPoolHandler(service),
		txHandler:   handlers.NewTxHandler(service),
	}
	a.Subscribe(s.hub.Publish)

	if !config.DisableRateLimit {
		s.rateLimiter = middleware.NewRateLimiter(config.RateLimit)
		if collector != nil {
			s.rateLimiter.OnReject = collector.RecordRateLimitHit
		}
	}
	s.handler = s.buildHandler()
	return s, nil
}

func (s *Server) buildHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/health", s.handleHealth)

	mux.HandleFunc("GET /v1/pools", s.poolHandler.ListPools)
	mux.HandleFunc("GET /v1/pools/{id}", s.poolHandler.GetPool)
	mux.HandleFunc("GET /v1/pools/{id}/releasable", s.poolHandler.Releasable)
	mux.HandleFunc("GET /v1/owners/{owner}/pools", s.poolHandler.PoolsByOwner)
	mux.HandleFunc("GET /v1/unlocks", s.poolHandler.Unlocks)
	mux.HandleFunc("GET /v1/collateral/{id}", s.poolHandler.GetCollateral)
	mux.HandleFunc("GET /v1/balances/{address}/{token}", s.poolHandler.GetBalance)

	mux.HandleFunc("POST /v1/tx", s.txHandler.Submit)
	mux.HandleFunc("GET /v1/msg-types", s.txHandler.MsgTypes)
	mux.HandleFunc("POST /v1/rebuild/encode", s.txHandler.EncodeRebuild)

	mux.HandleFunc("/ws", s.hub.ServeWS)
	mux.Handle("GET /metrics", lockmetrics.Handler())

	var handler http.Handler = mux
	if s.rateLimiter != nil {
		handler = middleware.TxRateLimitMiddleware(s.rateLimiter)(handler)
		handler = middleware.RateLimitMiddleware(s.rateLimiter)(handler)
	}
	handler = corsMiddleware(handler)
	if s.metrics != nil {
		handler = middleware.Metrics(s.metrics, routeLabel)(handler)
	}
	return middleware.RequestID(handler)
}

// Handler returns the complete middleware chain
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Service returns the query and submission service
func (s *Server) Service() *AppService {
	return s.service
}

// Hub returns the websocket hub
func (s *Server) Hub() *websocket.Hub {
	return s.hub
}

// Start runs the websocket hub and serves until Stop
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.hubCancel = cancel
	go s.hub.Run(ctx)

	s.httpServer = &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("API server starting", "addr", s.config.Addr(), "rate_limit", s.rateLimiter != nil)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains HTTP connections and closes websocket clients
func (s *Server) Stop(ctx context.Context) error {
	if s.hubCancel != nil {
		s.hubCancel()
	}
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "healthy",
		"timestamp":     time.Now().Unix(),
		"height":        s.app.LastHeight(),
		"synced_height": s.service.SyncedHeight(),
		"indexed_pools": s.service.Index().Len(),
		"ws_clients":    s.hub.GetClientCount(),
	})
}

// routeLabel is the matched mux pattern, bounded for metric labels
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}
	return r.Pattern
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
