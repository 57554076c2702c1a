package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	shellhttp "github.com/GriffinCanCode/DualShell/backend/internal/api/http"
	"github.com/GriffinCanCode/DualShell/backend/internal/api/middleware"
	"github.com/GriffinCanCode/DualShell/backend/internal/api/ws"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/icons"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/launch"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/pager"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/prefs"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/registry"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/window"
	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/kv"
	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/notify"
	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/types"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/utils"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	http     *http.Server
	windows  *window.Manager
	registry *registry.Registry
	hub      *notify.Hub
	streams  *ws.Handler
	webhook  *notify.Webhook
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
	tracer   *tracing.Tracer
	cancel   context.CancelFunc

	closeOnce sync.Once
	closeErr  error
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logger.Info("Initializing DualShell server",
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Storage.Path),
		zap.Bool("webhook", cfg.Notify.WebhookURL != ""),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()
	tracer := tracing.New("dualshell", logger.Component("trace"))

	tuning, err := config.LoadTuning(cfg.Shell.TuningFile)
	if err != nil {
		tracer.Close()
		return nil, err
	}

	store, err := openStore(cfg.Storage.Path, logger.Component("kv"))
	if err != nil {
		tracer.Close()
		return nil, err
	}

	appRegistry, err := registry.Load(logger.Component("registry"))
	if err != nil {
		tracer.Close()
		return nil, fmt.Errorf("failed to load app registry: %w", err)
	}
	appRegistry.WithMetrics(metrics)
	if cfg.Registry.AppsDir != "" {
		seeder := registry.NewSeeder(appRegistry, cfg.Registry.AppsDir, logger.Component("seeder"))
		if _, err := seeder.Seed(); err != nil {
			logger.Warn("Failed to seed app manifests", zap.Error(err))
		}
		appRegistry.WithMetrics(metrics)
	}

	// Launch events fan out to the log, stream clients and the webhook
	ctx, cancel := context.WithCancel(context.Background())
	hub := notify.NewHub()
	sinks := notify.Multi{notify.NewLog(logger.Component("launch")), hub}
	var webhook *notify.Webhook
	if cfg.Notify.WebhookURL != "" {
		whCfg := notify.DefaultWebhookConfig(cfg.Notify.WebhookURL)
		whCfg.Timeout = cfg.Notify.Timeout
		whCfg.RequestsPerSecond = cfg.Notify.RequestsPerSecond
		whCfg.QueueSize = cfg.Notify.QueueSize
		webhook = notify.NewWebhook(whCfg, logger.Component("webhook"), metrics).WithTracer(tracer)
		if err := webhook.Start(ctx); err != nil {
			cancel()
			tracer.Close()
			return nil, fmt.Errorf("failed to start webhook sink: %w", err)
		}
		sinks = append(sinks, webhook)
	}

	windows := window.NewManager(tuning.ApplyWindow(window.DefaultConfig())).
		WithNotifier(sinks).
		WithMetrics(metrics).
		WithLogger(logger.Component("window"))
	iconEngine := icons.NewEngine(store, tuning.ApplyIcons(icons.DefaultConfig()), logger.Component("icons")).
		WithMetrics(metrics)
	prefService := prefs.NewService(store, logger.Component("prefs")).WithMetrics(metrics)
	launcher := launch.New(appRegistry).
		WithNotifier(sinks).
		WithMetrics(metrics).
		WithLogger(logger.Component("launch"))
	pagerCfg := tuning.ApplyPager(pager.DefaultConfig())

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(tracing.Middleware(tracer))
	router.Use(middleware.AccessLog(logger.Component("http")))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(middleware.BodyLimit(utils.MaxJSONSize))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	viewport := types.Viewport{Width: cfg.Shell.ViewportWidth, Height: cfg.Shell.ViewportHeight}
	handlers := shellhttp.NewHandlers(shellhttp.Deps{
		Windows:  windows,
		Icons:    iconEngine,
		Registry: appRegistry,
		Launcher: launcher,
		Prefs:    prefService,
		Metrics:  metrics,
		Logger:   logger.Component("api"),
		Pager:    pagerCfg,
		Viewport: viewport,
	})
	handlers.Register(router)

	wsHandler := ws.NewHandler(ws.Deps{
		Registry: appRegistry,
		Launcher: launcher,
		Prefs:    prefService,
		Hub:      hub,
		Metrics:  metrics,
		Logger:   logger.Component("ws"),
		Pager:    pagerCfg,
		Viewport: viewport,
	})
	router.GET("/home/stream", wsHandler.HandleConnection)

	// Prometheus exposition
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.Any("/log/level", gin.WrapH(logger.LevelHandler()))

	logger.Info("Server initialized successfully", zap.Int("apps", appRegistry.Len()))

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		windows:  windows,
		registry: appRegistry,
		hub:      hub,
		streams:  wsHandler,
		webhook:  webhook,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
		tracer:   tracer,
		cancel:   cancel,
	}, nil
}

// openStore returns the file store at path, or a memory store when path is empty
func openStore(path string, logger *zap.Logger) (kv.Store, error) {
	if path == "" {
		logger.Info("No store path configured, state will not persist")
		return kv.NewMemory(), nil
	}
	store, err := kv.OpenFile(path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts the HTTP server and blocks until it stops. A clean shutdown
// returns nil.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close gracefully shuts down the server. Calls after the first return
// its result.
func (s *Server) Close() error {
	s.closeOnce.Do(func() { s.closeErr = s.shutdown() })
	return s.closeErr
}

func (s *Server) shutdown() error {
	s.logger.Info("Shutting down server...")

	var errs []error
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shut down HTTP server", zap.Error(err))
		errs = append(errs, fmt.Errorf("failed to shut down http server: %w", err))
	}
	// Shutdown does not track hijacked connections
	if err := s.streams.Close(ctx); err != nil {
		s.logger.Error("Failed to close websocket sessions", zap.Error(err))
		errs = append(errs, err)
	}

	if s.webhook != nil {
		s.webhook.Close()
		if dropped := s.webhook.Dropped(); dropped > 0 {
			s.logger.Warn("Webhook dropped launch events", zap.Uint64("dropped", dropped))
		}
	}
	s.cancel()
	s.tracer.Close()

	s.logger.Info("Closed windows", zap.Int("count", s.windows.CloseAll()))

	// Sync logger before exit
	_ = s.logger.Sync()

	return errors.Join(errs...)
}
