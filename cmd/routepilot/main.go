package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/routepilot/routepilot/internal/directions"
	"github.com/routepilot/routepilot/internal/navexport"
	"github.com/routepilot/routepilot/internal/planner"
	"github.com/routepilot/routepilot/internal/routestore"
	"github.com/routepilot/routepilot/pkg/common"
	"github.com/routepilot/routepilot/pkg/config"
	sentryerrors "github.com/routepilot/routepilot/pkg/errors"
	"github.com/routepilot/routepilot/pkg/logger"
	"github.com/routepilot/routepilot/pkg/middleware"
	"github.com/routepilot/routepilot/pkg/redis"
	"github.com/routepilot/routepilot/pkg/resilience"
)

const (
	serviceName = "routepilot"
	version     = "1.0.0"
)

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if err := sentryerrors.InitSentry(sentryerrors.DefaultSentryConfig()); err != nil {
		logger.Warn("sentry disabled", zap.Error(err))
	} else {
		defer sentryerrors.Flush(2 * time.Second)
	}

	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	engine := directions.NewClient(directions.Config{
		APIKey:         cfg.Engine.APIKey,
		BaseURL:        cfg.Engine.BaseURL,
		TimeoutSeconds: cfg.Engine.TimeoutSeconds,
		TrafficAware:   cfg.Engine.TrafficAware,
	})
	if cfg.Engine.BreakerEnabled {
		engine.SetCircuitBreaker(resilience.NewCircuitBreaker(
			resilience.BuildSettings("directions-engine", 60, 30, 5, 2),
			resilience.NoopFallback,
		))
	}

	store := routestore.New(redisClient, "")
	exporter := navexport.NewExporter(navexport.Platform(cfg.Export.Platform), nil)
	service := planner.NewService(engine, store, exporter, directions.UnitSystem(cfg.Engine.Units))

	router := setupRouter(cfg, redisClient)
	planner.NewHandler(service).RegisterRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.String("service", serviceName),
			zap.String("port", cfg.Server.Port),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

func setupRouter(cfg *config.Config, redisClient *redis.Client) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RecoveryWithSentry())
	router.Use(middleware.SentryMiddleware())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestTimeout(time.Duration(cfg.Server.RequestTimeout) * time.Second))
	router.Use(middleware.RequestLogger(serviceName))
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	router.Use(middleware.Metrics(serviceName))
	router.Use(middleware.ErrorHandler())

	router.NoRoute(common.NoRouteHandler())
	router.NoMethod(common.NoMethodHandler())

	router.GET("/health", common.HealthCheck(serviceName, version))
	router.GET("/health/live", common.LivenessProbe(serviceName, version))
	router.GET("/health/ready", common.ReadinessProbe(serviceName, version, map[string]func() error{
		"redis": func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Ping(ctx).Err()
		},
	}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/version", func(c *gin.Context) {
		common.SuccessResponse(c, gin.H{"service": serviceName, "version": version})
	})

	return router
}
