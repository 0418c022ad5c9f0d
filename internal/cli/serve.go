package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/habitdiary/internal/api"
	"github.com/terraincognita07/habitdiary/internal/cache"
	"github.com/terraincognita07/habitdiary/internal/config"
	"github.com/terraincognita07/habitdiary/internal/db"
	"github.com/terraincognita07/habitdiary/internal/metrics"
	"github.com/terraincognita07/habitdiary/internal/services"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

type ServeCmd struct {
	Port string `help:"Listen port, overrides PORT." short:"p"`
}

func (cmd *ServeCmd) Run(ctx *Context) error {
	cfg := ctx.Config
	if cmd.Port != "" {
		port, err := config.ResolvePort(cmd.Port)
		if err != nil {
			return err
		}
		cfg.Port = port
	}

	database, err := openDatabase(cfg, ctx.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(database); err != nil {
			ctx.Logger.Warn("close database", "err", err)
		}
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	calendarCache, closeCache, err := buildCalendarCache(sigCtx, cfg, ctx.Logger)
	if err != nil {
		return err
	}
	defer closeCache()

	var registry *metrics.Metrics
	if cfg.MetricsEnabled {
		registry = metrics.New()
	}

	handler, err := api.NewHandler(database, api.HandlerOptions{
		SecretKey:   cfg.SecretKey,
		TokenIssuer: cfg.TokenIssuer,
		Location:    cfg.Location,
		Logger:      ctx.Logger,
		Metrics:     registry,
		Cache:       calendarCache,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := NewApp(handler, registry, cfg.AllowedOrigins())

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			ctx.Logger.Error("server shutdown failed", "err", err)
		}
	}()

	ctx.Logger.Info("habitdiary listening",
		"addr", "0.0.0.0:"+cfg.Port,
		"driver", cfg.DBDriver,
		"tz", cfg.Location.String(),
		"calendar_cache", cfg.CalendarCache,
		"metrics", cfg.MetricsEnabled,
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

// NewApp assembles the Fiber application with its middleware stack.
func NewApp(handler *api.Handler, registry *metrics.Metrics, allowedOrigins []string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "habitdiary",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	if len(allowedOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins: strings.Join(allowedOrigins, ","),
			AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
			AllowHeaders: "Authorization,Content-Type",
		}))
	}
	if registry != nil {
		app.Use(registry.Middleware())
	}

	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}

func openDatabase(cfg config.Config, logger *log.Logger) (*gorm.DB, error) {
	database, err := db.Open(db.Options{
		Driver:      cfg.DBDriver,
		Path:        cfg.DBPath,
		DatabaseURL: cfg.DatabaseURL,
		Writer:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	return database, nil
}

// buildCalendarCache returns a nil cache in "none" mode. The memory cache is
// opt-in because every replica would hold its own copy.
func buildCalendarCache(ctx context.Context, cfg config.Config, logger *log.Logger) (services.CalendarCache, func(), error) {
	switch cfg.CalendarCache {
	case config.CalendarCacheMemory:
		logger.Warn("calendar cache is in-process; run a single instance or use CALENDAR_CACHE=redis")
		return cache.NewMemory(cache.DefaultMemorySize, cfg.CalendarCacheTTL), func() {}, nil
	case config.CalendarCacheRedis:
	default:
		return nil, func() {}, nil
	}

	client, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("redis init failed: %w", err)
	}
	redisCache := cache.NewRedisCache(client, cfg.CalendarCacheTTL, logger)
	return redisCache, func() {
		if err := redisCache.Close(); err != nil {
			logger.Warn("close redis", "err", err)
		}
	}, nil
}
