package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	httpapi "github.com/i474232898/district-weather/internal/api/http"
	"github.com/i474232898/district-weather/internal/config"
	"github.com/i474232898/district-weather/internal/logging"
	"github.com/i474232898/district-weather/internal/metrics"
	"github.com/i474232898/district-weather/internal/scheduler"
	"github.com/i474232898/district-weather/internal/store"
	"github.com/i474232898/district-weather/internal/weather"
	"github.com/i474232898/district-weather/internal/weather/providers"
)

func main() {
	once := flag.Bool("once", false, "Fetch all districts, write the snapshot and exit")
	configFile := flag.String("config", "", "Path to a YAML config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-once] [-config file] [api-key]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if key := flag.Arg(0); key != "" {
		cfg.Weather.OpenWeatherAPIKey = key
	}

	log := logging.New(cfg.Logging)

	if err := run(cfg, *once, &log); err != nil {
		log.Fatal().Err(err).Msg("district-weather stopped")
	}
}

func run(cfg *config.Config, once bool, log *zerolog.Logger) error {
	m := metrics.New()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{Timeout: cfg.Weather.HTTPTimeout}

	provider, err := providers.NewOpenWeatherProvider(httpClient, cfg.Weather.OpenWeatherAPIKey,
		providers.WithBaseURL(cfg.Weather.BaseURL),
		providers.WithMetrics(m),
	)
	if err != nil {
		return fmt.Errorf("init provider: %w", err)
	}

	service, err := weather.NewService(provider, cfg.Weather.Options(), log)
	if err != nil {
		return fmt.Errorf("init weather service: %w", err)
	}

	loc, err := cfg.Snapshot.Location()
	if err != nil {
		return err
	}

	fileStore := store.NewFileStore(afero.NewOsFs(), log, m)

	if once {
		sched := scheduler.New(service.WithConsole(os.Stdout), fileStore, cfg.Snapshot.Path, loc, cfg.Snapshot.FetchInterval, log)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return sched.RunOnce(ctx)
	}

	sched := scheduler.New(service, fileStore, cfg.Snapshot.Path, loc, cfg.Snapshot.FetchInterval, log)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "district-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "district-weather",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	httpapi.RegisterRoutes(app, fileStore, cfg.Snapshot.Path)

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("http server listening")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	return nil
}
