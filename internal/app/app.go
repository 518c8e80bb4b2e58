// Package app wires the storefront service together and owns its lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pasarantar/storefront/internal/config"
	"github.com/pasarantar/storefront/internal/event"
	handlerhttp "github.com/pasarantar/storefront/internal/handler/http"
	"github.com/pasarantar/storefront/internal/notifier"
	redisrepo "github.com/pasarantar/storefront/internal/repository/redis"
	"github.com/pasarantar/storefront/internal/service"
	"github.com/pasarantar/storefront/pkg/health"
	"github.com/pasarantar/storefront/pkg/httpclient"
	"github.com/pasarantar/storefront/pkg/kafka"
	"github.com/pasarantar/storefront/pkg/logger"
	"github.com/pasarantar/storefront/pkg/tracing"
)

// App is the assembled storefront service.
type App struct {
	cfg      *config.Config
	log      *slog.Logger
	server   *http.Server
	redis    *redis.Client
	producer *kafka.Producer

	shutdownTracing func(context.Context) error
}

// New builds the service from configuration.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.New("storefront", cfg.LogLevel)
	slog.SetDefault(log)

	shutdownTracing, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.TracingEndpoint,
		SampleRate:     cfg.TracingSampleRate,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
	}

	var producer *kafka.Producer
	if brokers := nonEmpty(cfg.KafkaBrokers); len(brokers) > 0 {
		producer = kafka.NewProducer(kafka.DefaultProducerConfig(brokers), log)
	} else {
		log.Warn("kafka brokers not configured, event publishing disabled")
	}

	repo := redisrepo.NewCartRepository(redisClient, cfg.CartTTL)
	toasts := notifier.New(cfg.ToastDismissAfter, log)
	events := event.NewProducer(producer, log)

	orderClient := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.Config{
			Timeout:         cfg.OrderAPITimeout,
			MaxRetries:      cfg.OrderAPIRetries,
			RetryWaitMin:    500 * time.Millisecond,
			RetryWaitMax:    5 * time.Second,
			MaxConnsPerHost: 100,
		}),
		httpclient.DefaultCircuitBreakerConfig("order-api"),
		log,
	)

	carts := service.NewCartService(repo, toasts, events, log)
	checkout := service.NewCheckoutService(repo, orderClient, toasts, events, cfg.OrderAPIURL, log)

	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	if producer != nil {
		healthHandler.Register("kafka", producer.Ping)
	}

	router := handlerhttp.NewRouter(handlerhttp.RouterDeps{
		Cart:     handlerhttp.NewCartHandler(carts, log),
		Checkout: handlerhttp.NewCheckoutHandler(checkout, log),
		Toast:    handlerhttp.NewToastHandler(toasts),
		Health:   healthHandler,
		Logger:   log,
	})

	return &App{
		cfg: cfg,
		log: log,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		redis:           redisClient,
		producer:        producer,
		shutdownTracing: shutdownTracing,
	}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// everything down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("storefront listening",
			slog.String("addr", a.server.Addr),
			slog.String("environment", a.cfg.Environment),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("kafka close: %w", err))
		}
	}
	if err := a.redis.Close(); err != nil {
		errs = append(errs, fmt.Errorf("redis close: %w", err))
	}
	if err := a.shutdownTracing(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
	}
	return errors.Join(errs...)
}

// nonEmpty drops blank entries, which env parsing produces for an unset
// comma-separated variable.
func nonEmpty(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
