package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/backgroundcheck/x24-platform/internal/assessment"
	assessmenthandler "github.com/backgroundcheck/x24-platform/internal/assessment/handler"
	assessmentmetrics "github.com/backgroundcheck/x24-platform/internal/assessment/metrics"
	assessmentstore "github.com/backgroundcheck/x24-platform/internal/assessment/store"
	"github.com/backgroundcheck/x24-platform/internal/audit"
	"github.com/backgroundcheck/x24-platform/internal/connector"
	connectorhandler "github.com/backgroundcheck/x24-platform/internal/connector/handler"
	connectormetrics "github.com/backgroundcheck/x24-platform/internal/connector/metrics"
	httpapi "github.com/backgroundcheck/x24-platform/internal/http"
	"github.com/backgroundcheck/x24-platform/internal/match"
	"github.com/backgroundcheck/x24-platform/internal/platform/config"
	"github.com/backgroundcheck/x24-platform/internal/platform/httpserver"
	"github.com/backgroundcheck/x24-platform/internal/platform/logger"
	platformredis "github.com/backgroundcheck/x24-platform/internal/platform/redis"
	"github.com/backgroundcheck/x24-platform/internal/risk"
)

// main wires the screening pipeline and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	screening, err := config.LoadScreening(cfg.ScreeningConfigPath)
	if err != nil {
		log.Error("failed to load screening config", "error", err)
		os.Exit(1)
	}

	cache, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	registry := connector.NewRegistry()
	for _, connCfg := range screening.Connectors {
		conn, err := connector.NewHTTPConnector(connCfg)
		if err != nil {
			log.Error("failed to build connector", "connector", connCfg.ID, "error", err)
			os.Exit(1)
		}
		wrapped := connector.Connector(conn)
		if cache != nil {
			wrapped = connector.NewCachedConnector(conn, cache.Client, 0, log)
		}
		if err := registry.Register(wrapped); err != nil {
			log.Error("failed to register connector", "connector", connCfg.ID, "error", err)
			os.Exit(1)
		}
	}

	breakers := connector.NewBreakerRegistry(*screening.Breaker)
	caller, err := connector.NewCaller(registry, breakers,
		connector.WithLogger(log),
		connector.WithMetrics(connectormetrics.New()),
		connector.WithRetryConfig(*screening.Retry),
	)
	if err != nil {
		log.Error("failed to build connector caller", "error", err)
		os.Exit(1)
	}

	aggregator, err := risk.NewAggregator(*screening.Policy)
	if err != nil {
		log.Error("failed to build risk aggregator", "error", err)
		os.Exit(1)
	}

	serviceOpts := []assessment.ServiceOption{
		assessment.WithLogger(log),
		assessment.WithMetrics(assessmentmetrics.New()),
	}

	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		pgStore := assessmentstore.NewPostgres(db)
		if err := pgStore.EnsureSchema(context.Background()); err != nil {
			log.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
		serviceOpts = append(serviceOpts, assessment.WithStore(pgStore))
	} else {
		serviceOpts = append(serviceOpts, assessment.WithStore(assessmentstore.NewInMemory()))
	}

	publisher, err := audit.NewPublisher(context.Background(), cfg.KafkaBrokers, log)
	if err != nil {
		log.Error("failed to connect to kafka", "error", err)
		os.Exit(1)
	}
	if publisher != nil {
		defer publisher.Close()
		serviceOpts = append(serviceOpts, assessment.WithPublisher(publisher))
	}

	service, err := assessment.NewService(registry, caller,
		match.NewEngine(match.WithLogger(log)), aggregator, serviceOpts...)
	if err != nil {
		log.Error("failed to build assessment service", "error", err)
		os.Exit(1)
	}

	router := httpapi.NewRouter(
		assessmenthandler.New(service, log),
		connectorhandler.New(breakers, log),
	)
	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("screening service listening",
			"addr", cfg.Addr,
			"connectors", len(screening.Connectors),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("screening service stopped")
}
