package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"orkg-backend/backend/internal/api"
	"orkg-backend/backend/internal/app"
	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/metrics"
	"orkg-backend/backend/pkg/config"
	"orkg-backend/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting ORKG API server...")

	m := metrics.NewMetrics()
	registry := newRegistry(m, cfg.MetricsEnabled)

	ctx := context.Background()
	rt, err := app.Open(ctx, cfg, m, true)
	if err != nil {
		log.Fatal("Failed to open stores", zap.Error(err))
	}
	defer rt.Close(context.Background())

	if _, err := graph.SeedVocabulary(ctx, rt.Stores.Classes, rt.Stores.Predicates); err != nil {
		log.Fatal("Failed to seed vocabulary", zap.Error(err))
	}

	opts := api.Options{Production: cfg.IsProduction()}
	if registry != nil {
		opts.Gatherer = registry
	}
	router := api.NewRouter(app.NewServices(rt.Stores, m), opts)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// newRegistry registers the application and runtime collectors. It returns nil
// when metrics are disabled; the collectors then record into nothing.
func newRegistry(m *metrics.Metrics, enabled bool) *prometheus.Registry {
	if !enabled {
		return nil
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := m.Register(registry); err != nil {
		panic(fmt.Sprintf("Failed to register metrics: %v", err))
	}
	return registry
}
