package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/annealworks/qknap/pkg/logging"
	"github.com/annealworks/qknap/pkg/tracing"
	"github.com/annealworks/qknap/sampler/remote"
	"github.com/annealworks/qknap/solver"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := solver.LoadConfig()

	// Setup structured logging
	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.LogLevel,
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("failed to initialize logging: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	slog.SetDefault(logger.GetSlog())

	s, err := solver.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("failed to build solver: %v", err)
	}
	defer s.Cache.Close()

	if rs, ok := s.Sampler.(*remote.Sampler); ok {
		rs.WithLogger(logger)
	}

	// Tracing is optional; without a collector the tracer is a no-op.
	if cfg.JaegerEndpoint != "" {
		tracer, err := tracing.NewTracer(tracing.Config{
			ServiceName:    "knapsackd",
			ServiceVersion: "1.0.0",
			JaegerEndpoint: cfg.JaegerEndpoint,
			Environment:    getEnvDefault("ENVIRONMENT", "development"),
		})
		if err != nil {
			log.Fatalf("failed to initialize tracing: %v", err)
		}
		s.Tracer = tracer
	} else {
		s.Tracer = tracing.NewNoopTracer()
	}

	// Create solver with telemetry
	instrumented := solver.NewInstrumentedSolver(s)
	ing := solver.NewIngestor(instrumented.Solve).WithTimeout(cfg.SolveTimeout)

	// Setup HTTP routes
	mux := http.NewServeMux()
	mux.Handle("/solve", ing)
	mux.Handle("/health", http.HandlerFunc(instrumented.GetTelemetry().HealthHandler))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/vars", http.HandlerFunc(instrumented.GetTelemetry().VarsHandler))

	logger.Info("knapsackd starting", "port", cfg.HTTPPort, "sampler", cfg.SamplerMode)
	log.Fatal(http.ListenAndServe(":"+cfg.HTTPPort, mux))
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
