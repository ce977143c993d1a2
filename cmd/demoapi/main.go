package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"promstack/internal/config"
	"promstack/internal/demoapi"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	// Optional .env in the working directory, same as the rest of the stack.
	_ = godotenv.Load()

	addr := flag.String("addr", envOr("DEMOAPI_ADDR", ":8000"), "HTTP listen address")
	otlpEndpoint := flag.String("otlp-endpoint", envOr("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4317"), "OTLP/gRPC collector endpoint")
	serviceName := flag.String("service-name", envOr("OTEL_SERVICE_NAME", "demo-metrics-api"), "Service name reported in the OTel resource")
	namespace := flag.String("service-namespace", envOr("OTEL_SERVICE_NAMESPACE", "prometheus-ai"), "Service namespace reported in the OTel resource")
	configPath := flag.String("config", "", "Optional config file (yaml/json/toml); flags win over file values")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Str("service", "demoapi").Logger()
	demoapi.SetLogger(logger)

	if *configPath != "" {
		fileCfg, err := config.Load(*configPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *configPath).Msg("load config")
		}
		if fileCfg.Addr != "" && !flagSet("addr") {
			*addr = fileCfg.Addr
		}
		if fileCfg.OTLPEndpoint != "" && !flagSet("otlp-endpoint") {
			*otlpEndpoint = fileCfg.OTLPEndpoint
		}
		if fileCfg.ServiceName != "" && !flagSet("service-name") {
			*serviceName = fileCfg.ServiceName
		}
	}

	store := demoapi.NewOrderStore()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ins, shutdownMetrics, err := demoapi.SetupTelemetry(ctx, *serviceName, *namespace, *otlpEndpoint, store)
	if err != nil {
		logger.Fatal().Err(err).Msg("telemetry setup failed")
	}

	srv := &http.Server{Addr: *addr, Handler: demoapi.NewMux(store, ins)}

	go func() {
		logger.Info().Str("addr", *addr).Str("otlp", *otlpEndpoint).Msg("demo API listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown error")
	}
	if err := shutdownMetrics(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("metrics shutdown error")
	}
}

// flagSet reports whether the named flag was passed explicitly.
func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
