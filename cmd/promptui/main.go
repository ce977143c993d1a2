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
	"promstack/internal/promptui"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", envOr("PROMPTUI_ADDR", ":3000"), "HTTP listen address")
	prometheusURL := flag.String("prometheus-url", envOr("PROMETHEUS_URL", "http://localhost:9090"), "Prometheus base URL")
	ollamaURL := flag.String("ollama-url", envOr("OLLAMA_URL", "http://localhost:11434"), "Ollama base URL")
	model := flag.String("model", envOr("LLAMA_MODEL", "llama3.2:1b"), "Model used for translation and explanation")
	mcpServerURL := flag.String("mcp-server-url", envOr("MCP_SERVER_URL", ""), "MCP server URL advertised to the page")
	configPath := flag.String("config", "", "Optional config file (yaml/json/toml); env and flags win over file values")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Str("service", "promptui").Logger()

	if *configPath != "" {
		fileCfg, err := config.Load(*configPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *configPath).Msg("load config")
		}
		if fileCfg.Addr != "" && !flagSet("addr") {
			*addr = fileCfg.Addr
		}
		if fileCfg.PrometheusURL != "" && !flagSet("prometheus-url") {
			*prometheusURL = fileCfg.PrometheusURL
		}
		if fileCfg.OllamaURL != "" && !flagSet("ollama-url") {
			*ollamaURL = fileCfg.OllamaURL
		}
		if fileCfg.Model != "" && !flagSet("model") {
			*model = fileCfg.Model
		}
		if fileCfg.MCPServerURL != "" && !flagSet("mcp-server-url") {
			*mcpServerURL = fileCfg.MCPServerURL
		}
	}

	metrics, err := promptui.NewPromClient(*prometheusURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("prometheus client setup failed")
	}
	svc := &promptui.Service{
		LLM:           promptui.NewOllamaClient(*ollamaURL, *model),
		Metrics:       metrics,
		Model:         *model,
		PrometheusURL: *prometheusURL,
		MCPServerURL:  *mcpServerURL,
		Log:           logger,
	}

	srv := &http.Server{Addr: *addr, Handler: promptui.NewMux(svc)}

	go func() {
		logger.Info().Str("addr", *addr).Str("prometheus", *prometheusURL).Str("ollama", *ollamaURL).Str("model", *model).Msg("prompt UI listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown error")
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
