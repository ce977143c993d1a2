package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters shared by the demo services.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr          string `json:"addr" yaml:"addr" toml:"addr"`
	PrometheusURL string `json:"prometheus_url" yaml:"prometheus_url" toml:"prometheus_url"`
	OllamaURL     string `json:"ollama_url" yaml:"ollama_url" toml:"ollama_url"`
	MCPServerURL  string `json:"mcp_server_url" yaml:"mcp_server_url" toml:"mcp_server_url"`
	Model         string `json:"model" yaml:"model" toml:"model"`
	OTLPEndpoint  string `json:"otlp_endpoint" yaml:"otlp_endpoint" toml:"otlp_endpoint"`
	ServiceName   string `json:"service_name" yaml:"service_name" toml:"service_name"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
