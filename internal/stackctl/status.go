package stackctl

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Default probe endpoints for the stack's HTTP surfaces. Probes are
// informational only; a down service is reported, never fatal.
var statusProbes = []struct {
	name string
	url  string
}{
	{"prometheus", "http://localhost:9090/-/ready"},
	{"otel-collector", "http://localhost:13133/"},
	{"demo-api", "http://localhost:8000/health"},
	{"prompt-ui", "http://localhost:3000/health"},
	{"ollama", "http://localhost:11434/api/version"},
}

// statusStack prints the engine's container table, then probes each service's
// HTTP endpoint with a short timeout. Only an engine failure is an error.
func statusStack(cfg *Config) error {
	ctx := context.Background()
	eng := newEngine(cfg)
	if err := eng.PS(ctx); err != nil {
		return fmt.Errorf("compose ps: %w", err)
	}
	for _, p := range statusProbes {
		if probeHTTP(p.url, 2*time.Second) {
			info("[status] %-15s up   (%s)", p.name, p.url)
		} else {
			warn("[status] %-15s down (%s)", p.name, p.url)
		}
	}
	return nil
}

// probeHTTP reports whether url answers any 2xx within the timeout.
func probeHTTP(url string, timeout time.Duration) bool {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
