package promptui

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	promapi "github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
)

// Metrics is the slice of the Prometheus API the UI consumes.
type Metrics interface {
	// MetricNames returns a sample of known metric names, capped at limit.
	MetricNames(ctx context.Context, limit int) ([]string, error)
	// Query runs an instant query and returns the result as raw JSON.
	Query(ctx context.Context, promql string) (json.RawMessage, error)
}

// PromClient implements Metrics on top of the Prometheus HTTP API client.
type PromClient struct {
	api promv1.API
}

func NewPromClient(baseURL string) (*PromClient, error) {
	c, err := promapi.NewClient(promapi.Config{Address: baseURL})
	if err != nil {
		return nil, fmt.Errorf("prometheus client: %w", err)
	}
	return &PromClient{api: promv1.NewAPI(c)}, nil
}

func (p *PromClient) MetricNames(ctx context.Context, limit int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	values, _, err := p.api.LabelValues(ctx, "__name__", nil, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(values))
	for _, v := range values {
		names = append(names, string(v))
		if len(names) == limit {
			break
		}
	}
	return names, nil
}

func (p *PromClient) Query(ctx context.Context, promql string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	val, _, err := p.api.Query(ctx, promql, time.Now())
	if err != nil {
		return nil, fmt.Errorf("prometheus query failed: %w", err)
	}
	if val == nil {
		val = model.Vector{}
	}
	payload := map[string]any{
		"status": "success",
		"data": map[string]any{
			"resultType": val.Type().String(),
			"result":     val,
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return raw, nil
}
