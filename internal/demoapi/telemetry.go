package demoapi

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const serviceVersion = "0.1.0"

// Instruments bundles the app-level OTel instruments recorded by the HTTP
// middleware. They flow to the collector over OTLP; the collector's
// Prometheus exporter is what the Prometheus server scrapes.
type Instruments struct {
	Requests metric.Int64Counter
	Latency  metric.Float64Histogram
}

// ParseResourceAttributes parses OTEL_RESOURCE_ATTRIBUTES-style
// "key=value,key=value" input, ignoring malformed pieces.
func ParseResourceAttributes(raw string) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	for _, part := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if key == "" {
			continue
		}
		attrs = append(attrs, attribute.String(key, value))
	}
	return attrs
}

// SetupTelemetry wires a periodic OTLP/gRPC metric exporter and registers the
// app instruments plus the pending-orders observable gauge. The returned
// shutdown func flushes and stops the provider.
func SetupTelemetry(ctx context.Context, serviceName, namespace, endpoint string, store *OrderStore) (*Instruments, func(context.Context) error, error) {
	exp, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpointURL(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("otlp exporter: %w", err)
	}

	attrs := []attribute.KeyValue{
		semconv.ServiceName(serviceName),
		semconv.ServiceNamespace(namespace),
		semconv.ServiceVersion(serviceVersion),
	}
	attrs = append(attrs, ParseResourceAttributes(os.Getenv("OTEL_RESOURCE_ATTRIBUTES"))...)
	res, err := resource.New(ctx, resource.WithAttributes(attrs...))
	if err != nil {
		return nil, nil, fmt.Errorf("otel resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(5*time.Second))),
	)
	otel.SetMeterProvider(provider)
	meter := provider.Meter(serviceName)

	ins := &Instruments{}
	ins.Requests, err = meter.Int64Counter("demo_requests_total",
		metric.WithDescription("Total HTTP requests received by the demo API"))
	if err != nil {
		return nil, nil, err
	}
	ins.Latency, err = meter.Float64Histogram("demo_request_latency_ms",
		metric.WithDescription("Request latency captured at the HTTP edge"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, nil, err
	}
	_, err = meter.Int64ObservableGauge("demo_pending_orders",
		metric.WithDescription("Current number of pending in-memory orders"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(store.Pending()))
			return nil
		}))
	if err != nil {
		return nil, nil, err
	}

	return ins, provider.Shutdown, nil
}

// Middleware records the app-level counter and latency histogram per
// request, labeled by method, route pattern and status.
func (ins *Instruments) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(sr, r)
		elapsedMS := float64(time.Since(start)) / float64(time.Millisecond)

		attrs := metric.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", routePatternOrPath(r)),
			attribute.Int("http.status_code", sr.status),
		)
		ins.Requests.Add(r.Context(), 1, attrs)
		ins.Latency.Record(r.Context(), elapsedMS, attrs)
	})
}
