// Package observability provides structured logging context and OpenTelemetry
// metrics exported in Prometheus format.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	prometheusexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const (
	meterScope         = "loan-advisor/observability"
	defaultServiceName = "loan-advisor"
	cardinalityLimit   = 1000
)

var latencyHistogramBoundaries = []float64{0.005, 0.025, 0.1, 0.5, 1, 2.5, 5, 10, 30}

// Retrieval outcomes.
const (
	RetrievalGrounded = "grounded"
	RetrievalEmpty    = "empty"
	RetrievalDegraded = "degraded"
	RetrievalNoCorpus = "no_corpus"
)

// Generation outcomes.
const (
	GenerationSuccess     = "success"
	GenerationError       = "error"
	GenerationInvalidJSON = "invalid_json"
	GenerationStale       = "stale"
)

// Generation operations.
const (
	OperationRecommendation = "recommendation"
	OperationChat           = "chat"
)

// RetrievalMetrics records how a retrieval resolved and how many chunks it kept.
type RetrievalMetrics interface {
	RecordRetrieval(ctx context.Context, outcome string, chunks int)
}

// GenerationMetrics records text-generation calls by operation
// (recommendation, chat) and outcome.
type GenerationMetrics interface {
	RecordGeneration(ctx context.Context, operation, outcome string, duration time.Duration)
}

// CacheMetrics records cache lookups by cache name.
type CacheMetrics interface {
	RecordCacheHit(ctx context.Context, cache string)
	RecordCacheMiss(ctx context.Context, cache string)
}

// HTTPMetrics records served requests and rate-limit rejections.
type HTTPMetrics interface {
	RecordRequest(ctx context.Context, method, route, statusClass string, duration time.Duration)
	RecordRateLimited(ctx context.Context, route string)
}

// AdvisorMetrics is the full set of metrics the service records. Call sites
// accept the narrower interfaces and treat nil as disabled.
type AdvisorMetrics interface {
	RetrievalMetrics
	GenerationMetrics
	CacheMetrics
	HTTPMetrics
}

// MeterProviderShutdown is the subset of the SDK MeterProvider needed for shutdown.
type MeterProviderShutdown interface {
	Shutdown(ctx context.Context) error
}

// NewMeterProvider creates a MeterProvider backed by a private Prometheus
// registry and returns it with the /metrics handler and the instruments.
func NewMeterProvider(serviceName string) (MeterProviderShutdown, http.Handler, AdvisorMetrics, error) {
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
	)

	reg := prometheus.NewRegistry()
	exporter, err := prometheusexporter.New(prometheusexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
		sdkmetric.WithCardinalityLimit(cardinalityLimit),
		sdkmetric.WithView(
			sdkmetric.NewView(
				sdkmetric.Instrument{Name: "*_duration"},
				sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{Boundaries: latencyHistogramBoundaries}},
			),
		),
	)

	metrics, err := newMetricsFromMeter(mp.Meter(meterScope))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create metrics instruments: %w", err)
	}

	return mp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics, nil
}

type advisorMetricsImpl struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	rateLimited     metric.Int64Counter
	retrievals      metric.Int64Counter
	retrievedChunks metric.Int64Histogram
	generations     metric.Int64Counter
	generationDur   metric.Float64Histogram
	cacheHits       metric.Int64Counter
	cacheMisses     metric.Int64Counter
}

func newMetricsFromMeter(meter metric.Meter) (*advisorMetricsImpl, error) {
	var (
		m   advisorMetricsImpl
		err error
	)

	if m.requestCount, err = meter.Int64Counter("http_server_requests",
		metric.WithDescription("Total HTTP requests")); err != nil {
		return nil, fmt.Errorf("http_server_requests: %w", err)
	}
	if m.requestDuration, err = meter.Float64Histogram("http_server_duration",
		metric.WithDescription("HTTP request duration in seconds"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("http_server_duration: %w", err)
	}
	if m.rateLimited, err = meter.Int64Counter("http_rate_limited",
		metric.WithDescription("Requests rejected by the per-client rate limiter")); err != nil {
		return nil, fmt.Errorf("http_rate_limited: %w", err)
	}
	if m.retrievals, err = meter.Int64Counter("advisor_retrievals",
		metric.WithDescription("Context retrievals by outcome (grounded, empty, degraded, no_corpus)")); err != nil {
		return nil, fmt.Errorf("advisor_retrievals: %w", err)
	}
	if m.retrievedChunks, err = meter.Int64Histogram("advisor_retrieved_chunks",
		metric.WithDescription("Chunks kept per retrieval"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 3, 5, 10)); err != nil {
		return nil, fmt.Errorf("advisor_retrieved_chunks: %w", err)
	}
	if m.generations, err = meter.Int64Counter("advisor_generations",
		metric.WithDescription("Text generation calls by operation and outcome")); err != nil {
		return nil, fmt.Errorf("advisor_generations: %w", err)
	}
	if m.generationDur, err = meter.Float64Histogram("advisor_generation_duration",
		metric.WithDescription("Text generation latency in seconds"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("advisor_generation_duration: %w", err)
	}
	if m.cacheHits, err = meter.Int64Counter("advisor_cache_hits",
		metric.WithDescription("Cache lookups served from cache")); err != nil {
		return nil, fmt.Errorf("advisor_cache_hits: %w", err)
	}
	if m.cacheMisses, err = meter.Int64Counter("advisor_cache_misses",
		metric.WithDescription("Cache lookups that triggered a load")); err != nil {
		return nil, fmt.Errorf("advisor_cache_misses: %w", err)
	}

	return &m, nil
}

func (m *advisorMetricsImpl) RecordRequest(ctx context.Context, method, route, statusClass string, duration time.Duration) {
	m.requestCount.Add(ctx, 1, metric.WithAttributeSet(attribute.NewSet(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status_class", statusClass),
	)))
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributeSet(attribute.NewSet(
		attribute.String("method", method),
		attribute.String("route", route),
	)))
}

func (m *advisorMetricsImpl) RecordRateLimited(ctx context.Context, route string) {
	m.rateLimited.Add(ctx, 1, metric.WithAttributes(attribute.String("route", route)))
}

func (m *advisorMetricsImpl) RecordRetrieval(ctx context.Context, outcome string, chunks int) {
	outcome = normalizeRetrievalOutcome(outcome)
	m.retrievals.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	m.retrievedChunks.Record(ctx, int64(chunks))
}

func (m *advisorMetricsImpl) RecordGeneration(ctx context.Context, operation, outcome string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("operation", normalizeOperation(operation)),
		attribute.String("outcome", normalizeGenerationOutcome(outcome)),
	)
	m.generations.Add(ctx, 1, attrs)
	m.generationDur.Record(ctx, duration.Seconds(), attrs)
}

func (m *advisorMetricsImpl) RecordCacheHit(ctx context.Context, cache string) {
	m.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("cache", cache)))
}

func (m *advisorMetricsImpl) RecordCacheMiss(ctx context.Context, cache string) {
	m.cacheMisses.Add(ctx, 1, metric.WithAttributes(attribute.String("cache", cache)))
}

func normalizeRetrievalOutcome(s string) string {
	switch s {
	case RetrievalGrounded, RetrievalEmpty, RetrievalDegraded, RetrievalNoCorpus:
		return s
	default:
		return "unknown"
	}
}

func normalizeGenerationOutcome(s string) string {
	switch s {
	case GenerationSuccess, GenerationError, GenerationInvalidJSON, GenerationStale:
		return s
	default:
		return "unknown"
	}
}

func normalizeOperation(s string) string {
	switch s {
	case OperationRecommendation, OperationChat:
		return s
	default:
		return "unknown"
	}
}

// StatusClass buckets an HTTP status code as "2xx", "4xx" and so on.
func StatusClass(code int) string {
	if code < 100 || code > 599 {
		return "unknown"
	}
	return fmt.Sprintf("%dxx", code/100)
}
