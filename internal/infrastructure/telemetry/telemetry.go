package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "github.com/easayliu/mirror-status-bot"

// Config 指标配置
type Config struct {
	Enabled bool
}

// Sources 可观测指标的数据来源, 在每次抓取时调用
type Sources struct {
	TaskCounts func() map[string]int
	Throughput func() (download, upload float64)
}

// Telemetry 持有所有指标
// 未启用时所有记录方法都是空操作
type Telemetry struct {
	provider *sdkmetric.MeterProvider
	registry *promclient.Registry
	meter    metric.Meter

	commandsTotal       metric.Int64Counter
	callbacksTotal      metric.Int64Counter
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram
}

// New 创建指标, 使用独立的 prometheus registry
func New(cfg Config, src Sources) (*Telemetry, error) {
	if !cfg.Enabled {
		return &Telemetry{}, nil
	}

	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(
		prometheus.WithRegisterer(registry),
		prometheus.WithoutUnits(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	t := &Telemetry{
		provider: provider,
		registry: registry,
		meter:    provider.Meter(meterName),
	}

	if err := t.initCounters(); err != nil {
		return nil, err
	}
	if err := t.initGauges(src); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Telemetry) initCounters() error {
	var err error

	t.commandsTotal, err = t.meter.Int64Counter(
		"telegram_commands_total",
		metric.WithDescription("Telegram commands handled"),
	)
	if err != nil {
		return fmt.Errorf("failed to create telegram_commands_total counter: %w", err)
	}

	t.callbacksTotal, err = t.meter.Int64Counter(
		"telegram_callbacks_total",
		metric.WithDescription("Telegram callback queries handled"),
	)
	if err != nil {
		return fmt.Errorf("failed to create telegram_callbacks_total counter: %w", err)
	}

	t.httpRequestsTotal, err = t.meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	t.httpRequestDuration, err = t.meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http_request_duration histogram: %w", err)
	}

	return nil
}

func (t *Telemetry) initGauges(src Sources) error {
	if src.TaskCounts != nil {
		_, err := t.meter.Int64ObservableGauge(
			"mirror_tasks",
			metric.WithDescription("Tasks in the registry by status"),
			metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
				for status, n := range src.TaskCounts() {
					o.Observe(int64(n), metric.WithAttributes(attribute.String("status", status)))
				}
				return nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to create mirror_tasks gauge: %w", err)
		}
	}

	if src.Throughput != nil {
		_, err := t.meter.Float64ObservableGauge(
			"mirror_throughput_bytes_per_second",
			metric.WithDescription("Aggregated transfer speed"),
			metric.WithFloat64Callback(func(_ context.Context, o metric.Float64Observer) error {
				download, upload := src.Throughput()
				o.Observe(download, metric.WithAttributes(attribute.String("direction", "download")))
				o.Observe(upload, metric.WithAttributes(attribute.String("direction", "upload")))
				return nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to create mirror_throughput gauge: %w", err)
		}
	}

	return nil
}

// RecordCommand 记录一次命令处理
func (t *Telemetry) RecordCommand(command, status string) {
	if t.commandsTotal == nil {
		return
	}
	t.commandsTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("command", command),
		attribute.String("status", status),
	))
}

// RecordCallback 记录一次回调处理
func (t *Telemetry) RecordCallback(action string) {
	if t.callbacksTotal == nil {
		return
	}
	t.callbacksTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("action", action),
	))
}

// RecordHTTPRequest 记录HTTP请求
func (t *Telemetry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if t.httpRequestsTotal == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.String("status", status),
	)
	t.httpRequestsTotal.Add(context.Background(), 1, attrs)
	t.httpRequestDuration.Record(context.Background(), duration.Seconds(), attrs)
}

// Handler /metrics 处理器
func (t *Telemetry) Handler() http.Handler {
	if t.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}

// Shutdown 关闭指标
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
