package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"errors"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"

	"github.com/benz9527/xrbtree/lib/infra"
)

type MetricsExporterType string

const (
	NoneMetricsExporter       MetricsExporterType = "none"
	ConsoleMetricsExporter    MetricsExporterType = "console"
	PrometheusMetricsExporter MetricsExporterType = "prometheus"
)

var ErrUnknownMetricsExporter = errors.New("[observability] unknown metrics exporter")

func ParseMetricsExporterType(typ string) (MetricsExporterType, error) {
	switch t := MetricsExporterType(strings.ToLower(strings.TrimSpace(typ))); t {
	case "":
		return NoneMetricsExporter, nil
	case NoneMetricsExporter, ConsoleMetricsExporter, PrometheusMetricsExporter:
		return t, nil
	default:
	}
	return NoneMetricsExporter, infra.WrapErrorStackWithMessage(ErrUnknownMetricsExporter, typ)
}

// Shutdown flushes and stops the meter provider.
type Shutdown func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// NewConsoleMetricsExporter serves for test/dev environment. The meter
// provider becomes the global one, the last collection is exported by
// the shutdown.
func NewConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (Shutdown, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// NewPrometheusMetricsExporter serves for the product environment, the
// stats are gathered from reg (the prometheus default registerer if nil).
func NewPrometheusMetricsExporter(reg promclient.Registerer) (Shutdown, error) {
	opts := make([]prometheus.Option, 0, 1)
	if reg != nil {
		opts = append(opts, prometheus.WithRegisterer(reg))
	}
	exporter, err := prometheus.New(opts...)
	if err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}
