package main

import (
	"context"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xrbtree/lib/tree"
	"github.com/benz9527/xrbtree/observability"
	"github.com/benz9527/xrbtree/xlog"
)

type banner struct{}

func (banner) JSON() string {
	return `{"app":"xrbtree"}`
}

func (banner) PlainText() string {
	return `
██╗  ██╗██████╗ ██████╗ ████████╗██████╗ ███████╗███████╗
╚██╗██╔╝██╔══██╗██╔══██╗╚══██╔══╝██╔══██╗██╔════╝██╔════╝
 ╚███╔╝ ██████╔╝██████╔╝   ██║   ██████╔╝█████╗  █████╗
 ██╔██╗ ██╔══██╗██╔══██╗   ██║   ██╔══██╗██╔══╝  ██╔══╝
██╔╝ ██╗██║  ██║██████╔╝   ██║   ██║  ██║███████╗███████╗
╚═╝  ╚═╝╚═╝  ╚═╝╚═════╝    ╚═╝   ╚═╝  ╚═╝╚══════╝╚══════╝
`
}

func newXLogger(cfg *config) xlog.XLogger {
	logger := xlog.NewXLogger(cfg.logOpts...)
	logger.Banner(banner{})
	return logger
}

// newMetrics installs the global meter provider before any tree is built.
func newMetrics(lc fx.Lifecycle, cfg *config, outs outputs, logger xlog.XLogger) (observability.Shutdown, error) {
	var (
		shutdown observability.Shutdown
		gatherer promclient.Gatherer
		err      error
	)
	switch cfg.metrics {
	case observability.ConsoleMetricsExporter:
		shutdown, err = observability.NewConsoleMetricsExporter(
			10*time.Second,
			5*time.Second,
			stdoutmetric.WithWriter(outs.metricsOut),
		)
	case observability.PrometheusMetricsExporter:
		reg := promclient.NewRegistry()
		gatherer = reg
		shutdown, err = observability.NewPrometheusMetricsExporter(reg)
	default:
		return func(context.Context) error { return nil }, nil
	}
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err = observability.InitAppStats(ctx, "driver", nil); err != nil {
		logger.ErrorStack(err, "runtime stats disabled")
	}
	lc.Append(fx.StopHook(func(ctx context.Context) error {
		defer cancel()
		var err error
		if gatherer != nil {
			err = writeMetrics(gatherer, outs)
		}
		return multierr.Append(err, shutdown(ctx))
	}))
	logger.Info("metrics exporter started", zap.String("exporter", string(cfg.metrics)))
	return shutdown, nil
}

func writeMetrics(gatherer promclient.Gatherer, outs outputs) error {
	families, err := gatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, e := expfmt.MetricFamilyToText(outs.metricsOut, mf); e != nil {
			err = multierr.Append(err, e)
		}
	}
	return err
}

// newRBSet depends on the metrics to register the tree stats on the
// installed meter provider.
func newRBSet(cfg *config, _ observability.Shutdown) tree.RBSet[int64] {
	return tree.NewRBSet[int64](true, cfg.treeOpts()...)
}

func newProbePool(lc fx.Lifecycle, cfg *config, logger xlog.XLogger) (*ants.Pool, error) {
	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Logf(zapcore.DebugLevel, format, args...)
	}))
	if err != nil {
		logger.ErrorStack(err, "maxprocs set failed")
	}
	size := cfg.workers
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	pool, err := ants.NewPool(size,
		ants.WithPreAlloc(true),
		ants.WithLogger(xlog.NewAntsXLogger(logger)),
	)
	if err != nil {
		undo()
		return nil, err
	}
	lc.Append(fx.StopHook(func() {
		pool.Release()
		undo()
	}))
	return pool, nil
}

func newScenario(cfg *config, set tree.RBSet[int64], pool *ants.Pool, logger xlog.XLogger, outs outputs) *scenario {
	return &scenario{
		cfg:    cfg,
		set:    set,
		pool:   pool,
		logger: logger,
		out:    outs.out,
	}
}

func runScenario(lc fx.Lifecycle, s *scenario) {
	lc.Append(fx.StartHook(s.Run))
}

func newApp(cfg *config, outs outputs) *fx.App {
	return fx.New(
		fx.Supply(cfg, outs),
		fx.Provide(
			newXLogger,
			newMetrics,
			newRBSet,
			newProbePool,
			newScenario,
		),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Invoke(runScenario),
	)
}

func run(ctx context.Context, cfg *config, outs outputs) error {
	app := newApp(cfg, outs)
	if err := app.Err(); err != nil {
		return err
	}
	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	stopCtx, cancel := context.WithTimeout(ctx, app.StopTimeout())
	defer cancel()
	return app.Stop(stopCtx)
}
