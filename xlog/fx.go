package xlog

import (
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// FxXLogger prints the fx lifecycle events by the xlogger.
// The successful events are debug logs, except the stop ones.
type FxXLogger struct {
	logger XLogger
}

func (l *FxXLogger) hook(kind string, function, caller string, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("function", function),
		zap.String("caller", caller),
	)
	if err != nil {
		l.logger.Error(err, "HOOK "+kind+" failed", fields...)
		return
	}
	if kind == "OnStop" {
		l.logger.Info("HOOK "+kind, fields...)
		return
	}
	l.logger.Debug("HOOK "+kind, fields...)
}

// types logs the output types of a provide, replace or decorate.
func (l *FxXLogger) types(kind, module string, typeNames []string, err error, stacktrace []string, fields ...zap.Field) {
	if module != "" {
		fields = append(fields, zap.String("module", module))
	}
	for _, rtype := range typeNames {
		l.logger.Debug(kind, append([]zap.Field{zap.String("rtype", rtype)}, fields...)...)
	}
	if err != nil {
		l.logger.Error(err, kind+" failed", zap.Strings("stacktrace", stacktrace))
	}
}

func (l *FxXLogger) LogEvent(event fxevent.Event) {
	if l == nil || l.logger == nil {
		return
	}

	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		l.hook("OnStart executing", e.FunctionName, e.CallerName, nil)
	case *fxevent.OnStartExecuted:
		l.hook("OnStart", e.FunctionName, e.CallerName, e.Err, zap.Duration("in", e.Runtime))
	case *fxevent.OnStopExecuting:
		l.hook("OnStop executing", e.FunctionName, e.CallerName, nil)
	case *fxevent.OnStopExecuted:
		l.hook("OnStop", e.FunctionName, e.CallerName, e.Err, zap.Duration("in", e.Runtime))
	case *fxevent.Supplied:
		l.types("SUPPLY", e.ModuleName, []string{e.TypeName}, e.Err, e.StackTrace)
	case *fxevent.Provided:
		l.types("PROVIDE", e.ModuleName, e.OutputTypeNames, e.Err, e.StackTrace,
			zap.String("constructor", e.ConstructorName),
			zap.Bool("private", e.Private),
		)
	case *fxevent.Replaced:
		l.types("REPLACE", e.ModuleName, e.OutputTypeNames, e.Err, e.StackTrace)
	case *fxevent.Decorated:
		l.types("DECORATE", e.ModuleName, e.OutputTypeNames, e.Err, e.StackTrace,
			zap.String("decorator", e.DecoratorName),
		)
	case *fxevent.Invoking:
		l.logger.Debug("INVOKING", zap.String("function", e.FunctionName), zap.String("module", e.ModuleName))
	case *fxevent.Invoked:
		if e.Err != nil {
			l.logger.Error(e.Err, "INVOKE failed",
				zap.String("function", e.FunctionName),
				zap.String("trace", e.Trace),
			)
		}
	case *fxevent.Stopping:
		l.logger.Info("STOPPING", zap.String("signal", e.Signal.String()))
	case *fxevent.Stopped:
		if e.Err != nil {
			l.logger.Error(e.Err, "STOP failed")
		}
	case *fxevent.RollingBack:
		l.logger.Warn("START failed, rolling back", zap.Error(e.StartErr))
	case *fxevent.RolledBack:
		if e.Err != nil {
			l.logger.Error(e.Err, "ROLLBACK failed")
		}
	case *fxevent.Started:
		if e.Err != nil {
			l.logger.Error(e.Err, "START failed")
		} else {
			l.logger.Debug("RUNNING")
		}
	case *fxevent.LoggerInitialized:
		if e.Err != nil {
			l.logger.Error(e.Err, "LOGGER initialize failed")
		} else {
			l.logger.Debug("LOGGER initialized", zap.String("constructor", e.ConstructorName))
		}
	default:
	}
}

func NewFxXLogger(logger XLogger) *FxXLogger {
	return &FxXLogger{logger: newComponentLogger(logger, "Fx")}
}
