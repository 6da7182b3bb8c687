package xlog

import (
	"go.uber.org/zap/zapcore"
)

// AntsXLogger prints the ants pool logs, mostly the recovered worker
// panics, at the error level.
type AntsXLogger struct {
	logger XLogger
}

func (l *AntsXLogger) Printf(format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Logf(zapcore.ErrorLevel, format, args...)
}

func NewAntsXLogger(logger XLogger) *AntsXLogger {
	return &AntsXLogger{
		logger: newComponentLogger(logger, "Ants"),
	}
}
