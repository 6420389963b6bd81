package fakevalues

import (
	"time"

	"go.uber.org/zap"
)

// LoadEvent describes one load attempt of a Values instance, or one resource
// skipped while probing.
type LoadEvent struct {
	LoadID   string
	Locale   string
	Resource string
	Key      string
	Found    bool
	Duration time.Duration
	Err      error
}

// LoadLogger records load events.
type LoadLogger interface {
	LogLoad(LoadEvent)
}

// LoadLoggerFunc adapts a function to LoadLogger.
type LoadLoggerFunc func(LoadEvent)

// LogLoad implements LoadLogger.
func (f LoadLoggerFunc) LogLoad(event LoadEvent) {
	if f != nil {
		f(event)
	}
}

type noopLoadLogger struct{}

func (noopLoadLogger) LogLoad(LoadEvent) {}

// EvaluatorLogEvent describes one expression evaluation.
type EvaluatorLogEvent struct {
	Engine   string
	Expr     string
	Locale   string
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records evaluation events.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvaluatorLogger struct{}

func (noopEvaluatorLogger) LogEvaluation(EvaluatorLogEvent) {}

// ZapLoadLogger writes load events to logger. Failures are logged at warn
// level, everything else at debug.
func ZapLoadLogger(logger *zap.Logger) LoadLogger {
	if logger == nil {
		return noopLoadLogger{}
	}
	return zapLoadLogger{logger: logger.Named("fakevalues")}
}

type zapLoadLogger struct {
	logger *zap.Logger
}

func (l zapLoadLogger) LogLoad(event LoadEvent) {
	fields := []zap.Field{
		zap.String("load_id", event.LoadID),
		zap.String("locale", event.Locale),
		zap.String("resource", event.Resource),
		zap.Bool("found", event.Found),
		zap.Duration("duration", event.Duration),
	}
	if event.Key != "" {
		fields = append(fields, zap.String("key", event.Key))
	}
	if event.Err != nil {
		l.logger.Warn("fake values load failed", append(fields, zap.Error(event.Err))...)
		return
	}
	l.logger.Debug("fake values loaded", fields...)
}

// ZapEvaluatorLogger writes evaluation events to logger.
func ZapEvaluatorLogger(logger *zap.Logger) EvaluatorLogger {
	if logger == nil {
		return noopEvaluatorLogger{}
	}
	named := logger.Named("fakevalues")
	return EvaluatorLoggerFunc(func(event EvaluatorLogEvent) {
		fields := []zap.Field{
			zap.String("engine", event.Engine),
			zap.String("expr", event.Expr),
			zap.String("locale", event.Locale),
			zap.Duration("duration", event.Duration),
		}
		if event.Err != nil {
			named.Warn("expression failed", append(fields, zap.Error(event.Err))...)
			return
		}
		named.Debug("expression evaluated", fields...)
	})
}
