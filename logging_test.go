package fakevalues

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoadLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := ZapLoadLogger(zap.New(core))

	_, err := addressValues("fr", WithLoadLogger(logger)).Get("address")
	require.NoError(t, err)

	broken := New(NewLocatorDescriptor("en", "", "", FSLocator(fstest.MapFS{}, "gone.yml")), WithLoadLogger(logger))
	_, err = broken.Get("address")
	require.Error(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)

	loaded := entries[0]
	require.Equal(t, zapcore.DebugLevel, loaded.Level)
	require.Equal(t, "fakevalues", loaded.LoggerName)
	fields := loaded.ContextMap()
	require.Equal(t, "fr", fields["locale"])
	require.Equal(t, "fr/address.yml", fields["resource"])
	require.Equal(t, true, fields["found"])
	require.Equal(t, "address", fields["key"])

	failed := entries[1]
	require.Equal(t, zapcore.WarnLevel, failed.Level)
	require.Contains(t, failed.ContextMap()["error"], "gone.yml")
}

func TestZapLoggersAcceptNil(t *testing.T) {
	require.IsType(t, noopLoadLogger{}, ZapLoadLogger(nil))
	require.IsType(t, noopEvaluatorLogger{}, ZapEvaluatorLogger(nil))
}

func TestZapEvaluatorLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := ZapEvaluatorLogger(zap.New(core))

	logger.LogEvaluation(EvaluatorLogEvent{Engine: "expr", Expr: "color.name[0]", Locale: "en"})
	logger.LogEvaluation(EvaluatorLogEvent{Engine: "cel", Expr: "bad(", Locale: "fr", Err: errors.New("parse")})

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "expression evaluated", entries[0].Message)
	require.Equal(t, "expression failed", entries[1].Message)
	require.Equal(t, "cel", entries[1].ContextMap()["engine"])
}
