package logging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core), "api")

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithUserID(ctx, "usr-1")

	l.WithContext(ctx).WithError(errors.New("boom")).WithDuration(1500*time.Microsecond).Info("done")

	entries := logs.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "api", fields["component"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "usr-1", fields["user_id"])
	assert.Equal(t, "boom", fields["error"])
	assert.Equal(t, 1.5, fields["duration_ms"])
}

func TestWithContextEmpty(t *testing.T) {
	l := Nop()
	assert.Same(t, l, l.WithContext(context.Background()))
	assert.Same(t, l, l.WithError(nil))
	assert.Equal(t, "", RequestID(context.Background()))
}

func TestNamed(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := FromZap(zap.New(core), "").Named("offer")
	assert.Equal(t, "offer", l.Component())

	l.Debug("hidden")
	l.Warn("shown")
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, "offer", logs.All()[0].ContextMap()["component"])
}
