package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext_FromContext(t *testing.T) {
	t.Run("stores and retrieves logger", func(t *testing.T) {
		base := zap.NewNop()
		ctx := WithContext(context.Background(), base)

		got := FromContext(ctx)
		assert.Same(t, base, got)
	})

	t.Run("returns no-op logger when missing", func(t *testing.T) {
		got := FromContext(context.Background())
		assert.NotNil(t, got)
	})
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx, enriched := WithRequestID(context.Background(), base, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))

	enriched.Info("hello")
	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
}

func TestWithActorID(t *testing.T) {
	ctx, _ := WithActorID(context.Background(), zap.NewNop(), "user-9")
	assert.Equal(t, "user-9", GetActorID(ctx))
}

func TestContextLogger_InjectsContextFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-42")
	ctx = context.WithValue(ctx, ActorIDKey, "user-7")
	ctx = WithContext(ctx, base)

	L(ctx).Info("stock applied")

	entries := logs.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "user-7", fields["actor_id"])
}

func TestContextLogger_WithLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	WithLogger(context.Background(), base).Info("plain entry")

	assert.Len(t, logs.All(), 1)
}
