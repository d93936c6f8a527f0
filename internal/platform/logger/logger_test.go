package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/pricewatch/pricewatch-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		wantErr  bool
	}{
		{"debug level", "debug", false},
		{"info level", "info", false},
		{"warn level", "warn", false},
		{"error level", "error", false},
		{"case insensitive", "INFO", false},
		{"invalid level", "verbose", true},
		{"empty level", "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			log, err := Setup(config.ServerConfig{Port: 8080, LogLevel: tt.logLevel})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, log)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, log)
		})
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// Without a stored logger, the default is returned.
	assert.Equal(t, slog.Default(), FromContext(ctx))

	stored := slog.Default().With("trace_id", "abc123")
	ctx = WithLogger(ctx, stored)
	assert.Same(t, stored, FromContext(ctx))
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fallback := slog.Default().With("component", "test")

	assert.Same(t, fallback, FromContextOrDefault(ctx, fallback))
	assert.Equal(t, slog.Default(), FromContextOrDefault(ctx, nil))

	stored := slog.Default().With("trace_id", "abc123")
	ctx = WithLogger(ctx, stored)
	assert.Same(t, stored, FromContextOrDefault(ctx, fallback))
}
