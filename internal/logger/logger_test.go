package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("Should return logger from context when present", func(t *testing.T) {
		l := New(Config{Level: "debug", Output: &bytes.Buffer{}})
		ctx := ContextWithLogger(context.Background(), l)

		assert.Same(t, l, FromContext(ctx))
	})

	t.Run("Should return default logger when context has none", func(t *testing.T) {
		require.NotNil(t, FromContext(context.Background()))
	})
}

func TestNew(t *testing.T) {
	t.Run("Should write JSON when enabled", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(Config{Level: "info", JSON: true, Output: &buf})
		l.Info("batch done", "size", 5)

		out := buf.String()
		assert.Contains(t, out, `"msg":"batch done"`)
		assert.Contains(t, out, `"size":5`)
	})

	t.Run("Should filter below configured level", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(Config{Level: "warn", Output: &buf})
		l.Info("hidden")
		l.Warn("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
}
