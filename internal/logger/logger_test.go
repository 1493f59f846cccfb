package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextCarriesAttributes(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "debug", true)
	t.Cleanup(func() { Init("info", false) })

	ctx := NewContext(context.Background(), "request_id", "abc")
	ctx = NewContext(ctx, "route", "/todos")
	WithContext(ctx).Info("handled")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "handled", rec["msg"])
	assert.Equal(t, "abc", rec["request_id"])
	assert.Equal(t, "/todos", rec["route"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "warn", false)
	t.Cleanup(func() { Init("info", false) })

	Info("dropped")
	assert.Zero(t, buf.Len())

	Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}
