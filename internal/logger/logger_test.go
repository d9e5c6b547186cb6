package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_AddsRequestAndUserID(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)

	ctx := WithUserID(WithRequestID(context.Background(), "req-1"), "user-1")
	CtxWithError(ctx, "boom", errors.New("cause"), "path", "/contacts")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "user-1", entry["user_id"])
	assert.Equal(t, "cause", entry["error"])
	assert.Equal(t, "/contacts", entry["path"])
}

func TestFromContext_EmptyContext(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)

	CtxInfo(context.Background(), "plain")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "request_id")
	assert.NotContains(t, entry, "user_id")
}
