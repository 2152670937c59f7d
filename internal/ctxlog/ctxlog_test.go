// SPDX-License-Identifier: MIT

package ctxlog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/katalvlaran/foodweb/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	got := ctxlog.FromContext(ctx)
	require.Same(t, logger, got)
	got.Info("hello", "web", "Weddell Sea")
	assert.Contains(t, buf.String(), "web=\"Weddell Sea\"")
}

func TestFromContext_NoLogger(t *testing.T) {
	t.Parallel()

	l := ctxlog.FromContext(context.Background())
	require.NotNil(t, l)
	assert.NotPanics(t, func() { l.Warn("dropped") })
}
