package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		wantMode string
		wantErr  bool
	}{
		{name: "empty_mode_is_debug", mode: "", wantMode: ModeDebug},
		{name: "debug_mode", mode: ModeDebug, wantMode: ModeDebug},
		{name: "prod_mode", mode: ModeProduction, wantMode: ModeProduction},
		{name: "unknown_mode", mode: "staging", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, mode, err := Build(tt.mode, "")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
			assert.Equal(t, tt.wantMode, mode)
		})
	}
}

func TestContextFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	ctx := NewContextS(context.Background(), "request_id", "abc")
	detached := CopyContext(ctx, context.Background())
	FromContextS(detached).Info("hello")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "hello", entry.Message)
	assert.Equal(t, "abc", entry.ContextMap()["request_id"])
}

func TestFromContext_fallsBackToGlobal(t *testing.T) {
	SetLogger(nil)
	assert.NotNil(t, FromContext(context.Background()))
}
