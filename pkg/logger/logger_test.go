package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureRejectsUnknownLevel(t *testing.T) {
	err := Configure(Options{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestConfigureReplacesGlobal(t *testing.T) {
	before := Global
	require.NoError(t, Configure(Options{Level: "debug", Format: "json"}))
	t.Cleanup(func() { _ = Configure(Options{Level: "info"}) })

	assert.NotSame(t, before, Global)
	Global.Debug("configured %s", "ok")
}

func TestScopedLogger(t *testing.T) {
	l := New("owner-1")
	assert.Equal(t, "owner-1", l.scope)

	child := l.With("item", "milk")
	assert.Equal(t, "owner-1", child.scope)
	child.Info("consumed %d ml", 150)
}
