package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpersAreNoOpsBeforeInit(t *testing.T) {
	Logger = nil
	Debug("x")
	Info("x", "k", "v")
	Warn("x")
	Error("x")
}

func TestInit_WritesRotatingFile(t *testing.T) {
	t.Cleanup(func() { Logger = nil })
	dir := t.TempDir()

	require.NoError(t, Init(Config{Level: "info", Dir: dir}))
	Info("hello", "user", "u1")

	data, err := os.ReadFile(filepath.Join(dir, "tracker-agent.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "user=u1")
}

func TestInit_RejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Init(Config{Level: "loud"}))
}
