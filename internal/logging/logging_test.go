package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aboutme.log")

	logger, err := New(false, path)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("Submission accepted")
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	assert.True(t, strings.Contains(out, `"msg":"Submission accepted"`), out)
	assert.False(t, strings.Contains(out, "hidden"))
}

func TestNewVerbose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aboutme.log")

	logger, err := New(true, path)
	require.NoError(t, err)
	logger.Debug("visible")
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "visible")
}
