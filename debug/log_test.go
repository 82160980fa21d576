package debug

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogWritesOnlyWhenEnabled(t *testing.T) {
	Log("riff", "dropped %d", 1)

	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	require.NoError(t, Enable(path))
	t.Cleanup(Disable)
	assert.True(t, Enabled())

	Log("sweep", "file=%s drive=%d", "a.wav", 50)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sweep")
	assert.Contains(t, string(data), "file=a.wav drive=50")
	assert.NotContains(t, string(data), "dropped")
}
