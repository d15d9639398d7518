package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewLineHandler(&buf))

	logger.Info("OS Version: Linux 6.1")
	logger.Debug("dropped")
	logger.Warn("requirements.txt not found", "skipped", true)
	logger.With("run", 2).WithGroup("gpu").Info("probe", "present", false)

	assert.Equal(t,
		"OS Version: Linux 6.1\n"+
			"WARN: requirements.txt not found skipped=true\n"+
			"probe run=2 gpu.present=false\n",
		buf.String())
}

func TestCreateFileTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagnostics.log")

	for _, msg := range []string{"first run with a long line", "second"} {
		f, err := CreateFile(path)
		require.NoError(t, err)
		slog.New(NewLineHandler(f)).Info(msg)
		require.NoError(t, f.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data))
}

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Output: &buf}).Info("hidden")
	assert.Empty(t, buf.String())

	New(Config{Output: &buf, Debug: true}).Debug("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}
