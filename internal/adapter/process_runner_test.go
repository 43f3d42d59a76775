//go:build unix

package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "mutest.dev/pkg/mutest/internal/model"
)

func TestLocalProcessRunner_Run(t *testing.T) {
	runner := NewLocalProcessRunner()
	ctx := context.Background()

	t.Run("captures output and exit code", func(t *testing.T) {
		outcome := runner.Run(ctx, m.CommandLine{Path: "sh", Args: []string{"-c", "echo ok; echo oops 1>&2; exit 3"}}, 0)

		require.NoError(t, outcome.Err)
		assert.False(t, outcome.TimedOut)
		assert.Equal(t, 3, outcome.ExitCode)
		assert.Contains(t, outcome.Output, "ok")
		assert.Contains(t, outcome.Output, "oops")
	})

	t.Run("times out and kills the process group", func(t *testing.T) {
		start := time.Now()
		outcome := runner.Run(ctx, m.CommandLine{Path: "sh", Args: []string{"-c", "sleep 30 & wait"}}, 200*time.Millisecond)

		assert.True(t, outcome.TimedOut)
		assert.Less(t, time.Since(start), 10*time.Second)
	})

	t.Run("spawn failure is an error", func(t *testing.T) {
		outcome := runner.Run(ctx, m.CommandLine{Path: filepath.Join(t.TempDir(), "missing-binary")}, 0)

		require.Error(t, outcome.Err)
		assert.False(t, outcome.TimedOut)
	})

	t.Run("writes files before running", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "nested", "overlay.json")

		outcome := runner.Run(ctx, m.CommandLine{
			Path:  "cat",
			Args:  []string{target},
			Dir:   dir,
			Files: map[string][]byte{target: []byte(`{"Replace":{}}`)},
		}, 0)

		require.NoError(t, outcome.Err)
		assert.Equal(t, 0, outcome.ExitCode)
		assert.Equal(t, `{"Replace":{}}`, outcome.Output)

		_, err := os.Stat(target)
		require.NoError(t, err)
	})

	t.Run("cancelled parent is not a timeout", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		outcome := runner.Run(cancelled, m.CommandLine{Path: "sh", Args: []string{"-c", "exit 0"}}, time.Minute)

		assert.False(t, outcome.TimedOut)
		require.ErrorIs(t, outcome.Err, context.Canceled)
	})
}
