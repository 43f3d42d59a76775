package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	m "mutest.dev/pkg/mutest/internal/model"
)

// waitDelay bounds how long Wait blocks on pipes after the process is killed.
const waitDelay = 5 * time.Second

// ProcessRunner executes a test command line under supervision.
type ProcessRunner interface {
	// Run writes cmd.Files, starts the process and waits for it.
	// A zero timeout means no per-process bound. Spawn failures are reported
	// in Outcome.Err; a non-zero exit status is not an error.
	Run(ctx context.Context, cmd m.CommandLine, timeout time.Duration) m.Outcome
}

// LocalProcessRunner runs commands with os/exec in their own process group.
type LocalProcessRunner struct{}

// NewLocalProcessRunner constructs a LocalProcessRunner.
func NewLocalProcessRunner() *LocalProcessRunner {
	return &LocalProcessRunner{}
}

// Run implements ProcessRunner.
func (r *LocalProcessRunner) Run(ctx context.Context, cmdLine m.CommandLine, timeout time.Duration) m.Outcome {
	if err := writeCommandFiles(cmdLine.Files); err != nil {
		slog.Error("Failed to write command files", "command", cmdLine.String(), "error", err)
		return m.Outcome{ExitCode: -1, PeakMemoryMB: -1, Err: err}
	}

	runCtx := ctx
	cancel := func() {}

	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
	}

	defer cancel()

	// #nosec G204 - the command line is built by a test framework adapter
	cmd := exec.CommandContext(runCtx, cmdLine.Path, cmdLine.Args...)
	cmd.Dir = cmdLine.Dir
	cmd.Env = append(os.Environ(), cmdLine.Env...)
	cmd.WaitDelay = waitDelay

	var output lockedBuffer

	cmd.Stdout = &output
	cmd.Stderr = &output

	configureProcessGroup(cmd)

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	outcome := m.Outcome{
		Output:       output.String(),
		ExitCode:     -1,
		Elapsed:      elapsed,
		PeakMemoryMB: peakMemoryMB(cmd.ProcessState),
	}

	if cmd.ProcessState != nil {
		outcome.ExitCode = cmd.ProcessState.ExitCode()
	}

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		outcome.TimedOut = true
	case ctx.Err() != nil:
		outcome.Err = ctx.Err()
	case err != nil:
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			slog.Debug("Failed to start process", "command", cmdLine.String(), "error", err)
			outcome.Err = fmt.Errorf("run %s: %w", cmdLine.Path, err)
		}
	}

	return outcome
}

func writeCommandFiles(files map[string][]byte) error {
	for path, content := range files {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("create dir for %s: %w", path, err)
		}

		if err := os.WriteFile(path, content, 0o600); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	return nil
}

// lockedBuffer lets stdout and stderr share one buffer.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}
