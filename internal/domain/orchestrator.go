package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"mutest.dev/pkg/mutest/internal/adapter"
	m "mutest.dev/pkg/mutest/internal/model"
)

// maxResultOutput bounds the test output kept on a result.
const maxResultOutput = 16 * 1024

// OrchestratorOptions configure how mutants are executed.
type OrchestratorOptions struct {
	// ProjectRoot is the directory holding go.mod (or the framework config).
	ProjectRoot m.Path
	// ConfigPath is passed through to the framework.
	ConfigPath string
	// ExtraOptions are appended to every mutant run.
	ExtraOptions []string
}

// Orchestrator runs the test suite against one mutant in an isolated
// workspace and classifies the outcome.
type Orchestrator interface {
	// TestMutant returns the classified result. The error is non-nil only
	// when ctx ended before the mutant could be judged; the caller should
	// then record the mutant as Ignored.
	TestMutant(ctx context.Context, mutant m.Mutant, timeout time.Duration) (m.Result, error)
}

type orchestrator struct {
	fsAdapter adapter.SourceFSAdapter
	runner    adapter.ProcessRunner
	framework adapter.TestFrameworkAdapter
	opts      OrchestratorOptions
}

// NewOrchestrator constructs an Orchestrator backed by the provided
// filesystem, process and framework adapters.
func NewOrchestrator(
	fsAdapter adapter.SourceFSAdapter,
	runner adapter.ProcessRunner,
	framework adapter.TestFrameworkAdapter,
	opts OrchestratorOptions,
) Orchestrator {
	return &orchestrator{
		fsAdapter: fsAdapter,
		runner:    runner,
		framework: framework,
		opts:      opts,
	}
}

type goOverlay struct {
	Replace map[string]string
}

func (o *orchestrator) TestMutant(ctx context.Context, mutant m.Mutant, timeout time.Duration) (m.Result, error) {
	if err := ctx.Err(); err != nil {
		return m.Result{}, err
	}

	result := m.NewResult(mutant.Site, m.Running)
	result.Mutated = mutant.Mutated
	result.Diff = string(mutant.Diff)

	if mutant.Site.Source.Origin == nil {
		return o.failed(result, errors.New("mutant has no source file")), nil
	}

	tmpDir, err := o.fsAdapter.CreateTempDir(ctx, "mutest-mutant-*")
	if err != nil {
		slog.Error("Failed to create temp dir", "error", err)
		return o.failed(result, fmt.Errorf("create temp dir: %w", err)), nil
	}

	defer o.cleanup(ctx, tmpDir)

	cmd, err := o.prepare(ctx, mutant, tmpDir)
	if err != nil {
		return o.failed(result, err), nil
	}

	slog.Debug("Running mutant", "id", mutant.Site.ID, "mutator", mutant.Site.Mutator, "command", cmd.String())

	outcome := o.runner.Run(ctx, cmd, timeout)
	if ctx.Err() != nil && !outcome.TimedOut {
		return m.Result{}, ctx.Err()
	}

	result.Status = Classify(o.framework, outcome)
	result.Elapsed = outcome.Elapsed
	result.Output = truncateOutput(outcome.Output)
	result.MemoryMB = o.framework.MemoryUsed(outcome.Output)

	if result.MemoryMB < 0 && outcome.PeakMemoryMB > 0 {
		result.MemoryMB = outcome.PeakMemoryMB
	}

	if outcome.Err != nil {
		result.Error = outcome.Err.Error()
	}

	slog.Debug("Mutant classified", "id", mutant.Site.ID, "status", result.Status, "elapsed", result.Elapsed)

	return result, nil
}

// prepare lays out the mutant workspace for the framework's isolation mode
// and returns the command that tests it.
func (o *orchestrator) prepare(ctx context.Context, mutant m.Mutant, tmpDir m.Path) (m.CommandLine, error) {
	source := mutant.Site.Source.Origin.FullPath

	rel, err := o.fsAdapter.RelPath(ctx, o.opts.ProjectRoot, source)
	if err != nil {
		slog.Error("Failed to get relative source path", "projectRoot", o.opts.ProjectRoot, "sourcePath", source, "error", err)
		return m.CommandLine{}, fmt.Errorf("relative source path: %w", err)
	}

	run := adapter.MutantRun{
		WorkDir:      string(o.opts.ProjectRoot),
		ConfigPath:   o.opts.ConfigPath,
		ExtraOptions: o.opts.ExtraOptions,
		Packages:     mutant.Site.Packages,
		Tests:        mutant.Site.Tests,
	}

	if o.framework.Isolation() == adapter.IsolationCopy {
		if err := o.fsAdapter.CopyDir(ctx, o.opts.ProjectRoot, tmpDir); err != nil {
			slog.Error("Failed to copy project to temp dir", "projectRoot", o.opts.ProjectRoot, "tmpDir", tmpDir, "error", err)
			return m.CommandLine{}, fmt.Errorf("copy project: %w", err)
		}

		target := o.fsAdapter.JoinPath(string(tmpDir), string(rel))
		if err := o.fsAdapter.WriteFile(ctx, target, mutant.Code, 0o600); err != nil {
			slog.Error("Failed to write mutated file", "path", target, "error", err)
			return m.CommandLine{}, fmt.Errorf("write mutated file: %w", err)
		}

		run.WorkDir = string(tmpDir)

		return o.framework.BuildMutantRunCommand(run), nil
	}

	mutantPath := o.fsAdapter.JoinPath(string(tmpDir), filepath.Base(string(source)))
	overlayPath := o.fsAdapter.JoinPath(string(tmpDir), "overlay.json")

	overlay, err := json.Marshal(goOverlay{Replace: map[string]string{string(source): string(mutantPath)}})
	if err != nil {
		return m.CommandLine{}, fmt.Errorf("encode overlay: %w", err)
	}

	run.OverlayPath = string(overlayPath)

	cmd := o.framework.BuildMutantRunCommand(run)
	cmd.Files = map[string][]byte{
		string(mutantPath):  mutant.Code,
		string(overlayPath): overlay,
	}

	return cmd, nil
}

func (o *orchestrator) failed(result m.Result, err error) m.Result {
	result.Status = m.Error
	result.Error = err.Error()

	return result
}

func (o *orchestrator) cleanup(ctx context.Context, tmpDir m.Path) {
	if err := o.fsAdapter.RemoveAll(context.WithoutCancel(ctx), tmpDir); err != nil {
		slog.Warn("Failed to remove temp dir", "path", tmpDir, "error", err)
	}
}

func truncateOutput(output string) string {
	if len(output) <= maxResultOutput {
		return output
	}

	return "...\n" + output[len(output)-maxResultOutput:]
}
