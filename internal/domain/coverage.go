package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"

	"mutest.dev/pkg/mutest/internal/adapter"
	m "mutest.dev/pkg/mutest/internal/model"
)

// ErrBaselineFailed is returned when the unmutated test suite does not pass.
var ErrBaselineFailed = errors.New("baseline test run failed")

const (
	coverProfileName = "mutest.cover.out"

	// Mutant timeouts are derived from the baseline as factor*base + padding.
	timeoutFactor  = 3
	timeoutPadding = 10 * time.Second
)

// BaselineArgs configure the initial, unmutated test run.
type BaselineArgs struct {
	ProjectRoot m.Path
	ConfigPath  string
	// ExtraOptions are passed to every run of the framework.
	ExtraOptions []string
	// InitialOptions are passed to the initial run only.
	InitialOptions []string
	Packages       []string
	// Coverage collects line coverage while the baseline runs.
	Coverage bool
	// PerTest reruns each listed test with its own profile to learn which
	// tests cover which lines.
	PerTest bool
	// ProfilePath keeps the baseline cover profile; empty uses a temp file.
	ProfilePath m.Path
	Parallel    int
	Timeout     time.Duration
}

// Baseline is what the initial run teaches about the project.
type Baseline struct {
	Outcome m.Outcome
	// Coverage is nil when coverage was not collected.
	Coverage *m.Coverage
	// Timings holds per-test durations when the framework reports them.
	Timings map[string]time.Duration
}

// MutantTimeout derives a per-mutant timeout from the baseline. When tests
// are known only their recorded durations count.
func (b Baseline) MutantTimeout(tests []string) time.Duration {
	base := b.Outcome.Elapsed

	if len(tests) > 0 && len(b.Timings) > 0 {
		var sum time.Duration

		known := true

		for _, test := range tests {
			d, ok := b.Timings[test]
			if !ok {
				known = false
				break
			}

			sum += d
		}

		if known {
			base = sum
		}
	}

	return base*timeoutFactor + timeoutPadding
}

// CoverageCollector runs the baseline and gathers coverage and timings.
type CoverageCollector interface {
	Collect(ctx context.Context, args BaselineArgs) (Baseline, error)
}

type coverageCollector struct {
	fsAdapter       adapter.SourceFSAdapter
	runner          adapter.ProcessRunner
	framework       adapter.TestFrameworkAdapter
	coverageAdapter adapter.CoverageAdapter
}

// NewCoverageCollector constructs a CoverageCollector.
func NewCoverageCollector(
	fsAdapter adapter.SourceFSAdapter,
	runner adapter.ProcessRunner,
	framework adapter.TestFrameworkAdapter,
	coverageAdapter adapter.CoverageAdapter,
) CoverageCollector {
	return &coverageCollector{
		fsAdapter:       fsAdapter,
		runner:          runner,
		framework:       framework,
		coverageAdapter: coverageAdapter,
	}
}

func (c *coverageCollector) Collect(ctx context.Context, args BaselineArgs) (Baseline, error) {
	coverage := args.Coverage
	if coverage && !c.writesProfiles() {
		slog.Warn("Framework does not write cover profiles, coverage disabled", "framework", c.framework.Name())

		coverage = false
	}

	tmpDir, err := c.fsAdapter.CreateTempDir(ctx, "mutest-baseline-*")
	if err != nil {
		slog.Error("Failed to create temp dir", "error", err)
		return Baseline{}, fmt.Errorf("create temp dir: %w", err)
	}

	defer func() {
		if err := c.fsAdapter.RemoveAll(context.WithoutCancel(ctx), tmpDir); err != nil {
			slog.Warn("Failed to remove temp dir", "path", tmpDir, "error", err)
		}
	}()

	profile := ""
	if coverage {
		profile = string(args.ProfilePath)
		if profile == "" {
			profile = string(c.fsAdapter.JoinPath(string(tmpDir), coverProfileName))
		}
	}

	run := c.initialRun(args, profile, nil)
	run.ReportDir = string(tmpDir)

	cmd := c.framework.BuildInitialRunCommand(ctx, run)
	slog.Info("Running baseline tests", "command", cmd.String())

	outcome := c.runner.Run(ctx, cmd, args.Timeout)
	if err := c.checkOutcome(outcome); err != nil {
		return Baseline{}, err
	}

	baseline := Baseline{Outcome: outcome}

	if reporter, ok := c.framework.(adapter.JUnitReporter); ok {
		report, err := adapter.ReadJUnitReport(reporter.JUnitReportPath(string(tmpDir)))
		if err != nil {
			slog.Error("Failed to read baseline report", "error", err)
			return Baseline{}, fmt.Errorf("read baseline report: %w", err)
		}

		baseline.Timings = report.Timings()
	}

	if !coverage {
		return baseline, nil
	}

	baseline.Coverage = m.NewCoverage()

	if err := c.coverageAdapter.LoadProfile(ctx, m.Path(profile), args.ProjectRoot, m.TestRef{}, baseline.Coverage); err != nil {
		slog.Error("Failed to load cover profile", "profile", profile, "error", err)
		return Baseline{}, fmt.Errorf("load cover profile: %w", err)
	}

	if args.PerTest {
		if err := c.collectPerTest(ctx, args, tmpDir, baseline.Coverage); err != nil {
			return Baseline{}, err
		}
	}

	return baseline, nil
}

func (c *coverageCollector) writesProfiles() bool {
	writer, ok := c.framework.(adapter.CoverageProfileWriter)
	return ok && writer.WritesCoverProfile()
}

func (c *coverageCollector) initialRun(args BaselineArgs, profile string, extra []string) adapter.InitialRun {
	return adapter.InitialRun{
		WorkDir:           string(args.ProjectRoot),
		ConfigPath:        args.ConfigPath,
		ExtraOptions:      append(append([]string(nil), args.ExtraOptions...), extra...),
		IncludeRunnerArgs: len(args.InitialOptions) > 0,
		RunnerArgs:        args.InitialOptions,
		CoverProfile:      profile,
		Packages:          args.Packages,
	}
}

func (c *coverageCollector) checkOutcome(outcome m.Outcome) error {
	switch {
	case outcome.TimedOut:
		return fmt.Errorf("%w: timed out after %s", ErrBaselineFailed, outcome.Elapsed)
	case outcome.Err != nil:
		return fmt.Errorf("%w: %w", ErrBaselineFailed, outcome.Err)
	case !c.framework.Recognizes(outcome.Output) || !c.framework.TestsPass(outcome.Output):
		slog.Error("Baseline tests failed", "exitCode", outcome.ExitCode, "output", truncateOutput(outcome.Output))
		return fmt.Errorf("%w: tests must pass before mutation testing (exit code %d)", ErrBaselineFailed, outcome.ExitCode)
	default:
		return nil
	}
}

// collectPerTest reruns every listed test alone, inside its own package, with
// its own profile. A test whose rerun fails keeps only the baseline attribution.
func (c *coverageCollector) collectPerTest(ctx context.Context, args BaselineArgs, tmpDir m.Path, into *m.Coverage) error {
	lister, ok := c.framework.(adapter.TestLister)
	if !ok {
		slog.Warn("Framework cannot list tests, per-test coverage disabled", "framework", c.framework.Name())
		return nil
	}

	listOutcome := c.runner.Run(ctx, lister.BuildListCommand(string(args.ProjectRoot), args.Packages), args.Timeout)
	if listOutcome.Err != nil || listOutcome.TimedOut {
		slog.Error("Failed to list tests", "error", listOutcome.Err, "timedOut", listOutcome.TimedOut)
		return fmt.Errorf("list tests: %w", errors.Join(listOutcome.Err, ctx.Err()))
	}

	tests := lister.ParseTestList(listOutcome.Output)
	profiles := make([]string, len(tests))

	parallel := args.Parallel
	if parallel <= 0 {
		parallel = 1
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(parallel)

	for i, test := range tests {
		group.Go(func() error {
			profile := string(c.fsAdapter.JoinPath(string(tmpDir), fmt.Sprintf("test-%d.out", i)))
			run := c.initialRun(args, profile, []string{"-run=^" + regexp.QuoteMeta(test.Name) + "$"})
			run.ReportDir = string(tmpDir)

			if test.Package != "" {
				run.Packages = []string{test.Package}
			}

			outcome := c.runner.Run(groupCtx, c.framework.BuildInitialRunCommand(groupCtx, run), args.Timeout)
			if err := groupCtx.Err(); err != nil {
				return err
			}

			if outcome.Err != nil || outcome.TimedOut || !c.framework.TestsPass(outcome.Output) {
				slog.Warn("Per-test coverage run failed", "package", test.Package, "test", test.Name, "error", outcome.Err, "timedOut", outcome.TimedOut)
				return nil
			}

			profiles[i] = profile

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("per-test coverage: %w", err)
	}

	for i, profile := range profiles {
		if profile == "" {
			continue
		}

		if err := c.coverageAdapter.LoadProfile(ctx, m.Path(profile), args.ProjectRoot, tests[i], into); err != nil {
			slog.Warn("Failed to load per-test profile", "package", tests[i].Package, "test", tests[i].Name, "error", err)
		}
	}

	slog.Info("Collected per-test coverage", "tests", len(tests))

	return nil
}
