package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"mutest.dev/pkg/mutest/internal/domain/visitors"
	m "mutest.dev/pkg/mutest/internal/model"
)

// ErrUnknownFramework is returned for a framework name with no registered adapter.
var ErrUnknownFramework = errors.New("unknown test framework")

// Isolation selects how a mutant is kept away from the user's working tree.
type Isolation int

const (
	// IsolationOverlay leaves the project in place and substitutes the mutated
	// file through the go tool's -overlay flag.
	IsolationOverlay Isolation = iota
	// IsolationCopy runs the tests inside a private copy of the project.
	IsolationCopy
)

func (i Isolation) String() string {
	if i == IsolationCopy {
		return "copy"
	}

	return "overlay"
}

// InitialRun describes the baseline test run.
type InitialRun struct {
	WorkDir           string
	ConfigPath        string
	ExtraOptions      []string
	IncludeRunnerArgs bool
	RunnerArgs        []string
	// CoverProfile is where a coverage profile should be written; empty disables coverage.
	CoverProfile string
	// Packages restricts the run; empty means the whole module.
	Packages []string
	// ReportDir receives machine-readable reports; empty uses WorkDir.
	ReportDir string
}

func (r InitialRun) reportDir() string {
	if r.ReportDir != "" {
		return r.ReportDir
	}

	return r.WorkDir
}

// MutantRun describes the test run against one mutant.
type MutantRun struct {
	WorkDir      string
	ConfigPath   string
	ExtraOptions []string
	// Packages are the packages declaring the covering tests; empty runs the
	// whole module.
	Packages []string
	// Tests narrows the run to the tests covering the mutation; empty runs all.
	Tests []string
	// OverlayPath points at a go overlay file for IsolationOverlay.
	OverlayPath string
}

// TestFrameworkAdapter builds test command lines for one framework and
// interprets the output they produce.
type TestFrameworkAdapter interface {
	Name() string
	BuildInitialRunCommand(ctx context.Context, run InitialRun) m.CommandLine
	BuildMutantRunCommand(run MutantRun) m.CommandLine
	// TestsPass reports whether the output shows a passing suite.
	TestsPass(output string) bool
	// Recognizes reports whether the output carries any pass or fail marker.
	Recognizes(output string) bool
	// MemoryUsed returns the memory reported in output in MB, or -1.
	MemoryUsed(output string) float64
	ExtraNodeVisitors() []visitors.Prioritized
	Isolation() Isolation
}

// TestLister is implemented by adapters able to enumerate test names.
type TestLister interface {
	BuildListCommand(workDir string, packages []string) m.CommandLine
	ParseTestList(output string) []m.TestRef
}

// CoverageProfileWriter is implemented by adapters whose initial run writes a
// Go cover profile.
type CoverageProfileWriter interface {
	WritesCoverProfile() bool
}

// JUnitReporter is implemented by adapters whose initial run writes a JUnit XML report.
type JUnitReporter interface {
	// JUnitReportPath returns the report written by an initial run whose
	// ReportDir is dir.
	JUnitReportPath(dir string) string
}

// FrameworkOptions configures adapter construction.
type FrameworkOptions struct {
	// Binary overrides the framework executable.
	Binary string
	// Prober detects the framework version; nil uses ProbeVersion.
	Prober VersionProber
}

type frameworkFactory func(opts FrameworkOptions) TestFrameworkAdapter

var frameworks = map[string]frameworkFactory{
	"gotest":    func(opts FrameworkOptions) TestFrameworkAdapter { return NewGoTestAdapter(opts) },
	"gotestsum": func(opts FrameworkOptions) TestFrameworkAdapter { return NewGoTestSumAdapter(opts) },
	"phpunit":   func(opts FrameworkOptions) TestFrameworkAdapter { return NewPHPUnitAdapter(opts) },
}

// FrameworkNames lists the registered framework names.
func FrameworkNames() []string {
	names := make([]string, 0, len(frameworks))
	for name := range frameworks {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// NewTestFrameworkAdapter returns the adapter registered under name.
func NewTestFrameworkAdapter(name string, opts FrameworkOptions) (TestFrameworkAdapter, error) {
	factory, ok := frameworks[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownFramework, name, strings.Join(FrameworkNames(), ", "))
	}

	return factory(opts), nil
}

// versionFlags probes a binary once and caches the flags its version enables.
type versionFlags struct {
	once   sync.Once
	flags  []string
	binary string
	args   []string
	table  VersionTable
	prober VersionProber
}

const probeTimeout = 10 * time.Second

func (v *versionFlags) get(ctx context.Context) []string {
	v.once.Do(func() {
		prober := v.prober
		if prober == nil {
			prober = ProbeVersion
		}

		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()

		version, err := prober(probeCtx, v.binary, v.args...)
		if err != nil {
			slog.Debug("Failed to detect framework version", "binary", v.binary, "error", err)

			version = UnknownVersion
		}

		v.flags = v.table.Flags(version)
		slog.Debug("Detected framework version", "binary", v.binary, "version", version, "flags", v.flags)
	})

	return append([]string(nil), v.flags...)
}
