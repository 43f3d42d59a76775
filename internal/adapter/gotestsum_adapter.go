package adapter

import (
	"context"
	"path/filepath"

	m "mutest.dev/pkg/mutest/internal/model"
)

// GoTestSumJUnitFile is the JUnit report written by the gotestsum baseline run.
const GoTestSumJUnitFile = "mutest.junit.xml"

// GoTestSumAdapter drives `go test` through gotestsum. The baseline writes a
// JUnit report with per-test timings; output markers are those of go test.
type GoTestSumAdapter struct {
	*GoTestAdapter

	binary string
}

// NewGoTestSumAdapter constructs a GoTestSumAdapter. opts.Binary names the
// gotestsum executable; the go tool is always "go".
func NewGoTestSumAdapter(opts FrameworkOptions) *GoTestSumAdapter {
	binary := opts.Binary
	if binary == "" {
		binary = "gotestsum"
	}

	return &GoTestSumAdapter{
		GoTestAdapter: NewGoTestAdapter(FrameworkOptions{Prober: opts.Prober}),
		binary:        binary,
	}
}

// Name implements TestFrameworkAdapter.
func (a *GoTestSumAdapter) Name() string { return "gotestsum" }

// BuildInitialRunCommand implements TestFrameworkAdapter.
func (a *GoTestSumAdapter) BuildInitialRunCommand(ctx context.Context, run InitialRun) m.CommandLine {
	args := []string{
		"--format=standard-verbose",
		"--junitfile=" + a.JUnitReportPath(run.reportDir()),
		"--",
	}

	return m.CommandLine{
		Path: a.binary,
		Args: append(args, a.initialArgs(ctx, run)...),
		Dir:  run.WorkDir,
	}
}

// BuildMutantRunCommand implements TestFrameworkAdapter.
func (a *GoTestSumAdapter) BuildMutantRunCommand(run MutantRun) m.CommandLine {
	return m.CommandLine{
		Path: a.binary,
		Args: append([]string{"--format=standard-quiet", "--"}, mutantArgs(run)...),
		Dir:  run.WorkDir,
	}
}

// JUnitReportPath implements JUnitReporter.
func (a *GoTestSumAdapter) JUnitReportPath(dir string) string {
	return filepath.Join(dir, GoTestSumJUnitFile)
}
