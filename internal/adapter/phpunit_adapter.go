package adapter

import (
	"context"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"mutest.dev/pkg/mutest/internal/domain/visitors"
	m "mutest.dev/pkg/mutest/internal/model"
)

// PHPUnitJUnitFile is the JUnit report written by the PHPUnit baseline run.
const PHPUnitJUnitFile = "phpunit.junit.xml"

// PHPUnitIgnoreMarker is the annotation PHPUnit projects use to exclude code from coverage.
const PHPUnitIgnoreMarker = "@codeCoverageIgnore"

var (
	phpUnitFailuresPattern = regexp.MustCompile(`(?i)failures!`)
	phpUnitErrorsPattern   = regexp.MustCompile(`(?i)errors!`)
	phpUnitOKPattern       = regexp.MustCompile(`OK\s\(`)
	phpUnitOKInfoPattern   = regexp.MustCompile(`OK\s?,`)
	phpUnitWarningsPattern = regexp.MustCompile(`(?i)warnings!`)
	phpUnitMemoryPattern   = regexp.MustCompile(`Memory: (\d+(?:\.\d+))MB`)
	phpUnitOrderVersionTab = VersionTable{
		{MinVersion: "7.3", Flags: []string{"--order=random"}},
		{MinVersion: "7.2", Flags: []string{"--random-order"}},
	}
)

// PHPUnitAdapter drives PHPUnit. Mutants run in a copy of the project.
type PHPUnitAdapter struct {
	binary  string
	version *versionFlags
}

// NewPHPUnitAdapter constructs a PHPUnitAdapter.
func NewPHPUnitAdapter(opts FrameworkOptions) *PHPUnitAdapter {
	binary := opts.Binary
	if binary == "" {
		binary = filepath.Join("vendor", "bin", "phpunit")
	}

	return &PHPUnitAdapter{
		binary: binary,
		version: &versionFlags{
			binary: binary,
			args:   []string{"--version"},
			table:  phpUnitOrderVersionTab,
			prober: opts.Prober,
		},
	}
}

// Name implements TestFrameworkAdapter.
func (a *PHPUnitAdapter) Name() string { return "phpunit" }

// BuildInitialRunCommand implements TestFrameworkAdapter.
func (a *PHPUnitAdapter) BuildInitialRunCommand(ctx context.Context, run InitialRun) m.CommandLine {
	var args []string

	if run.ConfigPath != "" {
		args = append(args, "--configuration", run.ConfigPath)
	}

	args = append(args, "--log-junit", a.JUnitReportPath(run.reportDir()))
	args = append(args, run.ExtraOptions...)
	args = append(args, a.version.get(ctx)...)

	if run.IncludeRunnerArgs {
		return a.command(run.WorkDir, run.RunnerArgs, args)
	}

	return a.command(run.WorkDir, nil, args)
}

// BuildMutantRunCommand implements TestFrameworkAdapter.
func (a *PHPUnitAdapter) BuildMutantRunCommand(run MutantRun) m.CommandLine {
	var args []string

	if run.ConfigPath != "" {
		args = append(args, "--configuration", run.ConfigPath)
	}

	if len(run.Tests) > 0 {
		quoted := make([]string, 0, len(run.Tests))
		for _, test := range run.Tests {
			quoted = append(quoted, regexp.QuoteMeta(test))
		}

		args = append(args, "--filter", strings.Join(quoted, "|"))
	}

	args = append(args, "--stop-on-failure")
	args = append(args, run.ExtraOptions...)

	return a.command(run.WorkDir, nil, args)
}

// command runs the binary directly, or through php when interpreter args are given.
func (a *PHPUnitAdapter) command(dir string, phpArgs, args []string) m.CommandLine {
	if len(phpArgs) == 0 {
		return m.CommandLine{Path: a.binary, Args: args, Dir: dir}
	}

	full := append(append([]string(nil), phpArgs...), a.binary)

	return m.CommandLine{Path: "php", Args: append(full, args...), Dir: dir}
}

// TestsPass implements TestFrameworkAdapter.
func (a *PHPUnitAdapter) TestsPass(output string) bool {
	if phpUnitFailuresPattern.MatchString(output) || phpUnitErrorsPattern.MatchString(output) {
		return false
	}

	// "OK (10 tests, 20 assertions)", "OK, but incomplete, skipped, or risky tests!"
	// and "Warnings!" all mean the suite passed.
	return phpUnitOKPattern.MatchString(output) ||
		phpUnitOKInfoPattern.MatchString(output) ||
		phpUnitWarningsPattern.MatchString(output)
}

// Recognizes implements TestFrameworkAdapter.
func (a *PHPUnitAdapter) Recognizes(output string) bool {
	return phpUnitFailuresPattern.MatchString(output) ||
		phpUnitErrorsPattern.MatchString(output) ||
		phpUnitOKPattern.MatchString(output) ||
		phpUnitOKInfoPattern.MatchString(output) ||
		phpUnitWarningsPattern.MatchString(output)
}

// MemoryUsed implements TestFrameworkAdapter.
func (a *PHPUnitAdapter) MemoryUsed(output string) float64 {
	match := phpUnitMemoryPattern.FindStringSubmatch(output)
	if match == nil {
		return -1
	}

	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return -1
	}

	return value
}

// ExtraNodeVisitors implements TestFrameworkAdapter.
func (a *PHPUnitAdapter) ExtraNodeVisitors() []visitors.Prioritized {
	return []visitors.Prioritized{
		{Priority: 100, Visitor: visitors.CoverageIgnoreType{Marker: PHPUnitIgnoreMarker}},
		{Priority: 15, Visitor: visitors.CoverageIgnoreFunc{Marker: PHPUnitIgnoreMarker}},
	}
}

// Isolation implements TestFrameworkAdapter.
func (a *PHPUnitAdapter) Isolation() Isolation { return IsolationCopy }

// JUnitReportPath implements JUnitReporter.
func (a *PHPUnitAdapter) JUnitReportPath(dir string) string {
	return filepath.Join(dir, PHPUnitJUnitFile)
}
