package adapter

import (
	"context"
	"regexp"
	"strings"

	"mutest.dev/pkg/mutest/internal/domain/visitors"
	m "mutest.dev/pkg/mutest/internal/model"
)

// CoverageIgnoreMarker excludes a Go function or type from mutation when it
// appears in the declaration's doc comment.
const CoverageIgnoreMarker = "coverage:ignore"

var (
	goTestFailPattern       = regexp.MustCompile(`(?m)^(--- FAIL|FAIL\b|panic: )`)
	goTestPassPattern       = regexp.MustCompile(`(?m)^(ok\s|--- PASS|--- SKIP)`)
	goTestBrokenPattern     = regexp.MustCompile(`\[(build|setup) failed\]`)
	goTestNoTestsPattern    = regexp.MustCompile(`\[no test files\]|\[no tests to run\]|testing: warning: no tests to run`)
	goTestListEntryPattern  = regexp.MustCompile(`^(Test|Fuzz|Example)\w*$`)
	goTestShuffleVersionTab = VersionTable{
		{MinVersion: "1.17", Flags: []string{"-shuffle=on"}},
	}
)

// GoTestAdapter drives `go test`.
type GoTestAdapter struct {
	binary  string
	version *versionFlags
}

// NewGoTestAdapter constructs a GoTestAdapter.
func NewGoTestAdapter(opts FrameworkOptions) *GoTestAdapter {
	binary := opts.Binary
	if binary == "" {
		binary = "go"
	}

	return &GoTestAdapter{
		binary: binary,
		version: &versionFlags{
			binary: binary,
			args:   []string{"version"},
			table:  goTestShuffleVersionTab,
			prober: opts.Prober,
		},
	}
}

// Name implements TestFrameworkAdapter.
func (a *GoTestAdapter) Name() string { return "gotest" }

// BuildInitialRunCommand implements TestFrameworkAdapter.
func (a *GoTestAdapter) BuildInitialRunCommand(ctx context.Context, run InitialRun) m.CommandLine {
	return m.CommandLine{
		Path: a.binary,
		Args: append([]string{"test"}, a.initialArgs(ctx, run)...),
		Dir:  run.WorkDir,
	}
}

func (a *GoTestAdapter) initialArgs(ctx context.Context, run InitialRun) []string {
	args := []string{"-count=1"}
	args = append(args, a.version.get(ctx)...)

	if run.CoverProfile != "" {
		args = append(args, "-covermode=set", "-coverpkg=./...", "-coverprofile="+run.CoverProfile)
	}

	args = append(args, run.ExtraOptions...)

	if run.IncludeRunnerArgs {
		args = append(args, run.RunnerArgs...)
	}

	return append(args, packagesOrAll(run.Packages)...)
}

// BuildMutantRunCommand implements TestFrameworkAdapter.
func (a *GoTestAdapter) BuildMutantRunCommand(run MutantRun) m.CommandLine {
	return m.CommandLine{
		Path: a.binary,
		Args: append([]string{"test"}, mutantArgs(run)...),
		Dir:  run.WorkDir,
	}
}

func mutantArgs(run MutantRun) []string {
	args := []string{"-count=1", "-failfast"}

	if run.OverlayPath != "" {
		args = append(args, "-overlay="+run.OverlayPath)
	}

	if pattern := runPattern(run.Tests); pattern != "" {
		args = append(args, "-run="+pattern)
	}

	args = append(args, run.ExtraOptions...)

	return append(args, packagesOrAll(run.Packages)...)
}

func runPattern(tests []string) string {
	if len(tests) == 0 {
		return ""
	}

	quoted := make([]string, 0, len(tests))
	for _, test := range tests {
		quoted = append(quoted, regexp.QuoteMeta(test))
	}

	return "^(" + strings.Join(quoted, "|") + ")$"
}

func packagesOrAll(packages []string) []string {
	if len(packages) == 0 {
		return []string{"./..."}
	}

	return packages
}

// TestsPass implements TestFrameworkAdapter.
func (a *GoTestAdapter) TestsPass(output string) bool {
	return !goTestFailPattern.MatchString(output)
}

// Recognizes implements TestFrameworkAdapter. Build and setup failures are
// never recognized, so a mutant that does not compile is reported as an error.
// Packages that ran no test carry no verdict.
func (a *GoTestAdapter) Recognizes(output string) bool {
	if goTestBrokenPattern.MatchString(output) {
		return false
	}

	output = withoutNoTestLines(output)

	return goTestFailPattern.MatchString(output) || goTestPassPattern.MatchString(output)
}

func withoutNoTestLines(output string) string {
	lines := strings.Split(output, "\n")
	kept := lines[:0]

	for _, line := range lines {
		if !goTestNoTestsPattern.MatchString(line) {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}

// MemoryUsed implements TestFrameworkAdapter. go test never reports memory.
func (a *GoTestAdapter) MemoryUsed(string) float64 { return -1 }

// ExtraNodeVisitors implements TestFrameworkAdapter.
func (a *GoTestAdapter) ExtraNodeVisitors() []visitors.Prioritized {
	return []visitors.Prioritized{
		{Priority: 5, Visitor: visitors.GeneratedFile{}},
		{Priority: 15, Visitor: visitors.CoverageIgnoreFunc{Marker: CoverageIgnoreMarker}},
		{Priority: 100, Visitor: visitors.CoverageIgnoreType{Marker: CoverageIgnoreMarker}},
	}
}

// Isolation implements TestFrameworkAdapter.
func (a *GoTestAdapter) Isolation() Isolation { return IsolationOverlay }

// WritesCoverProfile implements CoverageProfileWriter.
func (a *GoTestAdapter) WritesCoverProfile() bool { return true }

// BuildListCommand implements TestLister.
func (a *GoTestAdapter) BuildListCommand(workDir string, packages []string) m.CommandLine {
	return m.CommandLine{
		Path: a.binary,
		Args: append([]string{"test", "-list=."}, packagesOrAll(packages)...),
		Dir:  workDir,
	}
}

// ParseTestList implements TestLister. Names printed before a package's
// "ok" line belong to that package; names without one keep an empty package.
func (a *GoTestAdapter) ParseTestList(output string) []m.TestRef {
	seen := make(map[m.TestRef]bool)

	var (
		tests   []m.TestRef
		pending []string
	)

	flush := func(pkg string) {
		for _, name := range pending {
			ref := m.TestRef{Package: pkg, Name: name}
			if !seen[ref] {
				seen[ref] = true
				tests = append(tests, ref)
			}
		}

		pending = pending[:0]
	}

	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)

		if goTestListEntryPattern.MatchString(trimmed) {
			pending = append(pending, trimmed)
			continue
		}

		if fields := strings.Fields(trimmed); len(fields) >= 2 && fields[0] == "ok" {
			flush(fields[1])
		}
	}

	flush("")

	return tests
}
