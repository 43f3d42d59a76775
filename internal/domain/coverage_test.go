package domain

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mutest.dev/pkg/mutest/internal/adapter"
	adaptermocks "mutest.dev/pkg/mutest/internal/adapter/mocks"
	m "mutest.dev/pkg/mutest/internal/model"
)

const (
	passOutput     = "ok  \texample.com/calc/calc\t0.01s\n"
	subProfile     = "example.com/calc/calc/calc.go:3.24,5.2 1 1\n"
	lessProfile    = "example.com/calc/calc/calc.go:7.29,9.2 1 1\n"
	skipProfile    = "example.com/calc/calc/calc.go:11.25,13.2 1 0\n"
	profilePreface = "mode: set\n"
)

func argValue(args []string, prefix string) (string, bool) {
	for _, arg := range args {
		if value, ok := strings.CutPrefix(arg, prefix); ok {
			return value, true
		}
	}

	return "", false
}

// fakeGoTest answers go test invocations by writing cover profiles the
// way the real tool would.
func fakeGoTest(t *testing.T) func(context.Context, m.CommandLine, time.Duration) m.Outcome {
	t.Helper()

	return func(_ context.Context, cmd m.CommandLine, _ time.Duration) m.Outcome {
		if slices.Contains(cmd.Args, "-list=.") {
			return m.Outcome{Output: "TestSub\nTestLess\n" + passOutput}
		}

		profile, ok := argValue(cmd.Args, "-coverprofile=")
		if ok {
			content := profilePreface + subProfile + lessProfile + skipProfile

			switch run, _ := argValue(cmd.Args, "-run="); run {
			case "^TestSub$":
				content = profilePreface + subProfile
			case "^TestLess$":
				content = profilePreface + lessProfile
			}

			require.NoError(t, os.WriteFile(profile, []byte(content), 0o600))
		}

		return m.Outcome{Output: passOutput, Elapsed: 2 * time.Second}
	}
}

func coverageProject(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/calc\n\ngo 1.22\n"), 0o600))
	writeSource(t, root, filepath.Join("calc", "calc.go"), selectorSource)

	return root
}

func newGoTestCollector(runner adapter.ProcessRunner) CoverageCollector {
	framework := adapter.NewGoTestAdapter(adapter.FrameworkOptions{Prober: staticProber("1.22.0")})

	return NewCoverageCollector(adapter.NewLocalSourceFSAdapter(), runner, framework, adapter.NewLocalCoverageAdapter())
}

func TestCoverageCollector_Baseline(t *testing.T) {
	root := coverageProject(t)
	runner := adaptermocks.NewMockProcessRunner(t)
	runner.EXPECT().Run(mock.Anything, mock.Anything, time.Minute).RunAndReturn(fakeGoTest(t)).Once()

	baseline, err := newGoTestCollector(runner).Collect(context.Background(), BaselineArgs{
		ProjectRoot: m.Path(root),
		Coverage:    true,
		Timeout:     time.Minute,
	})
	require.NoError(t, err)

	require.NotNil(t, baseline.Coverage)

	file := baseline.Coverage.For(m.Path(filepath.Join(root, "calc", "calc.go")))
	require.NotNil(t, file)
	assert.True(t, file.Covers(4))
	assert.True(t, file.Covers(8))
	assert.False(t, file.Covers(12))
	assert.Empty(t, file.TestsFor(4))
	assert.Equal(t, 2*time.Second, baseline.Outcome.Elapsed)
}

func TestCoverageCollector_PerTest(t *testing.T) {
	root := coverageProject(t)
	runner := adaptermocks.NewMockProcessRunner(t)
	runner.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything).RunAndReturn(fakeGoTest(t)).Times(4)

	baseline, err := newGoTestCollector(runner).Collect(context.Background(), BaselineArgs{
		ProjectRoot: m.Path(root),
		Coverage:    true,
		PerTest:     true,
		Parallel:    2,
	})
	require.NoError(t, err)

	file := baseline.Coverage.For(m.Path(filepath.Join(root, "calc", "calc.go")))
	assert.Equal(t, []string{"TestSub"}, file.TestsFor(4))
	assert.Equal(t, []string{"TestLess"}, file.TestsFor(8))
	assert.Equal(t, []string{"example.com/calc/calc"}, file.PackagesFor(4))
	assert.False(t, file.Covers(12))
}

func TestCoverageCollector_CoverageDisabled(t *testing.T) {
	root := coverageProject(t)
	runner := adaptermocks.NewMockProcessRunner(t)
	runner.EXPECT().Run(mock.Anything, mock.MatchedBy(func(cmd m.CommandLine) bool {
		_, ok := argValue(cmd.Args, "-coverprofile=")
		return !ok
	}), mock.Anything).Return(m.Outcome{Output: passOutput}).Once()

	baseline, err := newGoTestCollector(runner).Collect(context.Background(), BaselineArgs{ProjectRoot: m.Path(root)})
	require.NoError(t, err)
	assert.Nil(t, baseline.Coverage)
}

func TestCoverageCollector_BaselineFailures(t *testing.T) {
	tests := []struct {
		name    string
		outcome m.Outcome
	}{
		{name: "failing tests", outcome: m.Outcome{ExitCode: 1, Output: "--- FAIL: TestSub (0.00s)\nFAIL\n"}},
		{name: "build failure", outcome: m.Outcome{ExitCode: 1, Output: "FAIL\texample.com/calc [build failed]\n"}},
		{name: "timeout", outcome: m.Outcome{TimedOut: true}},
		{name: "no output", outcome: m.Outcome{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := adaptermocks.NewMockProcessRunner(t)
			runner.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything).Return(tt.outcome).Once()

			_, err := newGoTestCollector(runner).Collect(context.Background(), BaselineArgs{ProjectRoot: m.Path(coverageProject(t))})
			require.ErrorIs(t, err, ErrBaselineFailed)
		})
	}
}

func TestCoverageCollector_JUnitTimings(t *testing.T) {
	root := coverageProject(t)
	runner := adaptermocks.NewMockProcessRunner(t)
	framework := adapter.NewGoTestSumAdapter(adapter.FrameworkOptions{Prober: staticProber("1.22.0")})

	const report = `<testsuites><testsuite name="example.com/calc/calc">
<testcase classname="example.com/calc/calc" name="TestSub" time="0.200"></testcase>
</testsuite></testsuites>`

	runner.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, cmd m.CommandLine, _ time.Duration) m.Outcome {
			junit, ok := argValue(cmd.Args, "--junitfile=")
			require.True(t, ok)
			assert.NotEqual(t, root, filepath.Dir(junit))
			require.NoError(t, os.WriteFile(junit, []byte(report), 0o600))

			return m.Outcome{Output: passOutput, Elapsed: time.Second}
		}).Once()

	collector := NewCoverageCollector(adapter.NewLocalSourceFSAdapter(), runner, framework, adapter.NewLocalCoverageAdapter())

	baseline, err := collector.Collect(context.Background(), BaselineArgs{ProjectRoot: m.Path(root)})
	require.NoError(t, err)
	assert.Equal(t, 200*time.Millisecond, baseline.Timings["TestSub"])

	assert.NoFileExists(t, filepath.Join(root, adapter.GoTestSumJUnitFile))
}

func TestCoverageCollector_NoProfileWriter(t *testing.T) {
	root := coverageProject(t)
	runner := adaptermocks.NewMockProcessRunner(t)
	framework := adapter.NewPHPUnitAdapter(adapter.FrameworkOptions{Prober: staticProber("9.5.0")})

	runner.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, cmd m.CommandLine, _ time.Duration) m.Outcome {
			i := slices.Index(cmd.Args, "--log-junit")
			require.GreaterOrEqual(t, i, 0)
			require.NoError(t, os.WriteFile(cmd.Args[i+1], []byte("<testsuites></testsuites>"), 0o600))
			return m.Outcome{Output: "OK (1 test, 1 assertion)\n"}
		}).Once()

	collector := NewCoverageCollector(adapter.NewLocalSourceFSAdapter(), runner, framework, adapter.NewLocalCoverageAdapter())

	baseline, err := collector.Collect(context.Background(), BaselineArgs{ProjectRoot: m.Path(root), Coverage: true})
	require.NoError(t, err)
	assert.Nil(t, baseline.Coverage)
}

func TestBaseline_MutantTimeout(t *testing.T) {
	baseline := Baseline{
		Outcome: m.Outcome{Elapsed: 10 * time.Second},
		Timings: map[string]time.Duration{"TestA": time.Second, "TestB": 2 * time.Second},
	}

	assert.Equal(t, 40*time.Second, baseline.MutantTimeout(nil))
	assert.Equal(t, 19*time.Second, baseline.MutantTimeout([]string{"TestA", "TestB"}))
	assert.Equal(t, 40*time.Second, baseline.MutantTimeout([]string{"TestA", "TestUnknown"}))
}
