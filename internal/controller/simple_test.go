package controller

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "mutest.dev/pkg/mutest/internal/model"
)

func newSimpleUI() (*SimpleUI, *bytes.Buffer) {
	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	return NewSimpleUI(cmd), &buf
}

func siteIn(path string, category m.Category, status m.Status) m.Site {
	return m.Site{
		ID:       "0123456789abcdef",
		Source:   m.Source{Origin: &m.File{ShortPath: m.Path(path)}},
		Mutator:  "Minus",
		Category: category,
		Line:     4,
		Status:   status,
	}
}

func TestSimpleUI_DisplayEstimation_PrintsTables(t *testing.T) {
	ui, buf := newSimpleUI()

	sites := []m.Site{
		siteIn("path/a.go", m.CategoryArithmetic, m.Pending),
		siteIn("path/a.go", m.CategoryBoundary, m.NotCovered),
		siteIn("path/b.go", m.CategoryArithmetic, m.Pending),
	}

	require.NoError(t, ui.DisplayEstimation(context.Background(), sites, nil))

	output := buf.String()
	for _, want := range []string{"path/a.go", "path/b.go", "TOTAL FILES 2", "NOT COVERED", "Arithmetic", "Boundary"} {
		assert.Contains(t, output, want)
	}

	assert.NotContains(t, output, "Loop")
}

func TestSimpleUI_DisplayEstimation_Error(t *testing.T) {
	ui, buf := newSimpleUI()
	boom := errors.New("boom")

	err := ui.DisplayEstimation(context.Background(), nil, boom)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, buf.String(), "estimation error: boom")
}

func TestSimpleUI_CancelledContext(t *testing.T) {
	ui, buf := newSimpleUI()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, ui.Start(ctx), context.Canceled)
	require.ErrorIs(t, ui.DisplayEstimation(ctx, nil, nil), context.Canceled)
	ui.DisplayUpcomingTestsInfo(ctx, 3)
	ui.DisplayConcurrencyInfo(ctx, 2, 0, 1)
	assert.Empty(t, buf.String())
}

func TestSimpleUI_ProgressLines(t *testing.T) {
	ui, buf := newSimpleUI()
	ctx := context.Background()

	ui.DisplayConcurrencyInfo(ctx, 4, 1, 3)
	ui.DisplayUpcomingTestsInfo(ctx, 12)
	ui.DisplayStartingTestInfo(ctx, siteIn("calc/calc.go", m.CategoryArithmetic, m.Running), 2)
	ui.DisplayCompletedTestInfo(ctx, m.Result{
		SiteID:  "0123456789abcdef",
		File:    "calc/calc.go",
		Line:    4,
		Mutator: "Minus",
		Status:  m.Escaped,
		Diff:    "-a - b\n+a + b",
	})

	output := buf.String()
	assert.Contains(t, output, "Running with 4 worker(s) (Shard 1/3)")
	assert.Contains(t, output, "Upcoming mutants: 12")
	assert.Contains(t, output, "[2] Starting 01234567 (Minus) calc/calc.go:4")
	assert.Contains(t, output, "Completed 01234567 (Minus) calc/calc.go:4 -> escaped")
	assert.Contains(t, output, "+a + b")
}

func TestSimpleUI_DisplayReport(t *testing.T) {
	ui, buf := newSimpleUI()

	report := m.Report{
		Results: []m.Result{
			{SiteID: "a", File: "calc.go", Line: 4, Mutator: "Minus", Original: "a - b", Status: m.Escaped, Diff: "+a + b"},
			{SiteID: "b", File: "calc.go", Line: 8, Mutator: "LessThan", Status: m.Killed},
		},
		Score: m.Score{Value: 0.5, Defined: true, CoveredRatio: 1, Killed: 1, Escaped: 1, Total: 2},
	}

	require.NoError(t, ui.DisplayReport(context.Background(), report))

	output := buf.String()
	assert.Contains(t, output, "Not Covered")
	assert.Contains(t, output, "Escaped Minus calc.go:4 a - b")
	assert.NotContains(t, output, "Escaped LessThan")
	assert.Contains(t, output, "Mutation score: 50.00% (covered code: 100.00%)")
}

func TestFormatScore_Undefined(t *testing.T) {
	assert.Equal(t, "Mutation score: n/a (no killable mutants)", formatScore(m.Score{}))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Conditional", categoryLabel(m.CategoryConditional))
	assert.Equal(t, "Not Covered", statusLabel(m.NotCovered))
	assert.Equal(t, "Killed", statusLabel(m.Killed))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "01234567", shortID("0123456789"))
}

func TestNewUI(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	assert.IsType(t, &SimpleUI{}, NewUI(cmd, false))
	assert.IsType(t, &TUI{}, NewUI(cmd, true))
}

func TestIsTTY_NonFile(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
}
