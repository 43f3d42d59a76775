package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"mutest.dev/pkg/mutest/internal/adapter"
	"mutest.dev/pkg/mutest/internal/controller"
	"mutest.dev/pkg/mutest/internal/domain/visitors"
	m "mutest.dev/pkg/mutest/internal/model"
	"mutest.dev/pkg/mutest/pkg"
)

// ErrScoreBelowMinimum is returned by Test when the score misses the configured minimum.
var ErrScoreBelowMinimum = errors.New("mutation score below minimum")

// EstimateArgs select the sources to mutate.
type EstimateArgs struct {
	// Root is the project root short paths and excludes are relative to.
	Root    m.Path
	Paths   []m.Path
	Exclude []string
}

// TestArgs contains the arguments for running mutation tests.
type TestArgs struct {
	EstimateArgs
	Reports         m.Path
	Threads         int
	ShardIndex      int
	TotalShardCount int
	// MutationTimeout bounds one mutant run; zero derives it from the baseline.
	MutationTimeout time.Duration
	// Budget bounds the whole run; zero is unlimited.
	Budget time.Duration
	// MaxMutants caps executed mutants; zero is unlimited.
	MaxMutants int
	// MinScore fails the run when the defined score is lower.
	MinScore float64
	Baseline BaselineArgs
	// SpillDir holds the on-disk result spill; empty uses the temp dir.
	SpillDir string
}

// ViewArgs locate saved reports.
type ViewArgs struct {
	Reports m.Path
}

// MergeArgs locate the shard reports to merge.
type MergeArgs struct {
	Reports m.Path
}

// Workflow runs the user-facing operations.
type Workflow interface {
	Estimate(ctx context.Context, args EstimateArgs) error
	Test(ctx context.Context, args TestArgs) error
	View(ctx context.Context, args ViewArgs) error
	Merge(ctx context.Context, args MergeArgs) error
}

// WorkflowOptions carry the run-wide configuration.
type WorkflowOptions struct {
	Framework adapter.TestFrameworkAdapter
	// Selector is completed with baseline coverage and framework visitors.
	Selector SelectorOptions
	Score    ScoreOptions
}

type workflow struct {
	fsAdapter    adapter.SourceFSAdapter
	reportStore  adapter.ReportStore
	ui           controller.UI
	generator    Generator
	collector    CoverageCollector
	orchestrator Orchestrator
	opts         WorkflowOptions
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	generator Generator,
	collector CoverageCollector,
	orchestrator Orchestrator,
	opts WorkflowOptions,
) Workflow {
	return &workflow{
		fsAdapter:    fsAdapter,
		reportStore:  reportStore,
		ui:           ui,
		generator:    generator,
		collector:    collector,
		orchestrator: orchestrator,
		opts:         opts,
	}
}

func (w *workflow) streamer(coverage *m.Coverage) MutationStreamer {
	opts := w.opts.Selector
	opts.Coverage = coverage

	if w.opts.Framework != nil {
		opts.Visitors = append(append([]visitors.Prioritized(nil), opts.Visitors...), w.opts.Framework.ExtraNodeVisitors()...)
	}

	return NewMutationStreamer(w.fsAdapter, w.generator, NewSelector(opts))
}

func (w *workflow) frameworkName() string {
	if w.opts.Framework == nil {
		return ""
	}

	return w.opts.Framework.Name()
}

// Estimate lists the sites that would be mutated.
func (w *workflow) Estimate(ctx context.Context, args EstimateArgs) error {
	if err := w.ui.Start(ctx, controller.WithEstimateMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	defer w.ui.Close(ctx)

	sites, err := w.collectSites(ctx, w.streamer(nil), args, 1, 0, 1)
	if err != nil {
		slog.Error("Failed to collect mutation sites", "error", err)
		return fmt.Errorf("collect sites: %w", err)
	}

	if err := w.ui.DisplayEstimation(ctx, sites, nil); err != nil {
		slog.Error("Failed to display estimation", "error", err)
		return fmt.Errorf("display: %w", err)
	}

	// Wait for UI to be closed by user (press 'q')
	w.ui.Wait(ctx)

	return nil
}

func (w *workflow) collectSites(
	ctx context.Context,
	streamer MutationStreamer,
	args EstimateArgs,
	threads, shardIndex, shardCount int,
) ([]m.Site, error) {
	sources, err := streamer.Sources(ctx, args.Root, args.Paths, args.Exclude)
	if err != nil {
		return nil, err
	}

	all, errCh := streamer.Get(ctx, sources, threads)

	var sites []m.Site
	for site := range streamer.ShardSites(ctx, all, threads, shardIndex, shardCount) {
		sites = append(sites, site)
	}

	if err := <-errCh; err != nil {
		return nil, err
	}

	return sites, nil
}

// Test runs the baseline, then every selected mutant of this shard, and saves the report.
func (w *workflow) Test(ctx context.Context, args TestArgs) error {
	started := time.Now()

	runID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate run id: %w", err)
	}

	threads := normalizeBufferSize(args.Threads)
	shardIndex, shardCount := args.ShardIndex, args.TotalShardCount

	if shardCount <= 0 {
		shardIndex, shardCount = 0, 1
	}

	baselineArgs := args.Baseline
	if baselineArgs.ProjectRoot == "" {
		baselineArgs.ProjectRoot = args.Root
	}

	if baselineArgs.Parallel <= 0 {
		baselineArgs.Parallel = threads
	}

	if err := w.ui.Start(ctx, controller.WithTestMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	defer w.ui.Close(ctx)

	baseline, err := w.collector.Collect(ctx, baselineArgs)
	if err != nil {
		slog.Error("Baseline run failed", "error", err)
		return fmt.Errorf("baseline: %w", err)
	}

	sites, err := w.collectSites(ctx, w.streamer(baseline.Coverage), args.EstimateArgs, threads, shardIndex, shardCount)
	if err != nil {
		slog.Error("Failed to collect mutation sites", "error", err)
		return fmt.Errorf("collect sites: %w", err)
	}

	spill, err := pkg.NewFileSpill[m.Result](args.SpillDir)
	if err != nil {
		return fmt.Errorf("create result spill: %w", err)
	}

	defer func() {
		if err := spill.Remove(); err != nil {
			slog.Warn("Failed to remove result spill", "path", spill.Path(), "error", err)
		}
	}()

	ledger := newResultLedger(sites, spill)

	pending, err := w.plan(sites, args.MaxMutants, ledger)
	if err != nil {
		return err
	}

	w.ui.DisplayConcurrencyInfo(ctx, threads, shardIndex, shardCount)
	w.ui.DisplayUpcomingTestsInfo(ctx, len(pending))

	if err := w.runMutants(ctx, args, baseline, pending, threads, ledger); err != nil {
		slog.Error("Mutation run failed", "error", err)
		return fmt.Errorf("run mutants: %w", err)
	}

	score, err := mutationScoreFromSpill(spill, w.opts.Score)
	if err != nil {
		return fmt.Errorf("score results: %w", err)
	}

	results, err := ledger.results()
	if err != nil {
		return fmt.Errorf("read results: %w", err)
	}

	report := m.Report{
		RunID:      runID.String(),
		Framework:  w.frameworkName(),
		Started:    started,
		Finished:   time.Now(),
		ShardIndex: shardIndex,
		ShardCount: shardCount,
		Results:    results,
		Score:      score,
	}

	path, err := w.reportStore.SaveReport(context.WithoutCancel(ctx), args.Reports, report)
	if err != nil {
		slog.Error("Failed to save report", "dir", args.Reports, "error", err)
		return fmt.Errorf("save report: %w", err)
	}

	slog.Info("Saved report", "path", path, "score", score.Value, "defined", score.Defined)

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := w.ui.DisplayReport(ctx, report); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.ui.Wait(ctx)

	if !MeetsMinimum(score, args.MinScore) {
		return fmt.Errorf("%w: %.4f < %.4f", ErrScoreBelowMinimum, score.Value, args.MinScore)
	}

	return nil
}

// plan records not covered sites and sites beyond maxMutants, and returns the rest.
func (w *workflow) plan(sites []m.Site, maxMutants int, ledger *resultLedger) ([]m.Site, error) {
	pending := make([]m.Site, 0, len(sites))

	for _, site := range sites {
		status := m.Pending

		switch {
		case site.Status == m.NotCovered:
			status = m.NotCovered
		case maxMutants > 0 && len(pending) >= maxMutants:
			status = m.Ignored
		}

		if status == m.Pending {
			pending = append(pending, site)
			continue
		}

		if err := ledger.record(m.NewResult(site, status)); err != nil {
			return nil, err
		}
	}

	if skipped := len(sites) - len(pending); skipped > 0 {
		slog.Info("Sites not executed", "notCoveredOrIgnored", skipped)
	}

	return pending, nil
}

// runMutants tests pending sites on a bounded pool. Sites still pending when
// the budget runs out are recorded Ignored.
func (w *workflow) runMutants(
	ctx context.Context,
	args TestArgs,
	baseline Baseline,
	pending []m.Site,
	threads int,
	ledger *resultLedger,
) error {
	runCtx := ctx

	if args.Budget > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, args.Budget)
		defer cancel()
	}

	workers := make(chan int, threads)
	for id := range threads {
		workers <- id
	}

	group, groupCtx := errgroup.WithContext(runCtx)
	group.SetLimit(threads)

	for _, site := range pending {
		if groupCtx.Err() != nil {
			if err := ledger.record(m.NewResult(site, m.Ignored)); err != nil {
				return err
			}

			continue
		}

		group.Go(func() error {
			worker := <-workers
			defer func() { workers <- worker }()

			return w.testSite(groupCtx, site, worker, args.MutationTimeout, baseline, ledger)
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		slog.Warn("Mutation budget exhausted, remaining mutants ignored", "budget", args.Budget)
	}

	return nil
}

func (w *workflow) testSite(
	ctx context.Context,
	site m.Site,
	worker int,
	timeout time.Duration,
	baseline Baseline,
	ledger *resultLedger,
) error {
	if ctx.Err() != nil {
		return ledger.record(m.NewResult(site, m.Ignored))
	}

	if err := ledger.transition(site.ID, m.Running); err != nil {
		return err
	}

	w.ui.DisplayStartingTestInfo(ctx, site, worker)

	if timeout <= 0 {
		timeout = baseline.MutantTimeout(site.Tests)
	}

	result, err := w.testMutant(ctx, site, timeout)
	if err != nil {
		slog.Debug("Mutant interrupted", "site", site.ID, "error", err)

		result = m.NewResult(site, m.Ignored)
	}

	if err := ledger.record(result); err != nil {
		return err
	}

	w.ui.DisplayCompletedTestInfo(ctx, result)

	return nil
}

// testMutant generates and runs one mutant. The error is only set when ctx ended.
func (w *workflow) testMutant(ctx context.Context, site m.Site, timeout time.Duration) (m.Result, error) {
	mutant, err := w.generator.Generate(ctx, site)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return m.Result{}, ctxErr
		}

		slog.Warn("Failed to generate mutant", "site", site.ID, "mutator", site.Mutator, "error", err)

		result := m.NewResult(site, m.Error)
		result.Error = err.Error()

		return result, nil
	}

	return w.orchestrator.TestMutant(ctx, mutant, timeout)
}

// resultLedger tracks every site's status and spills final results to disk.
type resultLedger struct {
	mu       sync.Mutex
	statuses map[string]m.Status
	order    map[string]int
	spill    pkg.FileSpill[m.Result]
}

func newResultLedger(sites []m.Site, spill pkg.FileSpill[m.Result]) *resultLedger {
	ledger := &resultLedger{
		statuses: make(map[string]m.Status, len(sites)),
		order:    make(map[string]int, len(sites)),
		spill:    spill,
	}

	for i, site := range sites {
		ledger.statuses[site.ID] = m.Pending
		ledger.order[site.ID] = i
	}

	return ledger
}

func (l *resultLedger) transition(id string, next m.Status) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.transitionLocked(id, next)
}

func (l *resultLedger) transitionLocked(id string, next m.Status) error {
	current, ok := l.statuses[id]
	if !ok {
		return fmt.Errorf("unknown site %s", id)
	}

	if !current.CanBecome(next) {
		return fmt.Errorf("site %s cannot go from %s to %s", id, current, next)
	}

	l.statuses[id] = next

	return nil
}

// record moves the site to its final status and spills the result.
func (l *resultLedger) record(result m.Result) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.transitionLocked(result.SiteID, result.Status); err != nil {
		return err
	}

	if err := l.spill.Append(result); err != nil {
		return fmt.Errorf("spill result: %w", err)
	}

	return nil
}

// results reads the spilled results back in site order.
func (l *resultLedger) results() ([]m.Result, error) {
	results := make([]m.Result, 0, l.spill.Len())

	err := l.spill.Range(func(_ uint64, result m.Result) error {
		results = append(results, result)
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	sort.SliceStable(results, func(i, j int) bool {
		return l.order[results[i].SiteID] < l.order[results[j].SiteID]
	})

	return results, nil
}

// View displays the saved reports, merged when sharded.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	reports, err := w.reportStore.LoadReports(ctx, args.Reports)
	if err != nil {
		slog.Error("Failed to load reports", "dir", args.Reports, "error", err)
		return fmt.Errorf("load reports: %w", err)
	}

	return w.display(ctx, mergeReports(reports, w.opts.Score))
}

// Merge combines shard reports into one report saved next to them.
func (w *workflow) Merge(ctx context.Context, args MergeArgs) error {
	reports, err := w.reportStore.LoadReports(ctx, args.Reports)
	if err != nil {
		slog.Error("Failed to load reports", "dir", args.Reports, "error", err)
		return fmt.Errorf("load reports: %w", err)
	}

	merged := mergeReports(reports, w.opts.Score)

	path, err := w.reportStore.SaveReport(ctx, args.Reports, merged)
	if err != nil {
		slog.Error("Failed to save merged report", "dir", args.Reports, "error", err)
		return fmt.Errorf("save report: %w", err)
	}

	slog.Info("Merged reports", "count", len(reports), "path", path)

	return w.display(ctx, merged)
}

func (w *workflow) display(ctx context.Context, report m.Report) error {
	if err := w.ui.Start(ctx, controller.WithViewMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	defer w.ui.Close(ctx)

	if err := w.ui.DisplayReport(ctx, report); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.ui.Wait(ctx)

	return nil
}

// mergeReports dedupes results by site ID, keeping the first, and rescores them.
func mergeReports(reports []m.Report, opts ScoreOptions) m.Report {
	merged := m.Report{ShardIndex: 0, ShardCount: 1}
	seen := make(map[string]bool)

	for i, report := range reports {
		if i == 0 {
			merged.RunID = report.RunID
			merged.Framework = report.Framework
			merged.Started = report.Started
		}

		if report.Started.Before(merged.Started) {
			merged.Started = report.Started
		}

		if report.Finished.After(merged.Finished) {
			merged.Finished = report.Finished
		}

		for _, result := range report.Results {
			if seen[result.SiteID] {
				continue
			}

			seen[result.SiteID] = true
			merged.Results = append(merged.Results, result)
		}
	}

	sort.SliceStable(merged.Results, func(i, j int) bool {
		a, b := merged.Results[i], merged.Results[j]
		if a.File != b.File {
			return a.File < b.File
		}

		if a.Line != b.Line {
			return a.Line < b.Line
		}

		if a.Column != b.Column {
			return a.Column < b.Column
		}

		return a.Mutator < b.Mutator
	})

	merged.Score = ComputeScore(merged.Results, opts)

	return merged
}
