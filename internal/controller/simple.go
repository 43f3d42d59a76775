package controller

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	m "mutest.dev/pkg/mutest/internal/model"
)

var titleCaser = cases.Title(language.English)

// SimpleUI implements UI using cobra Command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	return ctx.Err()
}

// Close finalizes the UI.
func (s *SimpleUI) Close(context.Context) {}

// Wait is a no-op for SimpleUI.
func (s *SimpleUI) Wait(context.Context) {}

// DisplayEstimation prints sites per file and per category, or the error.
func (s *SimpleUI) DisplayEstimation(ctx context.Context, sites []m.Site, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err != nil {
		s.printf("estimation error: %v\n", err)
		return err
	}

	s.printf("\n%s", renderEstimationTable(buildFileStats(sites), len(sites)))
	s.printf("\n%s", renderCategoryTable(buildCategoryStats(sites)))

	return nil
}

type fileStat struct {
	path       string
	count      int
	notCovered int
}

func buildFileStats(sites []m.Site) []fileStat {
	info := make(map[string]fileStat)

	for _, site := range sites {
		if site.Source.Origin == nil {
			continue
		}

		path := string(site.Source.Origin.ShortPath)
		stat := info[path]
		stat.path = path
		stat.count++

		if site.Status == m.NotCovered {
			stat.notCovered++
		}

		info[path] = stat
	}

	statsList := make([]fileStat, 0, len(info))
	for _, stat := range info {
		statsList = append(statsList, stat)
	}

	sort.Slice(statsList, func(i, j int) bool {
		return statsList[i].path < statsList[j].path
	})

	return statsList
}

func renderEstimationTable(statsList []fileStat, totalSites int) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Sites", "Not Covered"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER})

	notCovered := 0

	for _, stat := range statsList {
		table.Append([]string{stat.path, fmt.Sprintf("%d", stat.count), fmt.Sprintf("%d", stat.notCovered)})
		notCovered += stat.notCovered
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(statsList)),
		fmt.Sprintf("%d", totalSites),
		fmt.Sprintf("%d", notCovered),
	})

	table.Render()

	return tableBuffer.String()
}

type categoryStat struct {
	category m.Category
	count    int
}

func buildCategoryStats(sites []m.Site) []categoryStat {
	counts := make(map[m.Category]int)
	for _, site := range sites {
		counts[site.Category]++
	}

	stats := make([]categoryStat, 0, len(counts))

	for _, category := range m.Categories {
		if counts[category] > 0 {
			stats = append(stats, categoryStat{category: category, count: counts[category]})
		}
	}

	return stats
}

func renderCategoryTable(stats []categoryStat) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Category", "Sites"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, stat := range stats {
		table.Append([]string{categoryLabel(stat.category), fmt.Sprintf("%d", stat.count)})
	}

	table.Render()

	return tableBuffer.String()
}

func categoryLabel(category m.Category) string {
	return titleCaser.String(string(category))
}

func statusLabel(status m.Status) string {
	return titleCaser.String(strings.ReplaceAll(status.String(), "_", " "))
}

// DisplayConcurrencyInfo shows concurrency settings.
func (s *SimpleUI) DisplayConcurrencyInfo(ctx context.Context, threads int, shardIndex int, shardCount int) {
	if ctx.Err() != nil {
		return
	}

	s.printf("Running with %d worker(s) (Shard %d/%d)\n", threads, shardIndex, shardCount)
}

// DisplayUpcomingTestsInfo shows the number of mutants about to be tested.
func (s *SimpleUI) DisplayUpcomingTestsInfo(ctx context.Context, n int) {
	if ctx.Err() != nil {
		return
	}

	s.printf("Upcoming mutants: %d\n", n)
}

// DisplayStartingTestInfo shows info about the mutant test starting.
func (s *SimpleUI) DisplayStartingTestInfo(ctx context.Context, site m.Site, workerID int) {
	if ctx.Err() != nil {
		return
	}

	s.printf("[%d] Starting %s (%s) %s:%d\n", workerID, shortID(site.ID), site.Mutator, sitePath(site), site.Line)
}

// DisplayCompletedTestInfo shows the outcome of one mutant; escaped mutants
// print their diff.
func (s *SimpleUI) DisplayCompletedTestInfo(ctx context.Context, result m.Result) {
	if ctx.Err() != nil {
		return
	}

	s.printf("Completed %s (%s) %s:%d -> %s\n", shortID(result.SiteID), result.Mutator, result.File, result.Line, result.Status)

	if result.Status == m.Escaped && result.Diff != "" {
		s.printf("%s\n", result.Diff)
	}
}

// DisplayReport prints the status totals and the score of a report.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderSummaryTable(report.Score))

	for _, result := range report.Results {
		if result.Status != m.Escaped {
			continue
		}

		s.printf("Escaped %s %s:%d %s\n", result.Mutator, result.File, result.Line, result.Original)

		if result.Diff != "" {
			s.printf("%s\n", result.Diff)
		}
	}

	s.printf("%s\n", formatScore(report.Score))

	return nil
}

func renderSummaryTable(score m.Score) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Status", "Mutants"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	rows := []struct {
		status m.Status
		count  int
	}{
		{m.Killed, score.Killed},
		{m.Escaped, score.Escaped},
		{m.Timeout, score.Timeout},
		{m.Error, score.Errors},
		{m.NotCovered, score.NotCovered},
		{m.Ignored, score.Ignored},
	}

	for _, row := range rows {
		table.Append([]string{statusLabel(row.status), fmt.Sprintf("%d", row.count)})
	}

	table.SetFooter([]string{"Total", fmt.Sprintf("%d", score.Total)})
	table.Render()

	return tableBuffer.String()
}

func formatScore(score m.Score) string {
	if !score.Defined {
		return "Mutation score: n/a (no killable mutants)"
	}

	return fmt.Sprintf("Mutation score: %.2f%% (covered code: %.2f%%)", score.Value*100, score.CoveredRatio*100)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}

	return id
}

func sitePath(site m.Site) string {
	if site.Source.Origin == nil {
		return ""
	}

	return string(site.Source.Origin.ShortPath)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
