package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	m "mutest.dev/pkg/mutest/internal/model"
)

const (
	reportFilePrefix = "report"
	summaryFileName  = "summary"
)

// ReportStore persists run reports as JSON plus a YAML summary.
type ReportStore interface {
	// SaveReport writes the report (and its summary) into dir.
	SaveReport(ctx context.Context, dir m.Path, report m.Report) (m.Path, error)
	// LoadReport reads one report file.
	LoadReport(ctx context.Context, path m.Path) (m.Report, error)
	// LoadReports reads every report file of dir, shards included, ordered by shard index.
	LoadReports(ctx context.Context, dir m.Path) ([]m.Report, error)
}

// Summary is the short YAML digest written next to each report.
type Summary struct {
	RunID     string         `yaml:"run_id"`
	Framework string         `yaml:"framework"`
	Shard     string         `yaml:"shard,omitempty"`
	Score     m.Score        `yaml:"score"`
	Escaped   []SummaryEntry `yaml:"escaped,omitempty"`
}

// SummaryEntry points at one escaped mutant.
type SummaryEntry struct {
	File    m.Path `yaml:"file"`
	Line    int    `yaml:"line"`
	Mutator string `yaml:"mutator"`
}

// NewSummary digests report.
func NewSummary(report m.Report) Summary {
	summary := Summary{
		RunID:     report.RunID,
		Framework: report.Framework,
		Score:     report.Score,
	}

	if report.ShardCount > 1 {
		summary.Shard = fmt.Sprintf("%d/%d", report.ShardIndex, report.ShardCount)
	}

	for _, r := range report.Results {
		if r.Status == m.Escaped {
			summary.Escaped = append(summary.Escaped, SummaryEntry{File: r.File, Line: r.Line, Mutator: r.Mutator})
		}
	}

	return summary
}

// LocalReportStore implements ReportStore on the local disk.
type LocalReportStore struct{}

// NewReportStore constructs a LocalReportStore.
func NewReportStore() *LocalReportStore {
	return &LocalReportStore{}
}

// ReportFileName names the report file of a run or shard.
func ReportFileName(report m.Report) string {
	if report.ShardCount > 1 {
		return fmt.Sprintf("%s.shard-%d-of-%d.json", reportFilePrefix, report.ShardIndex, report.ShardCount)
	}

	return reportFilePrefix + ".json"
}

func summaryFileNameFor(report m.Report) string {
	if report.ShardCount > 1 {
		return fmt.Sprintf("%s.shard-%d-of-%d.yaml", summaryFileName, report.ShardIndex, report.ShardCount)
	}

	return summaryFileName + ".yaml"
}

// SaveReport implements ReportStore.
func (s *LocalReportStore) SaveReport(ctx context.Context, dir m.Path, report m.Report) (m.Path, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		slog.Error("Failed to create reports dir", "dir", dir, "error", err)
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	reportPath := filepath.Join(string(dir), ReportFileName(report))
	if err := os.WriteFile(reportPath, data, 0o600); err != nil {
		slog.Error("Failed to write report", "path", reportPath, "error", err)
		return "", fmt.Errorf("write report: %w", err)
	}

	summary, err := yaml.Marshal(NewSummary(report))
	if err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}

	summaryPath := filepath.Join(string(dir), summaryFileNameFor(report))
	if err := os.WriteFile(summaryPath, summary, 0o600); err != nil {
		slog.Error("Failed to write summary", "path", summaryPath, "error", err)
		return "", fmt.Errorf("write summary: %w", err)
	}

	return m.Path(reportPath), nil
}

// LoadReport implements ReportStore.
func (s *LocalReportStore) LoadReport(ctx context.Context, path m.Path) (m.Report, error) {
	if err := ctx.Err(); err != nil {
		return m.Report{}, err
	}

	data, err := os.ReadFile(string(path))
	if err != nil {
		return m.Report{}, fmt.Errorf("read report: %w", err)
	}

	var report m.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return m.Report{}, fmt.Errorf("decode report %s: %w", path, err)
	}

	return report, nil
}

// LoadReports implements ReportStore.
func (s *LocalReportStore) LoadReports(ctx context.Context, dir m.Path) ([]m.Report, error) {
	paths, err := filepath.Glob(filepath.Join(string(dir), reportFilePrefix+"*.json"))
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no reports found in %s", dir)
	}

	reports := make([]m.Report, 0, len(paths))

	for _, path := range paths {
		report, err := s.LoadReport(ctx, m.Path(path))
		if err != nil {
			return nil, err
		}

		reports = append(reports, report)
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].ShardIndex < reports[j].ShardIndex
	})

	return reports, nil
}
