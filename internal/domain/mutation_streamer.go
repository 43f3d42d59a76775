package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"mutest.dev/pkg/mutest/internal/adapter"
	m "mutest.dev/pkg/mutest/internal/model"
)

const recursiveSuffix = "/..."

// MutationStreamer discovers sources and streams their mutation sites.
type MutationStreamer interface {
	// Sources resolves Go-style path patterns ("./...", "./pkg/...", files)
	// under root into sources ordered by their short path.
	Sources(ctx context.Context, root m.Path, paths []m.Path, exclude []string) ([]m.Source, error)
	// Get streams the sites of sources in source order. Files that fail to
	// parse are skipped with a warning.
	Get(ctx context.Context, sources []m.Source, threads int) (<-chan m.Site, <-chan error)
	// ShardSites keeps every totalShardCount-th site, starting at shardIndex.
	ShardSites(ctx context.Context, allSites <-chan m.Site, threads int, shardIndex, totalShardCount int) <-chan m.Site
}

type mutationStreamer struct {
	adapter.SourceFSAdapter
	Generator
	Selector
}

// NewMutationStreamer creates a new MutationStreamer instance with the provided dependencies.
func NewMutationStreamer(fsAdapter adapter.SourceFSAdapter, generator Generator, selector Selector) MutationStreamer {
	return &mutationStreamer{
		SourceFSAdapter: fsAdapter,
		Generator:       generator,
		Selector:        selector,
	}
}

func (ms *mutationStreamer) Sources(ctx context.Context, root m.Path, paths []m.Path, exclude []string) ([]m.Source, error) {
	excludes, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		paths = []m.Path{"." + recursiveSuffix}
	}

	seen := make(map[m.Path]bool)

	var sources []m.Source

	for _, pattern := range paths {
		dir, recursive := splitPattern(string(pattern))

		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", pattern, err)
		}

		err = ms.Walk(ctx, m.Path(abs), recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() {
				if path != abs && skipSourceDir(info.Name()) {
					return filepath.SkipDir
				}

				return nil
			}

			if !isMutableSource(path) || seen[m.Path(path)] {
				return nil
			}

			source, ok, err := ms.source(ctx, root, m.Path(path), excludes)
			if err != nil || !ok {
				return err
			}

			seen[m.Path(path)] = true
			sources = append(sources, source)

			return nil
		})
		if err != nil {
			slog.Error("Failed to discover sources", "path", pattern, "error", err)
			return nil, fmt.Errorf("discover sources in %s: %w", pattern, err)
		}
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Origin.ShortPath < sources[j].Origin.ShortPath
	})

	slog.Debug("Discovered sources", "count", len(sources))

	return sources, nil
}

func (ms *mutationStreamer) source(ctx context.Context, root, path m.Path, excludes []*regexp.Regexp) (m.Source, bool, error) {
	short, err := ms.RelPath(ctx, root, path)
	if err != nil {
		return m.Source{}, false, err
	}

	slashed := filepath.ToSlash(string(short))
	for _, re := range excludes {
		if re.MatchString(slashed) {
			slog.Debug("Excluding source", "path", slashed, "pattern", re.String())
			return m.Source{}, false, nil
		}
	}

	hash, err := ms.HashFile(ctx, path)
	if err != nil {
		return m.Source{}, false, fmt.Errorf("hash %s: %w", path, err)
	}

	source := m.Source{Origin: &m.File{FullPath: path, ShortPath: short, Hash: hash}}

	testPath, err := ms.DetectTestFile(ctx, path)
	if err != nil {
		return m.Source{}, false, fmt.Errorf("detect test file of %s: %w", path, err)
	}

	if testPath != "" {
		source.Test = &m.File{FullPath: testPath}
	}

	return source, true, nil
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	excludes := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		excludes = append(excludes, re)
	}

	return excludes, nil
}

// splitPattern turns "./pkg/..." into ("./pkg", true).
func splitPattern(pattern string) (string, bool) {
	pattern = filepath.ToSlash(pattern)

	if pattern == "..." {
		return ".", true
	}

	if dir, ok := strings.CutSuffix(pattern, recursiveSuffix); ok {
		if dir == "" {
			dir = "."
		}

		return filepath.FromSlash(dir), true
	}

	return filepath.FromSlash(pattern), false
}

func skipSourceDir(name string) bool {
	return name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func isMutableSource(path string) bool {
	return filepath.Ext(path) == ".go" && !strings.HasSuffix(path, "_test.go")
}

// normalizeBufferSize ensures the buffer size is at least 1.
func normalizeBufferSize(threads int) int {
	if threads <= 0 {
		return 1
	}

	return threads
}

func (ms *mutationStreamer) Get(ctx context.Context, sources []m.Source, threads int) (<-chan m.Site, <-chan error) {
	ch := make(chan m.Site, normalizeBufferSize(threads))
	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		defer close(ch)

		for _, source := range sources {
			if err := ms.processSource(ctx, source, ch); err != nil {
				errCh <- err
				return
			}
		}
	}()

	return ch, errCh
}

// processSource selects the sites of one source and sends them to ch.
func (ms *mutationStreamer) processSource(ctx context.Context, source m.Source, ch chan<- m.Site) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tree, err := ms.Tree(ctx, source.Origin.FullPath)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		slog.Warn("Skipping source that does not parse", "source", source.Origin.FullPath, "error", err)

		return nil
	}

	sites, err := ms.Select(ctx, tree, source)
	if err != nil {
		return fmt.Errorf("select sites of %s: %w", source.Origin.ShortPath, err)
	}

	slog.Debug("Selected sites for source", "source", source.Origin.ShortPath, "count", len(sites))

	for _, site := range sites {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ch <- site:
		}
	}

	return nil
}

func (ms *mutationStreamer) ShardSites(ctx context.Context, allSites <-chan m.Site, threads int, shardIndex, totalShardCount int) <-chan m.Site {
	ch := make(chan m.Site, normalizeBufferSize(threads))

	go func() {
		defer close(ch)

		if totalShardCount <= 1 {
			slog.Debug("Sharding disabled, passing through all sites")
			ms.filterSitesByShard(ctx, allSites, ch, 0, 1)

			return
		}

		slog.Debug("Starting site sharding", "shardIndex", shardIndex, "totalShardCount", totalShardCount)
		ms.filterSitesByShard(ctx, allSites, ch, shardIndex, totalShardCount)
	}()

	return ch
}

// filterSitesByShard uses round-robin shard assignment over the ordered stream.
// The input is always drained so the producer can finish.
func (ms *mutationStreamer) filterSitesByShard(ctx context.Context, in <-chan m.Site, out chan<- m.Site, shardIndex, totalShardCount int) {
	index := 0

	for site := range in {
		if index%totalShardCount == shardIndex && ctx.Err() == nil {
			select {
			case <-ctx.Done():
			case out <- site:
			}
		}

		index++
	}
}
