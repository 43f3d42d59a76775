package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"go/ast"
	"log/slog"
	"regexp"

	"mutest.dev/pkg/mutest/internal/domain/mutators"
	"mutest.dev/pkg/mutest/internal/domain/visitors"
	m "mutest.dev/pkg/mutest/internal/model"
)

// SelectorOptions configure mutation site selection.
type SelectorOptions struct {
	// Mutators are consulted in order for every node.
	Mutators []mutators.Mutator
	// Coverage enables coverage filtering when not nil.
	Coverage *m.Coverage
	// MultiMatch lets every matching mutator emit a site for a node.
	// By default the first matching mutator wins.
	MultiMatch bool
	// SourceRegex excludes nodes whose source line matches.
	SourceRegex *regexp.Regexp
	// Visitors mark additional skip regions before traversal.
	Visitors []visitors.Prioritized
}

// Selector finds the mutation sites of one parsed file.
type Selector interface {
	Select(ctx context.Context, tree *Tree, source m.Source) ([]m.Site, error)
}

type selector struct {
	opts SelectorOptions
}

// NewSelector constructs a Selector.
func NewSelector(opts SelectorOptions) Selector {
	return &selector{opts: opts}
}

// Select walks tree in pre-order (source order) and returns its sites.
// Sites on lines no test covers are returned with status NotCovered.
func (s *selector) Select(ctx context.Context, tree *Tree, source m.Source) ([]m.Site, error) {
	marks := visitors.Apply(tree.Fset, tree.File, s.opts.Visitors)
	ignores := buildIgnoreIndex(tree.File, tree.Fset, tree.Src)

	var fileCoverage *m.FileCoverage
	if s.opts.Coverage != nil && source.Origin != nil {
		fileCoverage = s.opts.Coverage.For(source.Origin.FullPath)
	}

	var (
		sites   []m.Site
		walkErr error
	)

	ast.Inspect(tree.File, func(n ast.Node) bool {
		if n == nil || walkErr != nil {
			return false
		}

		if err := ctx.Err(); err != nil {
			walkErr = err
			return false
		}

		if reason, skipped := marks.Skipped(n); skipped {
			slog.Debug("Skipping marked node", "path", tree.Path, "line", tree.Position(n).Line, "reason", reason)
			return false
		}

		if ignores.prunes(n) {
			return false
		}

		line := tree.Position(n).Line
		if s.opts.SourceRegex != nil && s.opts.SourceRegex.MatchString(tree.Line(line)) {
			return true
		}

		sites = append(sites, s.sitesFor(tree, source, n, line, ignores, fileCoverage)...)

		return true
	})

	if walkErr != nil {
		return nil, walkErr
	}

	return sites, nil
}

func (s *selector) sitesFor(
	tree *Tree,
	source m.Source,
	node ast.Node,
	line int,
	ignores ignoreIndex,
	fileCoverage *m.FileCoverage,
) []m.Site {
	var sites []m.Site

	for _, mutator := range s.opts.Mutators {
		if !mutator.ShouldMutate(node) || ignores.ignored(node, line, mutator.Name(), mutator.Category()) {
			continue
		}

		sites = append(sites, s.newSite(tree, source, node, mutator, fileCoverage))

		if !s.opts.MultiMatch {
			break
		}
	}

	return sites
}

func (s *selector) newSite(
	tree *Tree,
	source m.Source,
	node ast.Node,
	mutator mutators.Mutator,
	fileCoverage *m.FileCoverage,
) m.Site {
	pos := tree.Position(node)
	ref := tree.Ref(node)

	site := m.Site{
		ID:       SiteID(sourceKey(source, tree.Path), ref, mutator.Name()),
		Source:   source,
		Ref:      ref,
		Mutator:  mutator.Name(),
		Category: mutator.Category(),
		Line:     pos.Line,
		Column:   pos.Column,
		Original: tree.Snippet(node),
		Status:   m.Pending,
	}

	if s.opts.Coverage != nil {
		if fileCoverage.Covers(pos.Line) {
			site.Tests = fileCoverage.TestsFor(pos.Line)
			site.Packages = fileCoverage.PackagesFor(pos.Line)
		} else {
			site.Status = m.NotCovered
		}
	}

	return site
}

func sourceKey(source m.Source, fallback m.Path) m.Path {
	if source.Origin == nil {
		return fallback
	}

	if source.Origin.ShortPath != "" {
		return source.Origin.ShortPath
	}

	return source.Origin.FullPath
}

// SiteID derives the stable identifier of a site from its file, node and mutator.
func SiteID(path m.Path, ref m.NodeRef, mutator string) string {
	sum := sha256.Sum256([]byte(string(path) + "\x00" + ref.String() + "\x00" + mutator))

	return hex.EncodeToString(sum[:12])
}
