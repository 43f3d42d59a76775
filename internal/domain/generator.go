package domain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"log/slog"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/tools/go/ast/astutil"

	"mutest.dev/pkg/mutest/internal/adapter"
	"mutest.dev/pkg/mutest/internal/domain/mutators"
	m "mutest.dev/pkg/mutest/internal/model"
)

// ErrInvalidMutant is returned when a mutant cannot be produced as valid source.
var ErrInvalidMutant = errors.New("invalid mutant")

// DefaultTreeCacheSize bounds the number of original trees kept in memory.
const DefaultTreeCacheSize = 256

const diffContextLines = 2

// Generator turns a site into mutant source.
type Generator interface {
	// Tree returns the cached original tree of path. It must not be modified.
	Tree(ctx context.Context, path m.Path) (*Tree, error)
	// Generate clones the original tree, applies the site's mutator to
	// exactly one node and prints the result.
	Generate(ctx context.Context, site m.Site) (m.Mutant, error)
}

type generator struct {
	goFileAdapter adapter.GoFileAdapter
	fsAdapter     adapter.SourceFSAdapter
	catalog       *mutators.Catalog
	trees         *lru.Cache[m.Path, *Tree]
}

// NewGenerator constructs a Generator caching up to cacheSize original trees.
func NewGenerator(
	goFileAdapter adapter.GoFileAdapter,
	fsAdapter adapter.SourceFSAdapter,
	catalog *mutators.Catalog,
	cacheSize int,
) (Generator, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultTreeCacheSize
	}

	trees, err := lru.New[m.Path, *Tree](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create tree cache: %w", err)
	}

	return &generator{
		goFileAdapter: goFileAdapter,
		fsAdapter:     fsAdapter,
		catalog:       catalog,
		trees:         trees,
	}, nil
}

func (g *generator) Tree(ctx context.Context, path m.Path) (*Tree, error) {
	if tree, ok := g.trees.Get(path); ok {
		return tree, nil
	}

	src, err := g.fsAdapter.ReadFile(ctx, path)
	if err != nil {
		slog.Error("Failed to read source", "path", path, "error", err)
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	tree, err := ParseTree(ctx, g.goFileAdapter, path, src)
	if err != nil {
		return nil, err
	}

	g.trees.Add(path, tree)

	return tree, nil
}

func (g *generator) Generate(ctx context.Context, site m.Site) (m.Mutant, error) {
	if site.Source.Origin == nil {
		return m.Mutant{}, fmt.Errorf("site %s has no source file", site.ID)
	}

	mutator, ok := g.catalog.Get(site.Mutator)
	if !ok {
		return m.Mutant{}, fmt.Errorf("%w: %q", mutators.ErrUnknownMutator, site.Mutator)
	}

	original, err := g.Tree(ctx, site.Source.Origin.FullPath)
	if err != nil {
		return m.Mutant{}, err
	}

	clone, err := original.Clone(ctx)
	if err != nil {
		return m.Mutant{}, err
	}

	target, err := clone.Find(site.Ref)
	if err != nil {
		return m.Mutant{}, err
	}

	if !mutator.ShouldMutate(target) {
		return m.Mutant{}, fmt.Errorf("%w: %s does not apply to %s", ErrInvalidMutant, mutator.Name(), site.Ref)
	}

	replacement := mutator.Mutate(target)

	if err := replaceNode(clone.File, target, replacement); err != nil {
		return m.Mutant{}, err
	}

	pruneUnusedImports(original, clone)

	code, err := g.goFileAdapter.Print(ctx, clone.Fset, clone.File)
	if err != nil {
		return m.Mutant{}, fmt.Errorf("%w: %w", ErrInvalidMutant, err)
	}

	if _, err := ParseTree(ctx, g.goFileAdapter, clone.Path, code); err != nil {
		return m.Mutant{}, fmt.Errorf("%w: %w", ErrInvalidMutant, err)
	}

	return m.Mutant{
		Site:    site,
		Code:    code,
		Mutated: renderNode(clone, replacement),
		Diff:    unifiedDiff(sourceKey(site.Source, clone.Path), original.Src, code),
	}, nil
}

// replaceNode swaps target for replacement in file. A removal deletes the
// statement from its list, or leaves an empty statement where a list is not
// available.
func replaceNode(file *ast.File, target, replacement ast.Node) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidMutant, r)
		}
	}()

	replaced := false

	astutil.Apply(file, func(c *astutil.Cursor) bool {
		if replaced {
			return false
		}

		if c.Node() != target {
			return true
		}

		switch {
		case !mutators.IsRemoval(replacement):
			c.Replace(replacement)
		case c.Index() >= 0:
			c.Delete()
		default:
			c.Replace(&ast.EmptyStmt{Semicolon: target.Pos(), Implicit: true})
		}

		replaced = true

		return false
	}, nil)

	if !replaced {
		return fmt.Errorf("%w: replacement target vanished", ErrNodeNotFound)
	}

	return nil
}

// pruneUnusedImports drops imports the mutation left unused, so that e.g.
// removing the only regexp call does not break compilation.
func pruneUnusedImports(original, clone *Tree) {
	for _, spec := range append([]*ast.ImportSpec(nil), clone.File.Imports...) {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		if !astutil.UsesImport(original.File, path) || astutil.UsesImport(clone.File, path) {
			continue
		}

		name := ""
		if spec.Name != nil {
			name = spec.Name.Name
		}

		astutil.DeleteNamedImport(clone.Fset, clone.File, name, path)
	}
}

func renderNode(tree *Tree, node ast.Node) string {
	if mutators.IsRemoval(node) {
		return ""
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, tree.Fset, node); err != nil {
		return ""
	}

	return buf.String()
}

func unifiedDiff(name m.Path, before, after []byte) []byte {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + string(name),
		ToFile:   "b/" + string(name),
		Context:  diffContextLines,
	})
	if err != nil {
		return nil
	}

	return []byte(diff)
}
