package domain

import (
	"context"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mutest.dev/pkg/mutest/internal/adapter"
	"mutest.dev/pkg/mutest/internal/domain/mutators"
	m "mutest.dev/pkg/mutest/internal/model"
)

func generateOnly(t *testing.T, src, mutator string) (m.Mutant, error) {
	t.Helper()

	source := writeSource(t, t.TempDir(), "calc.go", src)
	sel := NewSelector(SelectorOptions{Mutators: mutatorsNamed(t, mutator)})

	sites, err := sel.Select(context.Background(), parseSource(t, source), source)
	require.NoError(t, err)
	require.Len(t, sites, 1, "expected exactly one %s site", mutator)

	return newTestGenerator(t).Generate(context.Background(), sites[0])
}

func TestGenerator_BitwiseAnd(t *testing.T) {
	mutant, err := generateOnly(t, "package p\n\nfunc f() {\n\t_ = 1 & 2\n}\n", "BitwiseAnd")
	require.NoError(t, err)

	assert.Equal(t, "package p\n\nfunc f() {\n\t_ = 1 | 2\n}\n", string(mutant.Code))
	assert.Equal(t, "1 | 2", mutant.Mutated)
}

func TestGenerator_MinusKeepsSurroundings(t *testing.T) {
	const src = "package p\n\n// Sub subtracts.\nfunc Sub(a, b int) int {\n\treturn a - b // difference\n}\n"

	mutant, err := generateOnly(t, src, "Minus")
	require.NoError(t, err)

	assert.Equal(t, strings.Replace(src, "a - b", "a + b", 1), string(mutant.Code))
	assert.Contains(t, string(mutant.Diff), "-\treturn a - b // difference")
	assert.Contains(t, string(mutant.Diff), "+\treturn a + b // difference")
	assert.Contains(t, string(mutant.Diff), "--- a/calc.go")
}

func TestGenerator_QuoteMetaPrunesImport(t *testing.T) {
	const src = "package p\n\nimport \"regexp\"\n\nfunc quote(b string) {\n\tregexp.QuoteMeta(b)\n}\n"

	mutant, err := generateOnly(t, src, "QuoteMeta")
	require.NoError(t, err)

	code := string(mutant.Code)
	assert.NotContains(t, code, `"regexp"`)
	assert.Contains(t, code, "\tb\n")
	assert.Equal(t, "b", mutant.Mutated)
}

func TestGenerator_StatementRemoval(t *testing.T) {
	const src = "package p\n\nimport \"fmt\"\n\nfunc f() int {\n\tfmt.Println(\"side effect\")\n\treturn 1\n}\n"

	mutant, err := generateOnly(t, src, "FunctionCallRemoval")
	require.NoError(t, err)

	code := string(mutant.Code)
	assert.NotContains(t, code, "Println")
	assert.NotContains(t, code, `"fmt"`)
	assert.Contains(t, code, "return 1")
	assert.Empty(t, mutant.Mutated)
}

func TestGenerator_LeavesOriginalTreeIntact(t *testing.T) {
	source := writeSource(t, t.TempDir(), "calc.go", selectorSource)
	sel := NewSelector(SelectorOptions{Mutators: mutatorsNamed(t, "@default")})
	gen := newTestGenerator(t)
	ctx := context.Background()

	original, err := gen.Tree(ctx, source.Origin.FullPath)
	require.NoError(t, err)

	sites, err := sel.Select(ctx, original, source)
	require.NoError(t, err)
	require.NotEmpty(t, sites)

	for _, site := range sites {
		mutant, err := gen.Generate(ctx, site)
		require.NoError(t, err, site.Mutator)
		assert.NotEqual(t, selectorSource, string(mutant.Code), site.Mutator)
	}

	printed, err := adapter.NewLocalGoFileAdapter().Print(ctx, original.Fset, original.File)
	require.NoError(t, err)
	assert.Equal(t, selectorSource, string(printed))

	cached, err := gen.Tree(ctx, source.Origin.FullPath)
	require.NoError(t, err)
	assert.Same(t, original, cached)
}

func TestGenerator_Errors(t *testing.T) {
	source := writeSource(t, t.TempDir(), "calc.go", selectorSource)
	gen := newTestGenerator(t)
	ctx := context.Background()

	sites, err := NewSelector(SelectorOptions{Mutators: mutatorsNamed(t, "Minus")}).Select(ctx, parseSource(t, source), source)
	require.NoError(t, err)

	t.Run("unknown mutator", func(t *testing.T) {
		site := sites[0]
		site.Mutator = "Nope"

		_, err := gen.Generate(ctx, site)
		require.ErrorIs(t, err, mutators.ErrUnknownMutator)
	})

	t.Run("dangling handle", func(t *testing.T) {
		site := sites[0]
		site.Ref = m.NodeRef{Kind: "*ast.BinaryExpr", Offset: 1, End: 2}

		_, err := gen.Generate(ctx, site)
		require.ErrorIs(t, err, ErrNodeNotFound)
	})

	t.Run("mutator that does not apply", func(t *testing.T) {
		site := sites[0]
		site.Mutator = "Plus"

		_, err := gen.Generate(ctx, site)
		require.ErrorIs(t, err, ErrInvalidMutant)
	})

	t.Run("missing file", func(t *testing.T) {
		site := sites[0]
		site.Source = m.Source{Origin: &m.File{FullPath: "does/not/exist.go"}}

		_, err := gen.Generate(ctx, site)
		require.Error(t, err)
	})
}

func TestTree_RefAndFind(t *testing.T) {
	tree, err := ParseTree(context.Background(), adapter.NewLocalGoFileAdapter(), "calc.go", []byte(selectorSource))
	require.NoError(t, err)

	sites, err := NewSelector(SelectorOptions{Mutators: mutatorsNamed(t, "LessThan")}).Select(context.Background(), tree, m.Source{})
	require.NoError(t, err)
	require.Len(t, sites, 1)

	clone, err := tree.Clone(context.Background())
	require.NoError(t, err)
	require.NotSame(t, tree.File, clone.File)

	node, err := clone.Find(sites[0].Ref)
	require.NoError(t, err)
	assert.Equal(t, "x < y", clone.Snippet(node))
	assert.Equal(t, sites[0].Ref, clone.Ref(node))
	assert.Equal(t, "\treturn x < y", clone.Line(8))
	assert.Equal(t, token.Position{Filename: "calc.go", Offset: sites[0].Ref.Offset, Line: 8, Column: 9}, clone.Position(node))
}
