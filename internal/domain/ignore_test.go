package domain

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	m "mutest.dev/pkg/mutest/internal/model"
)

func TestParseIgnoreDirective_All(t *testing.T) {
	r, ok := parseIgnoreDirective("//mutest:ignore")
	if !ok {
		t.Fatalf("expected directive to be parsed")
	}

	if !r.all || r.names != nil {
		t.Fatalf("expected all=true and names=nil")
	}
}

func TestParseIgnoreDirective_Names(t *testing.T) {
	r, ok := parseIgnoreDirective("//mutest:ignore Arithmetic, @boundary Minus")
	if !ok {
		t.Fatalf("expected directive to be parsed")
	}

	if r.all {
		t.Fatalf("expected all=false")
	}

	for _, name := range []string{"arithmetic", "boundary", "minus"} {
		if _, ok := r.names[name]; !ok {
			t.Fatalf("expected %s in %v", name, r.names)
		}
	}

	if !r.ignores("Plus", m.CategoryArithmetic) {
		t.Fatalf("expected category match")
	}

	if !r.ignores("Minus", m.CategoryReturn) {
		t.Fatalf("expected name match")
	}

	if r.ignores("TrueValue", m.CategoryBoolean) {
		t.Fatalf("did not expect boolean to be ignored")
	}
}

func TestParseIgnoreDirective_BlockComment(t *testing.T) {
	r, ok := parseIgnoreDirective("/* mutest:ignore number */")
	if !ok {
		t.Fatalf("expected directive to be parsed")
	}

	if _, ok := r.names["number"]; !ok {
		t.Fatalf("expected number")
	}

	if _, ok := parseIgnoreDirective("// regular comment"); ok {
		t.Fatalf("did not expect a directive")
	}
}

func TestBuildIgnoreIndex_FileFuncLineScopes(t *testing.T) {
	const src = "//mutest:ignore arithmetic\n" +
		"package p\n\n" +
		"//mutest:ignore\n" +
		"func ignoredFunc() {\n" +
		"\t_ = 1 < 2\n" +
		"}\n\n" +
		"func f() {\n" +
		"\t//mutest:ignore boundary\n" +
		"\t_ = 1 < 2\n" +
		"\t_ = 1 < 2 //mutest:ignore boundary\n" +
		"\t_ = 1 < 2\n" +
		"}\n"

	content := []byte(src)
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, "test.go", content, parser.ParseComments)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	idx := buildIgnoreIndex(file, fset, content)

	if !idx.file.ignores("Plus", m.CategoryArithmetic) {
		t.Fatalf("expected file-level ignore for arithmetic")
	}

	if idx.file.ignores("TrueValue", m.CategoryBoolean) {
		t.Fatalf("did not expect file-level ignore for boolean")
	}

	var exprs []*ast.BinaryExpr

	ast.Inspect(file, func(n ast.Node) bool {
		if be, ok := n.(*ast.BinaryExpr); ok {
			exprs = append(exprs, be)
		}

		return true
	})

	if len(exprs) != 4 {
		t.Fatalf("expected 4 binary expressions, got %d", len(exprs))
	}

	want := []bool{true, true, true, false}
	for i, expr := range exprs {
		line := fset.Position(expr.Pos()).Line

		got := idx.ignored(expr, line, "LessThan", m.CategoryBoundary)
		if got != want[i] {
			t.Fatalf("expression %d on line %d: ignored=%v, want %v", i, line, got, want[i])
		}
	}

	if !idx.prunes(exprs[0]) {
		t.Fatalf("expected ignoredFunc to be pruned")
	}

	if idx.prunes(exprs[1]) {
		t.Fatalf("did not expect a line rule to prune")
	}
}
