package domain

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"

	"mutest.dev/pkg/mutest/internal/adapter"
	m "mutest.dev/pkg/mutest/internal/model"
)

// ErrNodeNotFound is returned when a handle does not resolve in a tree.
var ErrNodeNotFound = errors.New("node not found")

// Tree is one parsed source file together with the bytes it was parsed from.
// A Tree obtained from the generator cache is shared and must not be modified;
// Clone returns a private copy.
type Tree struct {
	Path m.Path
	Src  []byte
	Fset *token.FileSet
	File *ast.File

	parser adapter.GoFileAdapter
}

// ParseTree parses src as the file at path.
func ParseTree(ctx context.Context, parser adapter.GoFileAdapter, path m.Path, src []byte) (*Tree, error) {
	fset := token.NewFileSet()

	file, err := parser.Parse(ctx, fset, string(path), src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &Tree{Path: path, Src: src, Fset: fset, File: file, parser: parser}, nil
}

// Clone re-parses the original bytes into a fresh, independent tree. Handles
// taken from t resolve to the structurally identical node in the clone.
func (t *Tree) Clone(ctx context.Context) (*Tree, error) {
	return ParseTree(ctx, t.parser, t.Path, t.Src)
}

// Ref returns the handle of node.
func (t *Tree) Ref(node ast.Node) m.NodeRef {
	return m.NodeRef{
		Kind:   fmt.Sprintf("%T", node),
		Offset: t.offset(node.Pos()),
		End:    t.offset(node.End()),
	}
}

func (t *Tree) offset(pos token.Pos) int {
	if !pos.IsValid() {
		return -1
	}

	file := t.Fset.File(pos)
	if file == nil {
		return -1
	}

	return file.Offset(pos)
}

// Find resolves ref to the first node, in pre-order, with the same kind and span.
func (t *Tree) Find(ref m.NodeRef) (ast.Node, error) {
	var found ast.Node

	ast.Inspect(t.File, func(n ast.Node) bool {
		if found != nil || n == nil {
			return false
		}

		start, end := t.offset(n.Pos()), t.offset(n.End())
		if end < ref.Offset || start > ref.End {
			return false
		}

		if start == ref.Offset && end == ref.End && fmt.Sprintf("%T", n) == ref.Kind {
			found = n
			return false
		}

		return true
	})

	if found == nil {
		return nil, fmt.Errorf("%w: %s in %s", ErrNodeNotFound, ref, t.Path)
	}

	return found, nil
}

// Position returns the line and column of node.
func (t *Tree) Position(node ast.Node) token.Position {
	return t.Fset.Position(node.Pos())
}

// Snippet returns the original source text of node.
func (t *Tree) Snippet(node ast.Node) string {
	start, end := t.offset(node.Pos()), t.offset(node.End())
	if start < 0 || end > len(t.Src) || start > end {
		return ""
	}

	return string(t.Src[start:end])
}

// Line returns the full source text of the given 1-based line.
func (t *Tree) Line(line int) string {
	file := t.Fset.File(t.File.Pos())
	if file == nil || line < 1 || line > file.LineCount() {
		return ""
	}

	start := file.Offset(file.LineStart(line))

	end := len(t.Src)
	if line < file.LineCount() {
		end = file.Offset(file.LineStart(line+1)) - 1
	}

	if start > end || end > len(t.Src) {
		return ""
	}

	return string(t.Src[start:end])
}
