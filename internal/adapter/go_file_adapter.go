package adapter

import (
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
)

// GoFileAdapter encapsulates Go parsing and printing so the domain layer can
// focus on mutation rules.
type GoFileAdapter interface {
	// Parse builds an AST, comments included, for the provided filename/source pair.
	Parse(ctx context.Context, fileSet *token.FileSet, filename string, src []byte) (*ast.File, error)

	// Print renders file back to gofmt-formatted source.
	Print(ctx context.Context, fileSet *token.FileSet, file *ast.File) ([]byte, error)
}

// LocalGoFileAdapter provides a GoFileAdapter backed by go/parser and go/format.
type LocalGoFileAdapter struct{}

// NewLocalGoFileAdapter constructs a LocalGoFileAdapter.
func NewLocalGoFileAdapter() *LocalGoFileAdapter {
	return &LocalGoFileAdapter{}
}

// Parse builds an AST for the provided filename/source pair.
func (a *LocalGoFileAdapter) Parse(ctx context.Context, fileSet *token.FileSet, filename string, src []byte) (*ast.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return parser.ParseFile(fileSet, filename, src, parser.ParseComments|parser.SkipObjectResolution)
}

// Print renders file with go/format.
func (a *LocalGoFileAdapter) Print(ctx context.Context, fileSet *token.FileSet, file *ast.File) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if file == nil {
		return nil, fmt.Errorf("print: nil file")
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fileSet, file); err != nil {
		return nil, fmt.Errorf("print %s: %w", fileSet.Position(file.Pos()).Filename, err)
	}

	return buf.Bytes(), nil
}
