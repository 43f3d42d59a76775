package visitors

import (
	"go/ast"
	"go/token"
)

// GeneratedFile skips files carrying the standard "Code generated ... DO NOT EDIT." header.
type GeneratedFile struct{}

// Name implements Visitor.
func (GeneratedFile) Name() string { return "generated-file" }

// Visit implements Visitor.
func (GeneratedFile) Visit(_ *token.FileSet, file *ast.File, marks *Marks) {
	if file != nil && ast.IsGenerated(file) {
		marks.SkipRange(file.FileStart, file.FileEnd, "generated file")
	}
}

// CoverageIgnoreFunc skips functions whose doc comment contains Marker.
type CoverageIgnoreFunc struct {
	Marker string
}

// Name implements Visitor.
func (v CoverageIgnoreFunc) Name() string { return "coverage-ignore-func" }

// Visit implements Visitor.
func (v CoverageIgnoreFunc) Visit(_ *token.FileSet, file *ast.File, marks *Marks) {
	if file == nil {
		return
	}

	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if ok && hasMarker(fd.Doc, v.Marker) {
			marks.Skip(fd, "function marked "+v.Marker)
		}
	}
}

// CoverageIgnoreType skips every method of a type whose declaration carries Marker.
type CoverageIgnoreType struct {
	Marker string
}

// Name implements Visitor.
func (v CoverageIgnoreType) Name() string { return "coverage-ignore-type" }

// Visit implements Visitor.
func (v CoverageIgnoreType) Visit(_ *token.FileSet, file *ast.File, marks *Marks) {
	if file == nil {
		return
	}

	ignored := make(map[string]bool)

	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}

		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}

			if hasMarker(ts.Doc, v.Marker) || (len(gd.Specs) == 1 && hasMarker(gd.Doc, v.Marker)) {
				ignored[ts.Name.Name] = true

				marks.Skip(gd, "type marked "+v.Marker)
			}
		}
	}

	if len(ignored) == 0 {
		return
	}

	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if ok && fd.Recv != nil && ignored[receiverName(fd.Recv)] {
			marks.Skip(fd, "method of type marked "+v.Marker)
		}
	}
}

func receiverName(recv *ast.FieldList) string {
	if recv == nil || len(recv.List) == 0 {
		return ""
	}

	expr := recv.List[0].Type

	for {
		switch t := expr.(type) {
		case *ast.StarExpr:
			expr = t.X
		case *ast.IndexExpr:
			expr = t.X
		case *ast.IndexListExpr:
			expr = t.X
		case *ast.ParenExpr:
			expr = t.X
		case *ast.Ident:
			return t.Name
		default:
			return ""
		}
	}
}
