// Package mutators provides the catalog of source transformations applied to Go syntax trees.
package mutators

import (
	"fmt"
	"go/ast"
	"go/token"

	m "mutest.dev/pkg/mutest/internal/model"
)

// Mutator recognises one node shape and produces its replacement.
//
// ShouldMutate must be total over every ast.Node (including nil) and free of
// side effects. Mutate is only called for a node ShouldMutate accepted; it
// must be deterministic, must not modify its argument, and must carry the
// original positions onto the replacement.
type Mutator interface {
	Name() string
	Category() m.Category
	Description() string
	ShouldMutate(node ast.Node) bool
	Mutate(node ast.Node) ast.Node
}

type removal struct{}

func (removal) Pos() token.Pos { return token.NoPos }
func (removal) End() token.Pos { return token.NoPos }

// Removal is returned by Mutate when the node should be deleted rather than replaced.
var Removal ast.Node = removal{}

// IsRemoval reports whether n is the removal marker.
func IsRemoval(n ast.Node) bool {
	_, ok := n.(removal)
	return ok
}

// binaryOperator swaps one binary operator for another, keeping operand order.
type binaryOperator struct {
	name     string
	category m.Category
	from     token.Token
	to       token.Token
	// skipStrings avoids operators that would not compile on string operands.
	// Only operands that are strings by their syntax are detected.
	skipStrings bool
}

func (b binaryOperator) Name() string         { return b.name }
func (b binaryOperator) Category() m.Category { return b.category }

func (b binaryOperator) Description() string {
	description := fmt.Sprintf("Replaces %q with %q", b.from.String(), b.to.String())
	if b.skipStrings {
		description += "; string concatenation is skipped only when an operand is visibly a string"
	}

	return description
}

func (b binaryOperator) ShouldMutate(node ast.Node) bool {
	expr, ok := node.(*ast.BinaryExpr)
	if !ok || expr == nil || expr.Op != b.from {
		return false
	}

	if b.skipStrings && (isStringExpr(expr.X) || isStringExpr(expr.Y)) {
		return false
	}

	return true
}

func (b binaryOperator) Mutate(node ast.Node) ast.Node {
	expr, ok := node.(*ast.BinaryExpr)
	if !ok {
		return node
	}

	return &ast.BinaryExpr{X: expr.X, OpPos: expr.OpPos, Op: b.to, Y: expr.Y}
}

// assignOperator swaps a compound assignment token.
type assignOperator struct {
	name string
	from token.Token
	to   token.Token
}

func (a assignOperator) Name() string         { return a.name }
func (a assignOperator) Category() m.Category { return m.CategoryArithmetic }

func (a assignOperator) Description() string {
	return fmt.Sprintf("Replaces %q with %q", a.from.String(), a.to.String())
}

func (a assignOperator) ShouldMutate(node ast.Node) bool {
	stmt, ok := node.(*ast.AssignStmt)
	if !ok || stmt == nil || stmt.Tok != a.from {
		return false
	}

	for _, rhs := range stmt.Rhs {
		if isStringExpr(rhs) {
			return false
		}
	}

	return true
}

func (a assignOperator) Mutate(node ast.Node) ast.Node {
	stmt, ok := node.(*ast.AssignStmt)
	if !ok {
		return node
	}

	return &ast.AssignStmt{Lhs: stmt.Lhs, TokPos: stmt.TokPos, Tok: a.to, Rhs: stmt.Rhs}
}

func isStringLiteral(expr ast.Expr) bool {
	lit, ok := expr.(*ast.BasicLit)
	return ok && lit != nil && (lit.Kind == token.STRING || lit.Kind == token.CHAR)
}

func isIdent(expr ast.Expr, name string) bool {
	ident, ok := expr.(*ast.Ident)
	return ok && ident != nil && ident.Name == name
}

// selectorCall returns the package (or receiver) identifier and selector name of a call.
func selectorCall(node ast.Node) (*ast.CallExpr, string, string, bool) {
	call, ok := node.(*ast.CallExpr)
	if !ok || call == nil {
		return nil, "", "", false
	}

	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || sel == nil || sel.Sel == nil {
		return nil, "", "", false
	}

	x, ok := sel.X.(*ast.Ident)
	if !ok || x == nil {
		return call, "", sel.Sel.Name, true
	}

	return call, x.Name, sel.Sel.Name, true
}

// stringFuncs are package functions known to return a string.
var stringFuncs = map[string]map[string]bool{
	"fmt": {"Sprint": true, "Sprintf": true, "Sprintln": true},
	"strings": {
		"Join": true, "Repeat": true, "Replace": true, "ReplaceAll": true, "Title": true,
		"ToLower": true, "ToUpper": true, "ToTitle": true, "Trim": true, "TrimSpace": true,
		"TrimLeft": true, "TrimRight": true, "TrimPrefix": true, "TrimSuffix": true,
	},
	"strconv": {"Itoa": true, "FormatInt": true, "FormatUint": true, "FormatFloat": true, "FormatBool": true, "Quote": true},
	"filepath": {"Join": true, "Base": true, "Dir": true, "Ext": true, "Clean": true},
	"path":     {"Join": true, "Base": true, "Dir": true, "Ext": true, "Clean": true},
}

// isStringExpr reports whether expr is a string by its syntax alone: a
// literal, a string conversion, a call to a known string function, or a
// concatenation involving one of those.
func isStringExpr(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.BasicLit:
		return isStringLiteral(e)
	case *ast.ParenExpr:
		return isStringExpr(e.X)
	case *ast.BinaryExpr:
		return e.Op == token.ADD && (isStringExpr(e.X) || isStringExpr(e.Y))
	case *ast.CallExpr:
		switch fun := e.Fun.(type) {
		case *ast.Ident:
			return fun.Name == "string"
		case *ast.SelectorExpr:
			pkg, ok := fun.X.(*ast.Ident)
			return ok && stringFuncs[pkg.Name][fun.Sel.Name]
		}
	}

	return false
}
