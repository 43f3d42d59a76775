package mutators

import (
	"go/ast"

	m "mutest.dev/pkg/mutest/internal/model"
)

const regexpPackage = "regexp"

func regexMutators() []Mutator {
	return []Mutator{
		quoteMeta{},
		matchStringFalse{},
	}
}

// quoteMeta replaces regexp.QuoteMeta(s) with s.
type quoteMeta struct{}

func (quoteMeta) Name() string         { return "QuoteMeta" }
func (quoteMeta) Category() m.Category { return m.CategoryRegex }
func (quoteMeta) Description() string  { return "Replaces regexp.QuoteMeta(s) with s" }

func (quoteMeta) ShouldMutate(node ast.Node) bool {
	call, pkg, name, ok := selectorCall(node)
	return ok && pkg == regexpPackage && name == "QuoteMeta" && len(call.Args) == 1 && call.Args[0] != nil
}

func (quoteMeta) Mutate(node ast.Node) ast.Node {
	call, ok := node.(*ast.CallExpr)
	if !ok || len(call.Args) == 0 {
		return node
	}

	return call.Args[0]
}

// matchStringFalse replaces a regular expression match with false.
type matchStringFalse struct{}

func (matchStringFalse) Name() string         { return "MatchStringFalse" }
func (matchStringFalse) Category() m.Category { return m.CategoryRegex }

func (matchStringFalse) Description() string {
	return "Replaces regexp.MatchString(p, s) and re.MatchString(s) with false"
}

func (matchStringFalse) ShouldMutate(node ast.Node) bool {
	call, pkg, name, ok := selectorCall(node)
	if !ok || name != "MatchString" {
		return false
	}

	if pkg == regexpPackage {
		return len(call.Args) == 2
	}

	return len(call.Args) == 1
}

func (matchStringFalse) Mutate(node ast.Node) ast.Node {
	return &ast.Ident{NamePos: node.Pos(), Name: falseStr}
}
