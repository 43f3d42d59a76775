package mutators

import (
	"go/ast"
	"go/token"

	m "mutest.dev/pkg/mutest/internal/model"
)

const (
	trueStr  = "true"
	falseStr = "false"
)

func logicalMutators() []Mutator {
	return []Mutator{
		binaryOperator{name: "LogicalAnd", category: m.CategoryLogical, from: token.LAND, to: token.LOR},
		binaryOperator{name: "LogicalOr", category: m.CategoryLogical, from: token.LOR, to: token.LAND},
		logicalNot{},
	}
}

func booleanMutators() []Mutator {
	return []Mutator{
		booleanLiteral{name: "TrueValue", from: trueStr, to: falseStr},
		booleanLiteral{name: "FalseValue", from: falseStr, to: trueStr},
	}
}

// logicalNot drops a negation: !x becomes x.
type logicalNot struct{}

func (logicalNot) Name() string         { return "LogicalNot" }
func (logicalNot) Category() m.Category { return m.CategoryLogical }
func (logicalNot) Description() string  { return `Removes the "!" operator` }

func (logicalNot) ShouldMutate(node ast.Node) bool {
	expr, ok := node.(*ast.UnaryExpr)
	return ok && expr != nil && expr.Op == token.NOT && expr.X != nil
}

func (logicalNot) Mutate(node ast.Node) ast.Node {
	expr, ok := node.(*ast.UnaryExpr)
	if !ok {
		return node
	}

	return expr.X
}

// booleanLiteral flips true and false.
type booleanLiteral struct {
	name string
	from string
	to   string
}

func (b booleanLiteral) Name() string         { return b.name }
func (b booleanLiteral) Category() m.Category { return m.CategoryBoolean }
func (b booleanLiteral) Description() string  { return "Replaces " + b.from + " with " + b.to }

func (b booleanLiteral) ShouldMutate(node ast.Node) bool {
	ident, ok := node.(*ast.Ident)
	return ok && ident != nil && ident.Name == b.from
}

func (b booleanLiteral) Mutate(node ast.Node) ast.Node {
	ident, ok := node.(*ast.Ident)
	if !ok {
		return node
	}

	return &ast.Ident{NamePos: ident.NamePos, Name: b.to}
}
