package mutators

import (
	"go/ast"
	"go/token"

	m "mutest.dev/pkg/mutest/internal/model"
)

func returnMutators() []Mutator {
	return []Mutator{negateReturnedBool{}}
}

var booleanOperators = map[token.Token]bool{
	token.EQL:  true,
	token.NEQ:  true,
	token.LSS:  true,
	token.LEQ:  true,
	token.GTR:  true,
	token.GEQ:  true,
	token.LAND: true,
	token.LOR:  true,
}

// negateReturnedBool wraps a single boolean-shaped return value in a negation.
type negateReturnedBool struct{}

func (negateReturnedBool) Name() string         { return "NegateReturnedBool" }
func (negateReturnedBool) Category() m.Category { return m.CategoryReturn }
func (negateReturnedBool) Description() string  { return "Replaces return cond with return !(cond)" }

func (negateReturnedBool) ShouldMutate(node ast.Node) bool {
	stmt, ok := node.(*ast.ReturnStmt)
	if !ok || stmt == nil || len(stmt.Results) != 1 {
		return false
	}

	switch expr := stmt.Results[0].(type) {
	case *ast.BinaryExpr:
		return expr != nil && booleanOperators[expr.Op]
	case *ast.UnaryExpr:
		return expr != nil && expr.Op == token.NOT
	default:
		return false
	}
}

func (negateReturnedBool) Mutate(node ast.Node) ast.Node {
	stmt, ok := node.(*ast.ReturnStmt)
	if !ok || len(stmt.Results) != 1 {
		return node
	}

	result := stmt.Results[0]
	operand := result

	if _, isBinary := result.(*ast.BinaryExpr); isBinary {
		operand = &ast.ParenExpr{Lparen: result.Pos(), X: result, Rparen: result.End()}
	}

	return &ast.ReturnStmt{
		Return:  stmt.Return,
		Results: []ast.Expr{&ast.UnaryExpr{OpPos: result.Pos(), Op: token.NOT, X: operand}},
	}
}
