package mutators

import (
	"fmt"
	"go/ast"
	"go/token"

	m "mutest.dev/pkg/mutest/internal/model"
)

func arithmeticMutators() []Mutator {
	return []Mutator{
		binaryOperator{name: "Plus", category: m.CategoryArithmetic, from: token.ADD, to: token.SUB, skipStrings: true},
		binaryOperator{name: "Minus", category: m.CategoryArithmetic, from: token.SUB, to: token.ADD},
		binaryOperator{name: "Multiplication", category: m.CategoryArithmetic, from: token.MUL, to: token.QUO},
		binaryOperator{name: "Division", category: m.CategoryArithmetic, from: token.QUO, to: token.MUL},
		binaryOperator{name: "Modulus", category: m.CategoryArithmetic, from: token.REM, to: token.MUL},
		binaryOperator{name: "BitwiseAnd", category: m.CategoryArithmetic, from: token.AND, to: token.OR},
		binaryOperator{name: "BitwiseOr", category: m.CategoryArithmetic, from: token.OR, to: token.AND},
		binaryOperator{name: "BitwiseXor", category: m.CategoryArithmetic, from: token.XOR, to: token.AND},
		binaryOperator{name: "BitClear", category: m.CategoryArithmetic, from: token.AND_NOT, to: token.AND},
		binaryOperator{name: "ShiftLeft", category: m.CategoryArithmetic, from: token.SHL, to: token.SHR},
		binaryOperator{name: "ShiftRight", category: m.CategoryArithmetic, from: token.SHR, to: token.SHL},
		assignOperator{name: "PlusAssignment", from: token.ADD_ASSIGN, to: token.SUB_ASSIGN},
		assignOperator{name: "MinusAssignment", from: token.SUB_ASSIGN, to: token.ADD_ASSIGN},
		assignOperator{name: "MulAssignment", from: token.MUL_ASSIGN, to: token.QUO_ASSIGN},
		assignOperator{name: "DivAssignment", from: token.QUO_ASSIGN, to: token.MUL_ASSIGN},
		incDec{name: "Increment", from: token.INC, to: token.DEC},
		incDec{name: "Decrement", from: token.DEC, to: token.INC},
	}
}

// incDec turns x++ into x-- and back.
type incDec struct {
	name string
	from token.Token
	to   token.Token
}

func (i incDec) Name() string         { return i.name }
func (i incDec) Category() m.Category { return m.CategoryArithmetic }

func (i incDec) Description() string {
	return fmt.Sprintf("Replaces %q with %q", i.from.String(), i.to.String())
}

func (i incDec) ShouldMutate(node ast.Node) bool {
	stmt, ok := node.(*ast.IncDecStmt)
	return ok && stmt != nil && stmt.Tok == i.from
}

func (i incDec) Mutate(node ast.Node) ast.Node {
	stmt, ok := node.(*ast.IncDecStmt)
	if !ok {
		return node
	}

	return &ast.IncDecStmt{X: stmt.X, TokPos: stmt.TokPos, Tok: i.to}
}
