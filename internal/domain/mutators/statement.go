package mutators

import (
	"go/ast"
	"go/token"

	m "mutest.dev/pkg/mutest/internal/model"
)

func statementMutators() []Mutator {
	return []Mutator{
		functionCallRemoval{},
		deferRemoval{},
	}
}

func unaryMutators() []Mutator {
	return []Mutator{
		unaryMinus{},
		bitwiseNot{},
	}
}

func loopMutators() []Mutator {
	return []Mutator{
		branchSwap{name: "BreakContinue", from: token.BREAK, to: token.CONTINUE},
		branchSwap{name: "ContinueBreak", from: token.CONTINUE, to: token.BREAK},
	}
}

// functionCallRemoval deletes a call used as a statement.
type functionCallRemoval struct{}

func (functionCallRemoval) Name() string         { return "FunctionCallRemoval" }
func (functionCallRemoval) Category() m.Category { return m.CategoryStatement }
func (functionCallRemoval) Description() string  { return "Removes a function call statement" }

func (functionCallRemoval) ShouldMutate(node ast.Node) bool {
	stmt, ok := node.(*ast.ExprStmt)
	if !ok || stmt == nil {
		return false
	}

	call, ok := stmt.X.(*ast.CallExpr)
	if !ok || call == nil {
		return false
	}

	// Removing panic changes control flow rather than behaviour under test.
	return !isIdent(call.Fun, "panic")
}

func (functionCallRemoval) Mutate(ast.Node) ast.Node { return Removal }

// deferRemoval deletes a defer statement.
type deferRemoval struct{}

func (deferRemoval) Name() string         { return "DeferRemoval" }
func (deferRemoval) Category() m.Category { return m.CategoryStatement }
func (deferRemoval) Description() string  { return "Removes a defer statement" }

func (deferRemoval) ShouldMutate(node ast.Node) bool {
	stmt, ok := node.(*ast.DeferStmt)
	return ok && stmt != nil
}

func (deferRemoval) Mutate(ast.Node) ast.Node { return Removal }

// unaryMinus turns -x into +x.
type unaryMinus struct{}

func (unaryMinus) Name() string         { return "UnaryMinus" }
func (unaryMinus) Category() m.Category { return m.CategoryUnary }
func (unaryMinus) Description() string  { return `Replaces unary "-" with "+"` }

func (unaryMinus) ShouldMutate(node ast.Node) bool {
	expr, ok := node.(*ast.UnaryExpr)
	return ok && expr != nil && expr.Op == token.SUB
}

func (unaryMinus) Mutate(node ast.Node) ast.Node {
	expr, ok := node.(*ast.UnaryExpr)
	if !ok {
		return node
	}

	return &ast.UnaryExpr{OpPos: expr.OpPos, Op: token.ADD, X: expr.X}
}

// bitwiseNot drops a bitwise complement: ^x becomes x.
type bitwiseNot struct{}

func (bitwiseNot) Name() string         { return "BitwiseNot" }
func (bitwiseNot) Category() m.Category { return m.CategoryUnary }
func (bitwiseNot) Description() string  { return `Removes the unary "^" operator` }

func (bitwiseNot) ShouldMutate(node ast.Node) bool {
	expr, ok := node.(*ast.UnaryExpr)
	return ok && expr != nil && expr.Op == token.XOR && expr.X != nil
}

func (bitwiseNot) Mutate(node ast.Node) ast.Node {
	expr, ok := node.(*ast.UnaryExpr)
	if !ok {
		return node
	}

	return expr.X
}

// branchSwap exchanges unlabeled break and continue.
type branchSwap struct {
	name string
	from token.Token
	to   token.Token
}

func (b branchSwap) Name() string         { return b.name }
func (b branchSwap) Category() m.Category { return m.CategoryLoop }

func (b branchSwap) Description() string {
	return "Replaces " + b.from.String() + " with " + b.to.String()
}

func (b branchSwap) ShouldMutate(node ast.Node) bool {
	stmt, ok := node.(*ast.BranchStmt)
	return ok && stmt != nil && stmt.Tok == b.from && stmt.Label == nil
}

func (b branchSwap) Mutate(node ast.Node) ast.Node {
	stmt, ok := node.(*ast.BranchStmt)
	if !ok {
		return node
	}

	return &ast.BranchStmt{TokPos: stmt.TokPos, Tok: b.to}
}
