package mutators

import (
	"go/ast"
	"go/token"
	"strconv"

	m "mutest.dev/pkg/mutest/internal/model"
)

func numberMutators() []Mutator {
	return []Mutator{
		oneZeroInteger{},
		integerStep{name: "IncrementInteger", delta: 1},
		integerStep{name: "DecrementInteger", delta: -1},
	}
}

func intLiteral(node ast.Node) (*ast.BasicLit, int64, bool) {
	lit, ok := node.(*ast.BasicLit)
	if !ok || lit == nil || lit.Kind != token.INT {
		return nil, 0, false
	}

	value, err := strconv.ParseInt(lit.Value, 0, 64)
	if err != nil {
		return nil, 0, false
	}

	return lit, value, true
}

// oneZeroInteger swaps the literals 0 and 1.
type oneZeroInteger struct{}

func (oneZeroInteger) Name() string         { return "OneZeroInteger" }
func (oneZeroInteger) Category() m.Category { return m.CategoryNumber }
func (oneZeroInteger) Description() string  { return "Replaces 0 with 1 and 1 with 0" }

func (oneZeroInteger) ShouldMutate(node ast.Node) bool {
	_, value, ok := intLiteral(node)
	return ok && (value == 0 || value == 1)
}

func (oneZeroInteger) Mutate(node ast.Node) ast.Node {
	lit, value, ok := intLiteral(node)
	if !ok {
		return node
	}

	return &ast.BasicLit{ValuePos: lit.ValuePos, Kind: token.INT, Value: strconv.FormatInt(1-value, 10)}
}

// integerStep adds delta to a non-negative integer literal.
type integerStep struct {
	name  string
	delta int64
}

func (s integerStep) Name() string         { return s.name }
func (s integerStep) Category() m.Category { return m.CategoryNumber }

func (s integerStep) Description() string {
	if s.delta > 0 {
		return "Increments an integer literal by one"
	}

	return "Decrements an integer literal by one"
}

func (s integerStep) ShouldMutate(node ast.Node) bool {
	_, value, ok := intLiteral(node)
	if !ok {
		return false
	}

	// Negative literals do not exist in Go source; keep results non-negative too.
	return value+s.delta >= 0 && value < 1<<62
}

func (s integerStep) Mutate(node ast.Node) ast.Node {
	lit, value, ok := intLiteral(node)
	if !ok {
		return node
	}

	return &ast.BasicLit{ValuePos: lit.ValuePos, Kind: token.INT, Value: strconv.FormatInt(value+s.delta, 10)}
}
