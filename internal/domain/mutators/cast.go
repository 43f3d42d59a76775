package mutators

import (
	"go/ast"
	"strings"

	m "mutest.dev/pkg/mutest/internal/model"
)

func castMutators() []Mutator {
	return []Mutator{
		conversion{name: "CastInt", types: []string{"int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64", "uintptr"}},
		conversion{name: "CastFloat", types: []string{"float32", "float64"}},
		conversion{name: "CastString", types: []string{"string"}},
	}
}

// conversion removes a conversion to a predeclared type: int(x) becomes x.
type conversion struct {
	name  string
	types []string
}

func (c conversion) Name() string         { return c.name }
func (c conversion) Category() m.Category { return m.CategoryCast }

func (c conversion) Description() string {
	return "Removes conversions to " + strings.Join(c.types, ", ")
}

func (c conversion) ShouldMutate(node ast.Node) bool {
	call, ok := node.(*ast.CallExpr)
	if !ok || call == nil || len(call.Args) != 1 || call.Ellipsis.IsValid() || call.Args[0] == nil {
		return false
	}

	ident, ok := call.Fun.(*ast.Ident)
	if !ok || ident == nil {
		return false
	}

	for _, name := range c.types {
		if ident.Name == name {
			return true
		}
	}

	return false
}

func (c conversion) Mutate(node ast.Node) ast.Node {
	call, ok := node.(*ast.CallExpr)
	if !ok || len(call.Args) == 0 {
		return node
	}

	return call.Args[0]
}
