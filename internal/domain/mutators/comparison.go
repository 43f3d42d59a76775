package mutators

import (
	"go/token"

	m "mutest.dev/pkg/mutest/internal/model"
)

// boundaryMutators move a comparison by one: < becomes <= and so on.
func boundaryMutators() []Mutator {
	return []Mutator{
		binaryOperator{name: "LessThan", category: m.CategoryBoundary, from: token.LSS, to: token.LEQ},
		binaryOperator{name: "LessThanOrEqualTo", category: m.CategoryBoundary, from: token.LEQ, to: token.LSS},
		binaryOperator{name: "GreaterThan", category: m.CategoryBoundary, from: token.GTR, to: token.GEQ},
		binaryOperator{name: "GreaterThanOrEqualTo", category: m.CategoryBoundary, from: token.GEQ, to: token.GTR},
	}
}

// conditionalMutators negate a comparison.
func conditionalMutators() []Mutator {
	return []Mutator{
		binaryOperator{name: "Equal", category: m.CategoryConditional, from: token.EQL, to: token.NEQ},
		binaryOperator{name: "NotEqual", category: m.CategoryConditional, from: token.NEQ, to: token.EQL},
		binaryOperator{name: "LessThanNegotiation", category: m.CategoryConditional, from: token.LSS, to: token.GEQ},
		binaryOperator{name: "LessThanOrEqualToNegotiation", category: m.CategoryConditional, from: token.LEQ, to: token.GTR},
		binaryOperator{name: "GreaterThanNegotiation", category: m.CategoryConditional, from: token.GTR, to: token.LEQ},
		binaryOperator{name: "GreaterThanOrEqualToNegotiation", category: m.CategoryConditional, from: token.GEQ, to: token.LSS},
	}
}
