package model

import "fmt"

// Category classifies mutators for reporting. It never drives behaviour.
type Category string

// Mutator categories.
const (
	CategoryArithmetic  Category = "arithmetic"
	CategoryBoundary    Category = "boundary"
	CategoryConditional Category = "conditional"
	CategoryLogical     Category = "logical"
	CategoryBoolean     Category = "boolean"
	CategoryNumber      Category = "number"
	CategoryRegex       Category = "regex"
	CategoryReturn      Category = "return"
	CategoryCast        Category = "cast"
	CategoryStatement   Category = "statement"
	CategoryUnary       Category = "unary"
	CategoryLoop        Category = "loop"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryArithmetic,
	CategoryBoundary,
	CategoryConditional,
	CategoryLogical,
	CategoryBoolean,
	CategoryNumber,
	CategoryRegex,
	CategoryReturn,
	CategoryCast,
	CategoryStatement,
	CategoryUnary,
	CategoryLoop,
}

// NodeRef is a stable handle to a syntax node: its Go type name and byte span.
// The same handle resolves to the structurally identical node in any tree
// parsed from the same bytes.
type NodeRef struct {
	Kind   string
	Offset int
	End    int
}

func (r NodeRef) String() string {
	return fmt.Sprintf("%s[%d:%d]", r.Kind, r.Offset, r.End)
}

// Site is a (file, node, mutator) candidate found by the selector.
type Site struct {
	ID       string
	Source   Source
	Ref      NodeRef
	Mutator  string
	Category Category
	Line     int
	Column   int
	Original string
	// Status is Pending for executable sites and NotCovered for sites outside coverage.
	Status Status
	// Tests lists the tests known to cover the site's line.
	Tests []string
	// Packages lists the packages declaring those tests.
	Packages []string
}

// Mutant is one source file with exactly one site mutated.
type Mutant struct {
	Site    Site
	Code    []byte
	Mutated string
	Diff    []byte
}
