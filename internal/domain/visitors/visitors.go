// Package visitors marks regions of a syntax tree that must not be mutated.
package visitors

import (
	"go/ast"
	"go/token"
	"sort"
	"strings"
)

type span struct {
	from   token.Pos
	to     token.Pos
	reason string
}

// Marks records the regions of one file excluded from mutation.
type Marks struct {
	spans []span
}

// NewMarks returns an empty set of marks.
func NewMarks() *Marks {
	return &Marks{}
}

// Skip excludes node and everything below it.
func (mk *Marks) Skip(node ast.Node, reason string) {
	if node == nil {
		return
	}

	mk.SkipRange(node.Pos(), node.End(), reason)
}

// SkipRange excludes every node lying entirely within [from, to].
func (mk *Marks) SkipRange(from, to token.Pos, reason string) {
	if !from.IsValid() || to < from {
		return
	}

	mk.spans = append(mk.spans, span{from: from, to: to, reason: reason})
}

// Skipped reports whether node lies inside a marked region, and why.
func (mk *Marks) Skipped(node ast.Node) (string, bool) {
	if mk == nil || node == nil {
		return "", false
	}

	pos, end := node.Pos(), node.End()

	for _, s := range mk.spans {
		if pos >= s.from && end <= s.to {
			return s.reason, true
		}
	}

	return "", false
}

// Len returns the number of marked regions.
func (mk *Marks) Len() int {
	if mk == nil {
		return 0
	}

	return len(mk.spans)
}

// Visitor inspects a parsed file before site selection and marks regions to skip.
type Visitor interface {
	Name() string
	Visit(fset *token.FileSet, file *ast.File, marks *Marks)
}

// Prioritized pairs a visitor with its run order. Lower priorities run first.
type Prioritized struct {
	Priority int
	Visitor  Visitor
}

// Sorted returns visitors ordered by ascending priority; ties keep their given order.
func Sorted(vs []Prioritized) []Prioritized {
	out := append([]Prioritized(nil), vs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})

	return out
}

// Apply runs vs over file in priority order and returns the accumulated marks.
func Apply(fset *token.FileSet, file *ast.File, vs []Prioritized) *Marks {
	marks := NewMarks()

	for _, v := range Sorted(vs) {
		if v.Visitor == nil {
			continue
		}

		v.Visitor.Visit(fset, file, marks)
	}

	return marks
}

func hasMarker(group *ast.CommentGroup, marker string) bool {
	if group == nil {
		return false
	}

	for _, c := range group.List {
		if strings.Contains(c.Text, marker) {
			return true
		}
	}

	return false
}
