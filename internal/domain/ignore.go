package domain

import (
	"go/ast"
	"go/token"
	"strings"
	"unicode"

	m "mutest.dev/pkg/mutest/internal/model"
)

const ignoreDirective = "mutest:ignore"

// ignoreRule is one parsed `//mutest:ignore [name|category,...]` directive.
type ignoreRule struct {
	all   bool
	names map[string]struct{}
}

func (r ignoreRule) ignores(mutator string, category m.Category) bool {
	if r.all {
		return true
	}

	if len(r.names) == 0 {
		return false
	}

	if _, ok := r.names[strings.ToLower(mutator)]; ok {
		return true
	}

	_, ok := r.names[strings.ToLower(string(category))]

	return ok
}

func (r ignoreRule) empty() bool {
	return !r.all && len(r.names) == 0
}

func mergeIgnoreRule(dst *ignoreRule, src ignoreRule) {
	if src.all {
		dst.all = true
		dst.names = nil

		return
	}

	if dst.all || len(src.names) == 0 {
		return
	}

	if dst.names == nil {
		dst.names = make(map[string]struct{}, len(src.names))
	}

	for name := range src.names {
		dst.names[name] = struct{}{}
	}
}

func parseIgnoreDirective(commentText string) (ignoreRule, bool) {
	s := strings.TrimSpace(commentText)
	if strings.HasPrefix(s, "//") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "//"))
	} else if strings.HasPrefix(s, "/*") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "/*"))
		s = strings.TrimSpace(strings.TrimSuffix(s, "*/"))
	}

	if !strings.HasPrefix(s, ignoreDirective) {
		return ignoreRule{}, false
	}

	rest := strings.TrimSpace(strings.TrimPrefix(s, ignoreDirective))
	if rest == "" {
		return ignoreRule{all: true}, true
	}

	parts := strings.FieldsFunc(rest, func(r rune) bool { return r == ',' || unicode.IsSpace(r) })
	rule := ignoreRule{names: make(map[string]struct{}, len(parts))}

	for _, part := range parts {
		name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(part), "@"))
		if name == "" {
			continue
		}

		rule.names[name] = struct{}{}
	}

	if len(rule.names) == 0 {
		rule.all = true
		rule.names = nil
	}

	return rule, true
}

type funcIgnore struct {
	from token.Pos
	to   token.Pos
	rule ignoreRule
}

// ignoreIndex holds every ignore directive of one file.
type ignoreIndex struct {
	file  ignoreRule
	funcs []funcIgnore
	line  map[int]ignoreRule
}

// ignored reports whether the directives exclude mutator from node.
func (idx ignoreIndex) ignored(node ast.Node, line int, mutator string, category m.Category) bool {
	if idx.file.ignores(mutator, category) {
		return true
	}

	for _, fn := range idx.funcs {
		if node.Pos() >= fn.from && node.End() <= fn.to && fn.rule.ignores(mutator, category) {
			return true
		}
	}

	return idx.line[line].ignores(mutator, category)
}

// prunes reports whether a file or function directive excludes node and
// everything below it from every mutator.
func (idx ignoreIndex) prunes(node ast.Node) bool {
	if idx.file.all {
		return true
	}

	for _, fn := range idx.funcs {
		if fn.rule.all && node.Pos() >= fn.from && node.End() <= fn.to {
			return true
		}
	}

	return false
}

func buildIgnoreIndex(file *ast.File, fset *token.FileSet, content []byte) ignoreIndex {
	funcs, funcDocGroups := buildFuncIgnoreRules(file)
	fileRule := buildFileIgnoreRule(file)
	lineRules := buildLineIgnoreRules(file, fset, content, funcDocGroups)

	return ignoreIndex{file: fileRule, funcs: funcs, line: lineRules}
}

func buildFuncIgnoreRules(file *ast.File) ([]funcIgnore, map[*ast.CommentGroup]struct{}) {
	var funcs []funcIgnore

	funcDocGroups := map[*ast.CommentGroup]struct{}{}

	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Doc == nil {
			continue
		}

		funcDocGroups[fd.Doc] = struct{}{}

		var rule ignoreRule

		for _, c := range fd.Doc.List {
			r, ok := parseIgnoreDirective(c.Text)
			if !ok {
				continue
			}

			mergeIgnoreRule(&rule, r)
		}

		if !rule.empty() {
			funcs = append(funcs, funcIgnore{from: fd.Pos(), to: fd.End(), rule: rule})
		}
	}

	return funcs, funcDocGroups
}

func buildFileIgnoreRule(file *ast.File) ignoreRule {
	var rule ignoreRule

	for _, group := range file.Comments {
		if group.End() >= file.Package {
			continue
		}

		for _, c := range group.List {
			r, ok := parseIgnoreDirective(c.Text)
			if !ok {
				continue
			}

			mergeIgnoreRule(&rule, r)
		}
	}

	return rule
}

// buildLineIgnoreRules maps trailing directives to their own line and
// leading (own-line) directives to the next line.
func buildLineIgnoreRules(
	file *ast.File,
	fset *token.FileSet,
	content []byte,
	funcDocGroups map[*ast.CommentGroup]struct{},
) map[int]ignoreRule {
	lineRules := make(map[int]ignoreRule)
	lineStarts := computeLineStarts(content)

	for _, group := range file.Comments {
		if group.End() < file.Package {
			continue
		}

		if _, ok := funcDocGroups[group]; ok {
			continue
		}

		for _, c := range group.List {
			r, ok := parseIgnoreDirective(c.Text)
			if !ok {
				continue
			}

			pos := fset.PositionFor(c.Slash, true)
			if pos.Line <= 0 {
				continue
			}

			targetLine := pos.Line
			if isLeadingComment(pos.Line, pos.Offset, lineStarts, content) {
				targetLine = pos.Line + 1
			}

			current := lineRules[targetLine]
			mergeIgnoreRule(&current, r)
			lineRules[targetLine] = current
		}
	}

	return lineRules
}

func computeLineStarts(content []byte) []int {
	starts := []int{0}

	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}

	return starts
}

func isLeadingComment(line int, slashOffset int, lineStarts []int, content []byte) bool {
	if line <= 0 || line > len(lineStarts) {
		return false
	}

	start := lineStarts[line-1]
	if slashOffset < start || slashOffset > len(content) {
		return false
	}

	for _, b := range content[start:slashOffset] {
		if !unicode.IsSpace(rune(b)) {
			return false
		}
	}

	return true
}
