package model

import (
	"path/filepath"
	"sort"
)

// TestRef names a test in the package that declares it. Package is the
// import path and stays empty for frameworks without packages.
type TestRef struct {
	Package string
	Name    string
}

// FileCoverage maps covered line numbers to the tests that execute them.
// A covered line with an unknown test maps to an empty slice.
type FileCoverage struct {
	Lines map[int][]string
	// Packages maps covered lines to the packages of the covering tests.
	Packages map[int][]string
}

// Covers reports whether any test executes line.
func (fc *FileCoverage) Covers(line int) bool {
	if fc == nil {
		return false
	}

	_, ok := fc.Lines[line]

	return ok
}

// TestsFor returns the sorted names of the tests covering line.
func (fc *FileCoverage) TestsFor(line int) []string {
	if fc == nil {
		return nil
	}

	tests := append([]string(nil), fc.Lines[line]...)
	sort.Strings(tests)

	return tests
}

// PackagesFor returns the sorted packages whose tests cover line.
func (fc *FileCoverage) PackagesFor(line int) []string {
	if fc == nil {
		return nil
	}

	packages := append([]string(nil), fc.Packages[line]...)
	sort.Strings(packages)

	return packages
}

// Coverage is the read-only per-file coverage data shared by all selectors.
type Coverage struct {
	Files map[Path]*FileCoverage
}

// NewCoverage returns an empty coverage set.
func NewCoverage() *Coverage {
	return &Coverage{Files: make(map[Path]*FileCoverage)}
}

// Add marks line of path as covered, optionally by test.
func (c *Coverage) Add(path Path, line int, test string) {
	key := Path(filepath.Clean(string(path)))

	fc, ok := c.Files[key]
	if !ok {
		fc = &FileCoverage{Lines: make(map[int][]string), Packages: make(map[int][]string)}
		c.Files[key] = fc
	}

	tests := fc.Lines[line]
	if test == "" {
		if tests == nil {
			fc.Lines[line] = []string{}
		}

		return
	}

	fc.Lines[line] = appendUnique(tests, test)
}

// AddTest marks line of path as covered by test and records its package.
func (c *Coverage) AddTest(path Path, line int, test TestRef) {
	c.Add(path, line, test.Name)

	if test.Name == "" || test.Package == "" {
		return
	}

	fc := c.Files[Path(filepath.Clean(string(path)))]
	fc.Packages[line] = appendUnique(fc.Packages[line], test.Package)
}

func appendUnique(values []string, value string) []string {
	for _, existing := range values {
		if existing == value {
			return values
		}
	}

	return append(values, value)
}

// For returns the coverage of path or nil when the file was never executed.
func (c *Coverage) For(path Path) *FileCoverage {
	if c == nil {
		return nil
	}

	return c.Files[Path(filepath.Clean(string(path)))]
}
