// Package model defines the data structures for mutation testing.
package model

// Path represents a file system path.
type Path string

// File represents a source code file.
type File struct {
	FullPath  Path
	ShortPath Path
	Hash      string
}

// Source pairs a Go source file with its companion test file, if any.
type Source struct {
	Origin  *File
	Test    *File
	Package *string
}

// PackageName returns the package clause name or an empty string.
func (s Source) PackageName() string {
	if s.Package == nil {
		return ""
	}

	return *s.Package
}
