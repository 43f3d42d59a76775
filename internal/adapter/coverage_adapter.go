package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/cover"

	m "mutest.dev/pkg/mutest/internal/model"
)

// CoverageAdapter reads Go cover profiles into line coverage.
type CoverageAdapter interface {
	// ModulePath returns the module path declared by root/go.mod.
	ModulePath(ctx context.Context, root m.Path) (string, error)

	// LoadProfile adds every executed line of the profile to into, attributed
	// to test when its name is not empty.
	LoadProfile(ctx context.Context, profile m.Path, root m.Path, test m.TestRef, into *m.Coverage) error
}

// LocalCoverageAdapter implements CoverageAdapter with golang.org/x/tools/cover.
type LocalCoverageAdapter struct{}

// NewLocalCoverageAdapter constructs a LocalCoverageAdapter.
func NewLocalCoverageAdapter() *LocalCoverageAdapter {
	return &LocalCoverageAdapter{}
}

// ModulePath implements CoverageAdapter.
func (a *LocalCoverageAdapter) ModulePath(_ context.Context, root m.Path) (string, error) {
	data, err := os.ReadFile(filepath.Join(string(root), "go.mod"))
	if err != nil {
		return "", fmt.Errorf("read go.mod: %w", err)
	}

	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("no module directive in %s", filepath.Join(string(root), "go.mod"))
	}

	return path, nil
}

// LoadProfile implements CoverageAdapter.
func (a *LocalCoverageAdapter) LoadProfile(ctx context.Context, profile m.Path, root m.Path, test m.TestRef, into *m.Coverage) error {
	modulePath, err := a.ModulePath(ctx, root)
	if err != nil {
		return err
	}

	profiles, err := cover.ParseProfiles(string(profile))
	if err != nil {
		return fmt.Errorf("parse cover profile %s: %w", profile, err)
	}

	for _, p := range profiles {
		if err := ctx.Err(); err != nil {
			return err
		}

		file := ProfileFilePath(root, modulePath, p.FileName)

		for _, block := range p.Blocks {
			if block.Count == 0 {
				continue
			}

			for line := block.StartLine; line <= block.EndLine; line++ {
				into.AddTest(file, line, test)
			}
		}
	}

	return nil
}

// ProfileFilePath maps a cover profile file name (an import path plus file
// name) to a path on disk under root.
func ProfileFilePath(root m.Path, modulePath, fileName string) m.Path {
	if filepath.IsAbs(fileName) {
		return m.Path(filepath.Clean(fileName))
	}

	rel := strings.TrimPrefix(fileName, modulePath)
	if rel == fileName {
		return m.Path(filepath.Clean(fileName))
	}

	return m.Path(filepath.Join(string(root), filepath.FromSlash(strings.TrimPrefix(rel, "/"))))
}
