package adapter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "mutest.dev/pkg/mutest/internal/model"
)

func TestLocalCoverageAdapter_LoadProfile(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "go.mod"), "module example.com/calc\n\ngo 1.22\n")

	profile := filepath.Join(root, "cover.out")
	writeTestFile(t, profile, `mode: set
example.com/calc/calc.go:3.24,5.2 1 1
example.com/calc/calc.go:7.24,9.2 1 0
example.com/calc/internal/sub/sub.go:4.10,4.30 1 1
`)

	a := NewLocalCoverageAdapter()
	cov := m.NewCoverage()

	require.NoError(t, a.LoadProfile(context.Background(), m.Path(profile), m.Path(root), m.TestRef{Package: "example.com/calc", Name: "TestAdd"}, cov))

	calc := cov.For(m.Path(filepath.Join(root, "calc.go")))
	require.NotNil(t, calc)
	assert.True(t, calc.Covers(3))
	assert.True(t, calc.Covers(5))
	assert.False(t, calc.Covers(8))
	assert.Equal(t, []string{"TestAdd"}, calc.TestsFor(4))
	assert.Equal(t, []string{"example.com/calc"}, calc.PackagesFor(4))

	sub := cov.For(m.Path(filepath.Join(root, "internal", "sub", "sub.go")))
	assert.True(t, sub.Covers(4))
}

func TestLocalCoverageAdapter_ModulePath(t *testing.T) {
	root := t.TempDir()
	a := NewLocalCoverageAdapter()

	_, err := a.ModulePath(context.Background(), m.Path(root))
	require.Error(t, err)

	writeTestFile(t, filepath.Join(root, "go.mod"), "module example.com/calc\n")

	path, err := a.ModulePath(context.Background(), m.Path(root))
	require.NoError(t, err)
	assert.Equal(t, "example.com/calc", path)
}

func TestProfileFilePath(t *testing.T) {
	assert.Equal(t, m.Path(filepath.Join("/src", "a", "b.go")), ProfileFilePath("/src", "example.com/m", "example.com/m/a/b.go"))
	assert.Equal(t, m.Path("other.org/x/y.go"), ProfileFilePath("/src", "example.com/m", "other.org/x/y.go"))
	assert.Equal(t, m.Path("/abs/y.go"), ProfileFilePath("/src", "example.com/m", "/abs/y.go"))
}
