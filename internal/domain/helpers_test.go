package domain

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mutest.dev/pkg/mutest/internal/adapter"
	"mutest.dev/pkg/mutest/internal/domain/mutators"
	m "mutest.dev/pkg/mutest/internal/model"
)

// writeSource writes src under dir and returns the matching model source.
func writeSource(t *testing.T, dir, name, src string) m.Source {
	t.Helper()

	full := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(t, os.WriteFile(full, []byte(src), 0o600))

	return m.Source{Origin: &m.File{FullPath: m.Path(full), ShortPath: m.Path(name)}}
}

func parseSource(t *testing.T, source m.Source) *Tree {
	t.Helper()

	src, err := os.ReadFile(string(source.Origin.FullPath))
	require.NoError(t, err)

	tree, err := ParseTree(context.Background(), adapter.NewLocalGoFileAdapter(), source.Origin.FullPath, src)
	require.NoError(t, err)

	return tree
}

func mutatorsNamed(t *testing.T, names ...string) []mutators.Mutator {
	t.Helper()

	resolved, err := mutators.Default().Resolve(names)
	require.NoError(t, err)

	return resolved
}

func newTestGenerator(t *testing.T) Generator {
	t.Helper()

	gen, err := NewGenerator(adapter.NewLocalGoFileAdapter(), adapter.NewLocalSourceFSAdapter(), mutators.Default(), 4)
	require.NoError(t, err)

	return gen
}

func sitesByMutator(sites []m.Site, name string) []m.Site {
	var out []m.Site

	for _, site := range sites {
		if site.Mutator == name {
			out = append(out, site)
		}
	}

	return out
}
