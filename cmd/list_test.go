package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mutest.dev/pkg/mutest/internal/domain"
	m "mutest.dev/pkg/mutest/internal/model"
)

func TestListCmd_PassesPathsAndExcludes(t *testing.T) {
	mockWorkflow := useMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newListCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	mockWorkflow.On("Estimate", mock.Anything, mock.MatchedBy(func(args domain.EstimateArgs) bool {
		return args.Root != "" &&
			len(args.Paths) == 1 && args.Paths[0] == m.Path("./internal/...") &&
			len(args.Exclude) == 1 && args.Exclude[0] == "_gen\\.go$"
	})).Return(nil)

	cmd.SetArgs([]string{"list", "-x", "_gen\\.go$", "./internal/..."})
	require.NoError(t, cmd.Execute())
}

func TestListCmd_DefaultsToNoPaths(t *testing.T) {
	mockWorkflow := useMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newListCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	mockWorkflow.On("Estimate", mock.Anything, mock.MatchedBy(func(args domain.EstimateArgs) bool {
		return len(args.Paths) == 0 && len(args.Exclude) == 0
	})).Return(nil)

	cmd.SetArgs([]string{"list"})
	require.NoError(t, cmd.Execute())
}
