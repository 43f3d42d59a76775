package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mutest.dev/pkg/mutest/internal/adapter"
	"mutest.dev/pkg/mutest/internal/domain"
	domainmocks "mutest.dev/pkg/mutest/internal/domain/mocks"
	"mutest.dev/pkg/mutest/internal/domain/mutators"
)

// setConfig overrides a viper key for the duration of the test.
func setConfig(t *testing.T, key string, value, reset any) {
	t.Helper()

	viper.Set(key, value)
	t.Cleanup(func() { viper.Set(key, reset) })
}

func TestConfiguredWorkflow_BuildsOnce(t *testing.T) {
	inner := domainmocks.NewMockWorkflow(t)
	builds := 0

	configured := &configuredWorkflow{build: func(context.Context) (domain.Workflow, error) {
		builds++
		return inner, nil
	}}

	ctx := context.Background()

	inner.On("Estimate", mock.Anything, domain.EstimateArgs{}).Return(nil)
	inner.On("Test", mock.Anything, domain.TestArgs{}).Return(nil)
	inner.On("View", mock.Anything, domain.ViewArgs{}).Return(nil)
	inner.On("Merge", mock.Anything, domain.MergeArgs{}).Return(nil)

	require.NoError(t, configured.Estimate(ctx, domain.EstimateArgs{}))
	require.NoError(t, configured.Test(ctx, domain.TestArgs{}))
	require.NoError(t, configured.View(ctx, domain.ViewArgs{}))
	require.NoError(t, configured.Merge(ctx, domain.MergeArgs{}))

	assert.Equal(t, 1, builds)
}

func TestConfiguredWorkflow_BuildError(t *testing.T) {
	boom := errors.New("boom")

	configured := &configuredWorkflow{build: func(context.Context) (domain.Workflow, error) {
		return nil, boom
	}}

	ctx := context.Background()

	require.ErrorIs(t, configured.Estimate(ctx, domain.EstimateArgs{}), boom)
	require.ErrorIs(t, configured.Test(ctx, domain.TestArgs{}), boom)
	require.ErrorIs(t, configured.View(ctx, domain.ViewArgs{}), boom)
	require.ErrorIs(t, configured.Merge(ctx, domain.MergeArgs{}), boom)
}

func TestBuildWorkflow(t *testing.T) {
	w, err := buildWorkflow(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, w)
}

func TestBuildWorkflow_UnknownFramework(t *testing.T) {
	setConfig(t, frameworkKey, "nose", defaultFramework)

	_, err := buildWorkflow(context.Background())
	require.ErrorIs(t, err, adapter.ErrUnknownFramework)
}

func TestSelectorOptions(t *testing.T) {
	t.Run("default profile", func(t *testing.T) {
		opts, err := selectorOptions()
		require.NoError(t, err)

		assert.Len(t, opts.Mutators, mutators.Default().Len())
		assert.False(t, opts.MultiMatch)
		assert.Nil(t, opts.SourceRegex)
	})

	t.Run("profile and source regex", func(t *testing.T) {
		setConfig(t, mutatorsProfileKey, []string{"Minus", "Plus"}, []string{mutators.DefaultProfile})
		setConfig(t, multiMatchKey, true, false)
		setConfig(t, sourceRegexKey, `log\.`, "")

		opts, err := selectorOptions()
		require.NoError(t, err)

		require.Len(t, opts.Mutators, 2)
		assert.True(t, opts.MultiMatch)
		require.NotNil(t, opts.SourceRegex)
		assert.True(t, opts.SourceRegex.MatchString(`log.Println("x")`))
	})

	t.Run("invalid source regex", func(t *testing.T) {
		setConfig(t, sourceRegexKey, "(", "")

		_, err := selectorOptions()
		require.ErrorContains(t, err, sourceRegexKey)
	})

	t.Run("unknown mutator", func(t *testing.T) {
		setConfig(t, mutatorsProfileKey, []string{"Nope"}, []string{mutators.DefaultProfile})

		_, err := selectorOptions()
		require.ErrorIs(t, err, mutators.ErrUnknownMutator)
	})
}

func TestScoreOptions(t *testing.T) {
	assert.Equal(t, domain.ScoreOptions{Precision: defaultScorePrecision}, scoreOptions())

	setConfig(t, scoreCountErrorsKey, true, false)
	setConfig(t, scoreIncludeNotCoveredKey, true, false)

	opts := scoreOptions()
	assert.True(t, opts.CountErrors)
	assert.True(t, opts.IncludeNotCovered)
}
