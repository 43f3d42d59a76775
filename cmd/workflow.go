package cmd

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/spf13/viper"

	"mutest.dev/pkg/mutest/internal/adapter"
	"mutest.dev/pkg/mutest/internal/domain"
	"mutest.dev/pkg/mutest/internal/domain/mutators"
)

// configuredWorkflow builds the real workflow on first use, after flags have
// been bound and parsed.
type configuredWorkflow struct {
	build func(ctx context.Context) (domain.Workflow, error)

	once  sync.Once
	inner domain.Workflow
	err   error
}

func (c *configuredWorkflow) get(ctx context.Context) (domain.Workflow, error) {
	c.once.Do(func() {
		c.inner, c.err = c.build(ctx)
	})

	return c.inner, c.err
}

func (c *configuredWorkflow) Estimate(ctx context.Context, args domain.EstimateArgs) error {
	w, err := c.get(ctx)
	if err != nil {
		return err
	}

	return w.Estimate(ctx, args)
}

func (c *configuredWorkflow) Test(ctx context.Context, args domain.TestArgs) error {
	w, err := c.get(ctx)
	if err != nil {
		return err
	}

	return w.Test(ctx, args)
}

func (c *configuredWorkflow) View(ctx context.Context, args domain.ViewArgs) error {
	w, err := c.get(ctx)
	if err != nil {
		return err
	}

	return w.View(ctx, args)
}

func (c *configuredWorkflow) Merge(ctx context.Context, args domain.MergeArgs) error {
	w, err := c.get(ctx)
	if err != nil {
		return err
	}

	return w.Merge(ctx, args)
}

// buildWorkflow wires the framework, catalog, and execution components from config.
func buildWorkflow(ctx context.Context) (domain.Workflow, error) {
	framework, err := adapter.NewTestFrameworkAdapter(viper.GetString(frameworkKey), adapter.FrameworkOptions{
		Binary: viper.GetString(frameworkBinaryKey),
	})
	if err != nil {
		return nil, err
	}

	selectorOpts, err := selectorOptions()
	if err != nil {
		return nil, err
	}

	catalog := mutators.Default()

	generator, err := domain.NewGenerator(goFileAdapter, fsAdapter, catalog, domain.DefaultTreeCacheSize)
	if err != nil {
		return nil, err
	}

	collector := domain.NewCoverageCollector(fsAdapter, processRunner, framework, coverageAdapter)
	orchestrator := domain.NewOrchestrator(fsAdapter, processRunner, framework, domain.OrchestratorOptions{
		ProjectRoot:  projectRoot(ctx),
		ConfigPath:   viper.GetString(frameworkConfigKey),
		ExtraOptions: viper.GetStringSlice(frameworkOptionsKey),
	})

	return domain.NewWorkflow(
		fsAdapter,
		reportStore,
		ui,
		generator,
		collector,
		orchestrator,
		domain.WorkflowOptions{
			Framework: framework,
			Selector:  selectorOpts,
			Score:     scoreOptions(),
		},
	), nil
}

func selectorOptions() (domain.SelectorOptions, error) {
	selected, err := mutators.Default().Resolve(viper.GetStringSlice(mutatorsProfileKey))
	if err != nil {
		return domain.SelectorOptions{}, err
	}

	opts := domain.SelectorOptions{
		Mutators:   selected,
		MultiMatch: viper.GetBool(multiMatchKey),
	}

	if pattern := viper.GetString(sourceRegexKey); pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return domain.SelectorOptions{}, fmt.Errorf("invalid %s %q: %w", sourceRegexKey, pattern, err)
		}

		opts.SourceRegex = re
	}

	return opts, nil
}

func scoreOptions() domain.ScoreOptions {
	return domain.ScoreOptions{
		Precision:         viper.GetInt(scorePrecisionKey),
		CountErrors:       viper.GetBool(scoreCountErrorsKey),
		IncludeNotCovered: viper.GetBool(scoreIncludeNotCoveredKey),
	}
}
