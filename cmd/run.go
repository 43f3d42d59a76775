package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mutest.dev/pkg/mutest/internal/domain"
	m "mutest.dev/pkg/mutest/internal/model"
)

var runParallelFlag int
var runShardFlag string
var mutationTimeoutFlag time.Duration
var budgetFlag time.Duration
var maxMutantsFlag int
var frameworkFlag string
var frameworkOptionsFlag []string
var initialOptionsFlag []string
var mutatorsFlag []string
var multiMatchFlag bool
var coverageFlag bool
var perTestFlag bool
var minScoreFlag float64

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run mutation testing",
		Long:  runLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := commandContext(cmd)
			defer stop()

			shardIndex, totalShards := parseShardFlag(runShardFlag)
			estimate := estimateArgs(ctx, args)

			return workflow.Test(ctx, domain.TestArgs{
				EstimateArgs:    estimate,
				Reports:         m.Path(viper.GetString(outputFlagName)),
				Threads:         viper.GetInt(runParallelConfigKey),
				ShardIndex:      shardIndex,
				TotalShardCount: totalShards,
				MutationTimeout: viper.GetDuration(mutationTimeoutKey),
				Budget:          viper.GetDuration(budgetKey),
				MaxMutants:      viper.GetInt(maxMutantsKey),
				MinScore:        viper.GetFloat64(scoreMinKey),
				SpillDir:        viper.GetString(spillDirKey),
				Baseline: domain.BaselineArgs{
					ProjectRoot:    estimate.Root,
					ConfigPath:     viper.GetString(frameworkConfigKey),
					ExtraOptions:   viper.GetStringSlice(frameworkOptionsKey),
					InitialOptions: viper.GetStringSlice(initialOptionsKey),
					Coverage:       viper.GetBool(coverageEnabledKey),
					PerTest:        viper.GetBool(coveragePerTestKey),
					ProfilePath:    m.Path(viper.GetString(coverageProfileKey)),
				},
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.IntVarP(&runParallelFlag, runParallelFlagName, "p", defaultRunParallel, "number of parallel workers for mutation testing")
	bindFlagToConfig(flags.Lookup(runParallelFlagName), runParallelConfigKey)

	flags.StringVarP(&runShardFlag, shardFlagName, "s", "", "shard index and total shard count in the format INDEX/TOTAL (e.g., 0/3)")

	flags.DurationVar(&mutationTimeoutFlag, mutationTimeoutFlagName, 0, "timeout for one mutant (0 derives it from the baseline)")
	bindFlagToConfig(flags.Lookup(mutationTimeoutFlagName), mutationTimeoutKey)

	flags.DurationVar(&budgetFlag, budgetFlagName, 0, "wall clock budget for all mutants (0 is unlimited)")
	bindFlagToConfig(flags.Lookup(budgetFlagName), budgetKey)

	flags.IntVar(&maxMutantsFlag, maxMutantsFlagName, 0, "maximum number of mutants to execute (0 is unlimited)")
	bindFlagToConfig(flags.Lookup(maxMutantsFlagName), maxMutantsKey)

	flags.StringVarP(&frameworkFlag, frameworkFlagName, "f", defaultFramework, "test framework adapter (gotest, gotestsum, phpunit)")
	bindFlagToConfig(flags.Lookup(frameworkFlagName), frameworkKey)

	flags.StringArrayVar(&frameworkOptionsFlag, frameworkOptionsFlagName, nil, "extra option passed to every test run (can be repeated)")
	bindFlagToConfig(flags.Lookup(frameworkOptionsFlagName), frameworkOptionsKey)

	flags.StringArrayVar(&initialOptionsFlag, initialOptionsFlagName, nil, "extra option passed to the baseline run only (can be repeated)")
	bindFlagToConfig(flags.Lookup(initialOptionsFlagName), initialOptionsKey)

	flags.StringSliceVarP(&mutatorsFlag, mutatorsFlagName, "m", []string{"@default"}, "mutator profile: names, @category, @default, -Name")
	bindFlagToConfig(flags.Lookup(mutatorsFlagName), mutatorsProfileKey)

	flags.BoolVar(&multiMatchFlag, multiMatchFlagName, false, "create a site for every matching mutator instead of the first")
	bindFlagToConfig(flags.Lookup(multiMatchFlagName), multiMatchKey)

	flags.BoolVar(&coverageFlag, coverageFlagName, defaultCoverage, "collect baseline coverage and skip uncovered sites")
	bindFlagToConfig(flags.Lookup(coverageFlagName), coverageEnabledKey)

	flags.BoolVar(&perTestFlag, perTestFlagName, defaultPerTest, "learn which tests cover each line and run only those per mutant")
	bindFlagToConfig(flags.Lookup(perTestFlagName), coveragePerTestKey)

	flags.Float64Var(&minScoreFlag, minScoreFlagName, 0, "fail when the mutation score is below this value (0..1)")
	bindFlagToConfig(flags.Lookup(minScoreFlagName), scoreMinKey)
}

func parseShardFlag(shard string) (int, int) {
	if shard == "" {
		return 0, 1
	}

	var index, total int

	_, err := fmt.Sscanf(shard, "%d/%d", &index, &total)
	if err != nil || total <= 0 || index < 0 || index >= total {
		return 0, 1
	}

	return index, total
}
