package cmd

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "mutest"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."
	dotEnvFileName   = ".env"

	outputFlagName           = "output"
	excludeFlagName          = "exclude"
	runParallelFlagName      = "parallel"
	mutationTimeoutFlagName  = "mutation-timeout"
	budgetFlagName           = "budget"
	maxMutantsFlagName       = "max-mutants"
	frameworkFlagName        = "framework"
	frameworkOptionsFlagName = "framework-options"
	initialOptionsFlagName   = "initial-options"
	mutatorsFlagName         = "mutators"
	multiMatchFlagName       = "multi-match"
	coverageFlagName         = "coverage"
	perTestFlagName          = "per-test"
	minScoreFlagName         = "min-score"
	shardFlagName            = "shard"
	verboseFlagName          = "verbose"
	logFileFlagName          = "log-file"

	excludeConfigKey          = "paths.exclude"
	runParallelConfigKey      = "run.parallel"
	mutationTimeoutKey        = "run.mutation_timeout"
	budgetKey                 = "run.budget"
	maxMutantsKey             = "run.max_mutants"
	frameworkKey              = "run.framework"
	frameworkBinaryKey        = "run.framework_binary"
	frameworkConfigKey        = "run.framework_config"
	frameworkOptionsKey       = "run.framework_options"
	initialOptionsKey         = "run.initial_options"
	spillDirKey               = "run.spill_dir"
	mutatorsProfileKey        = "mutators.profile"
	multiMatchKey             = "mutators.multi_match"
	coverageEnabledKey        = "coverage.enabled"
	coveragePerTestKey        = "coverage.per_test"
	coverageProfileKey        = "coverage.profile"
	sourceRegexKey            = "ignore.source_regex"
	scorePrecisionKey         = "score.precision"
	scoreMinKey               = "score.min"
	scoreCountErrorsKey       = "score.count_errors"
	scoreIncludeNotCoveredKey = "score.include_not_covered"

	defaultReportsDir     = ".mutest-reports"
	defaultRunParallel    = 1
	defaultFramework      = "gotest"
	defaultCoverage       = true
	defaultPerTest        = false
	defaultScorePrecision = 4

	envPrefix = "MUTEST"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".mutest.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	loadDotEnv(filepath.Join(configFolderPath, dotEnvFileName))

	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	setConfigDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return
		}

		slog.Warn("Failed to read config file", "path", viper.ConfigFileUsed(), "error", err)
	}
}

func setConfigDefaults() {
	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputFlagName, defaultReportsDir)
	viper.SetDefault(excludeConfigKey, []string{})

	viper.SetDefault(runParallelConfigKey, defaultRunParallel)
	viper.SetDefault(mutationTimeoutKey, "0s")
	viper.SetDefault(budgetKey, "0s")
	viper.SetDefault(maxMutantsKey, 0)
	viper.SetDefault(frameworkKey, defaultFramework)
	viper.SetDefault(frameworkBinaryKey, "")
	viper.SetDefault(frameworkConfigKey, "")
	viper.SetDefault(frameworkOptionsKey, []string{})
	viper.SetDefault(initialOptionsKey, []string{})
	viper.SetDefault(spillDirKey, "")

	viper.SetDefault(mutatorsProfileKey, []string{"@default"})
	viper.SetDefault(multiMatchKey, false)

	viper.SetDefault(coverageEnabledKey, defaultCoverage)
	viper.SetDefault(coveragePerTestKey, defaultPerTest)
	viper.SetDefault(coverageProfileKey, "")

	viper.SetDefault(sourceRegexKey, "")

	viper.SetDefault(scorePrecisionKey, defaultScorePrecision)
	viper.SetDefault(scoreMinKey, 0.0)
	viper.SetDefault(scoreCountErrorsKey, false)
	viper.SetDefault(scoreIncludeNotCoveredKey, false)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)
}

// loadDotEnv exports the variables of a .env file that are not already set.
func loadDotEnv(path string) {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return
	}

	slog.Warn("Failed to load env file", "path", path, "error", err)
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose || viper.GetBool(logVerboseKey) {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
