package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func executeInit(t *testing.T) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}

	cmd := newRootCmd()
	cmd.AddCommand(newInitCmd(), newRunCmd())
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"init"})

	err := cmd.Execute()

	return out.String(), err
}

func TestInitCmd_WritesDefaults(t *testing.T) {
	tempDir := t.TempDir()
	t.Chdir(tempDir)

	output, err := executeInit(t)
	require.NoError(t, err)

	targetPath := filepath.Join(configFolderPath, configFileName)
	assert.Contains(t, output, "wrote "+targetPath)

	contents, err := os.ReadFile(filepath.Join(tempDir, configFileName))
	require.NoError(t, err)

	var config struct {
		Version int    `yaml:"version"`
		Output  string `yaml:"output"`
		Run     struct {
			Parallel  int    `yaml:"parallel"`
			Framework string `yaml:"framework"`
		} `yaml:"run"`
		Mutators struct {
			Profile    []string `yaml:"profile"`
			MultiMatch bool     `yaml:"multi_match"`
		} `yaml:"mutators"`
		Coverage struct {
			Enabled bool `yaml:"enabled"`
			PerTest bool `yaml:"per_test"`
		} `yaml:"coverage"`
		Score struct {
			Precision         int  `yaml:"precision"`
			CountErrors       bool `yaml:"count_errors"`
			IncludeNotCovered bool `yaml:"include_not_covered"`
		} `yaml:"score"`
		Log struct {
			Filename string `yaml:"filename"`
		} `yaml:"log"`
	}

	require.NoError(t, yaml.Unmarshal(contents, &config))

	assert.Equal(t, currentConfigVersion, config.Version)
	assert.Equal(t, defaultReportsDir, config.Output)
	assert.Equal(t, defaultRunParallel, config.Run.Parallel)
	assert.Equal(t, defaultFramework, config.Run.Framework)
	assert.Equal(t, []string{"@default"}, config.Mutators.Profile)
	assert.False(t, config.Mutators.MultiMatch)
	assert.True(t, config.Coverage.Enabled)
	assert.False(t, config.Coverage.PerTest)
	assert.Equal(t, defaultScorePrecision, config.Score.Precision)
	assert.False(t, config.Score.CountErrors)
	assert.False(t, config.Score.IncludeNotCovered)
	assert.Equal(t, defaultLogFilename, config.Log.Filename)
}

func TestInitCmd_KeepsExistingFile(t *testing.T) {
	tempDir := t.TempDir()
	t.Chdir(tempDir)

	targetPath := filepath.Join(tempDir, configFileName)
	require.NoError(t, os.WriteFile(targetPath, []byte("existing: true\n"), 0o600))

	_, err := executeInit(t)
	require.Error(t, err)

	contents, err := os.ReadFile(targetPath)
	require.NoError(t, err)
	assert.Equal(t, "existing: true\n", string(contents))
}

func TestInitCmd_RejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.AddCommand(newInitCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"init", "extra"})

	require.Error(t, cmd.Execute())
}
