package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "insight.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "claude", config.LLM.Provider)
	assert.Equal(t, 14, config.News.Days)
	assert.Equal(t, 8, config.News.MaxResults)
	assert.Equal(t, 7, config.Papers.Days)
	assert.Equal(t, 5, config.Papers.MaxPerSource)
	assert.Equal(t, 1200, config.Report.WordCount)
	assert.True(t, config.Fetch.Headless)

	assert.NoError(t, config.Validate())
}

func TestLoadFromFilesOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[news]
days = 30
max_results = 3

[report]
word_count = 600
output_dir = "/tmp/reports"
`)

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, 30, config.News.Days)
	assert.Equal(t, 3, config.News.MaxResults)
	assert.Equal(t, 600, config.Report.WordCount)
	assert.Equal(t, "/tmp/reports", config.Report.OutputDir)

	// Untouched sections keep their defaults
	assert.Equal(t, 5, config.Papers.MaxPerSource)
}

func TestLoadFromFilesLaterFileWins(t *testing.T) {
	first := writeConfig(t, "[report]\nword_count = 600\n")
	second := writeConfig(t, "[report]\nword_count = 900\n")

	config, err := LoadFromFiles(first, second)
	require.NoError(t, err)
	assert.Equal(t, 900, config.Report.WordCount)
}

func TestLoadFromFilesMissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("INSIGHT_LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("INSIGHT_WORD_COUNT", "750")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, "gemini", config.LLM.Provider)
	assert.Equal(t, "test-key", config.LLM.Gemini.APIKey)
	assert.Equal(t, 750, config.Report.WordCount)
}

func TestValidateRejectsBadProvider(t *testing.T) {
	config := NewDefaultConfig()
	config.LLM.Provider = "openai"

	assert.Error(t, config.Validate())
}

func TestValidateRejectsBadDuration(t *testing.T) {
	config := NewDefaultConfig()
	config.Fetch.SettleWait = "five seconds"

	assert.Error(t, config.Validate())
}

func TestValidateRejectsNonPositiveCaps(t *testing.T) {
	config := NewDefaultConfig()
	config.News.MaxResults = 0

	assert.Error(t, config.Validate())
}
