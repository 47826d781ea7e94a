package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/zwischenruf/internal/model"
	"github.com/ppiankov/zwischenruf/internal/pipeline"
	"github.com/ppiankov/zwischenruf/internal/worker"
)

func TestLoadConfig_Defaults(t *testing.T) {
	v := viper.New()
	setDefaults(v, model.DefaultConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig(), cfg)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("ZWISCHENRUF_CONCURRENCY_WORKERS", "12")
	t.Setenv("ZWISCHENRUF_RESOLUTION_LAST_NAME_THRESHOLD", "0.9")
	t.Setenv("ZWISCHENRUF_CACHE_MEMORY_TTL", "5m")

	v := viper.New()
	configureViper(v, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Concurrency.Workers)
	assert.InDelta(t, 0.9, cfg.Resolution.LastNameThreshold, 1e-9)
	assert.Equal(t, "5m0s", cfg.Cache.MemoryTTL.String())
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
extraction:
  reversed_positions: false
  flat_era_before: 7000
log:
  format: json
`), 0o644))

	v := viper.New()
	configureViper(v, path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.False(t, cfg.Extraction.ReversedPositions)
	assert.Equal(t, 7000, cfg.Extraction.FlatEraBefore)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 4, cfg.Concurrency.Workers)
}

func TestLoadConfig_Invalid(t *testing.T) {
	v := viper.New()
	setDefaults(v, model.DefaultConfig())
	v.Set("concurrency.workers", 0)

	_, err := loadConfig(v)
	assert.ErrorContains(t, err, "concurrency.workers")
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".zwischenruf", "config.yaml")
	require.NoError(t, writeDefaultConfig(path))

	v := viper.New()
	configureViper(v, path)
	require.NoError(t, v.ReadInConfig())
	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig().Resolution, cfg.Resolution)

	assert.ErrorContains(t, writeDefaultConfig(path), "already exists")
}

func TestSplitResults(t *testing.T) {
	ok := &pipeline.SpeechResult{SpeechID: 1}
	batch := []*worker.SpeechResult{
		{Index: 0, SpeechID: 1, Result: ok},
		{Index: 1, SpeechID: 2, Error: errors.New("invalid speech")},
	}

	results, failures := splitResults(batch)
	require.Len(t, results, 1)
	assert.Same(t, ok, results[0])
	assert.Equal(t, []model.SpeechFailure{{SpeechID: 2, Error: "invalid speech"}}, failures)
}
