package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "rule", cfg.DefaultMode)
	assert.Equal(t, 20, cfg.Indicators.BollingerWindow)
	assert.Equal(t, 14, cfg.Indicators.RSIPeriod)
	assert.Equal(t, 70.0, cfg.Thresholds.RSIOverbought)
	assert.Equal(t, 30.0, cfg.Thresholds.RSIOversold)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
default_mode: llm
fixture_dir: /data/fixtures
indicators:
  rsi_period: 10
thresholds:
  rsi_overbought: 75
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "llm", cfg.DefaultMode)
	assert.Equal(t, "/data/fixtures", cfg.FixtureDir)
	assert.Equal(t, 10, cfg.Indicators.RSIPeriod)
	assert.Equal(t, 75.0, cfg.Thresholds.RSIOverbought)
	// untouched values keep their defaults
	assert.Equal(t, 20, cfg.Indicators.BollingerWindow)
	assert.Equal(t, 30.0, cfg.Thresholds.RSIOversold)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	cases := map[string]string{
		"bad mode":         "default_mode: auto\n",
		"bad bb window":    "indicators:\n  bollinger_window: 1\n",
		"bad rsi period":   "indicators:\n  rsi_period: 0\n",
		"negative stddev":  "indicators:\n  bollinger_stddev: -1\n",
		"malformed yaml":   "default_mode: [\n",
		"short vol window": "indicators:\n  volatility_window: 1\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
