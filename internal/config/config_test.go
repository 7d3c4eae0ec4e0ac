package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "geofleet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_AppliesDefaultsForZeroTunables(t *testing.T) {
	path := writeConfig(t, `
dirs:
  scratch_dir: /tmp/scratch
  cache_dir: /tmp/cache
countries:
  - code: GB
    name: United Kingdom
    continent: Europe
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultPopulationMin, cfg.Tunables.PopulationMin)
	assert.Equal(t, DefaultRetryLimit, cfg.Tunables.RetryLimit)
	assert.Equal(t, DefaultRetryWait, cfg.Tunables.RetryWait)
	assert.Equal(t, DefaultCacheStaleness, cfg.Tunables.CacheStaleness)
}

func TestLoad_PreservesExplicitTunables(t *testing.T) {
	path := writeConfig(t, `
dirs:
  scratch_dir: /tmp/scratch
  cache_dir: /tmp/cache
tunables:
  population_min: 1000
  retry_limit: 5
  retry_wait: 2s
  cache_staleness: 1h
countries:
  - code: GB
    name: United Kingdom
    continent: Europe
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Tunables.PopulationMin)
	assert.Equal(t, 5, cfg.Tunables.RetryLimit)
	assert.Equal(t, 2*time.Second, cfg.Tunables.RetryWait)
	assert.Equal(t, time.Hour, cfg.Tunables.CacheStaleness)
}

func TestLoad_RejectsEmptyCountryList(t *testing.T) {
	path := writeConfig(t, `
dirs:
  scratch_dir: /tmp/scratch
  cache_dir: /tmp/cache
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsMissingScratchDir(t *testing.T) {
	path := writeConfig(t, `
dirs:
  cache_dir: /tmp/cache
countries:
  - code: GB
    name: United Kingdom
    continent: Europe
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsProxyHostWithoutPort(t *testing.T) {
	path := writeConfig(t, `
dirs:
  scratch_dir: /tmp/scratch
  cache_dir: /tmp/cache
proxy:
  host: proxy.example.com
countries:
  - code: GB
    name: United Kingdom
    continent: Europe
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesWinOverFile(t *testing.T) {
	path := writeConfig(t, `
listen_addr: ":9000"
dirs:
  scratch_dir: /tmp/scratch
  cache_dir: /tmp/cache
countries:
  - code: GB
    name: United Kingdom
    continent: Europe
`)
	t.Setenv("GEOFLEET_LISTEN_ADDR", ":7000")
	t.Setenv("GEOFLEET_TRACE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.ListenAddr)
	assert.True(t, cfg.Trace)
}
