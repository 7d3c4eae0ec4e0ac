// Package config loads geofleetd's boot-time configuration: the
// country catalog, upstream proxy, on-disk directories, listen
// address, and the data server's tunables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kestreldata/geofleet/internal/catalog"
)

// Config is the top-level shape of the YAML config file, following
// tamzrod-modbus-replicator/internal/config's nested-struct-with-yaml-tags
// convention.
type Config struct {
	ListenAddr string          `yaml:"listen_addr"`
	Proxy      ProxyConfig     `yaml:"proxy"`
	Dirs       DirsConfig      `yaml:"dirs"`
	Tunables   TunablesConfig  `yaml:"tunables"`
	Trace      bool            `yaml:"trace"`
	Countries  []catalog.Entry `yaml:"countries"`
}

// ProxyConfig is the forward proxy every upstream geonames request is
// routed through. An empty Host disables proxying.
type ProxyConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DirsConfig names the two on-disk directories the data servers use:
// scratch space for in-flight downloads and the persistent FCP cache.
type DirsConfig struct {
	ScratchDir string `yaml:"scratch_dir"`
	CacheDir   string `yaml:"cache_dir"`
}

// TunablesConfig carries the four constants the data server's startup
// pipeline is parameterized by, defaulted in Load to the values named
// by the upstream design.
type TunablesConfig struct {
	PopulationMin  int           `yaml:"population_min"`
	RetryLimit     int           `yaml:"retry_limit"`
	RetryWait      time.Duration `yaml:"retry_wait"`
	CacheStaleness time.Duration `yaml:"cache_staleness"`
}

// Defaults, applied by Load wherever the file leaves a tunable at its
// YAML zero value.
const (
	DefaultPopulationMin  = 500
	DefaultRetryLimit     = 3
	DefaultRetryWait      = 5000 * time.Millisecond
	DefaultCacheStaleness = 24 * time.Hour
	DefaultListenAddr     = ":8080"
)

// Load reads a YAML config file, applies defaults and then
// GEOFLEET_-prefixed environment variable overrides in a getenv-style
// pass — env wins over file, letting an operator override the listen
// address or proxy without editing the file — and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.Tunables.PopulationMin == 0 {
		c.Tunables.PopulationMin = DefaultPopulationMin
	}
	if c.Tunables.RetryLimit == 0 {
		c.Tunables.RetryLimit = DefaultRetryLimit
	}
	if c.Tunables.RetryWait == 0 {
		c.Tunables.RetryWait = DefaultRetryWait
	}
	if c.Tunables.CacheStaleness == 0 {
		c.Tunables.CacheStaleness = DefaultCacheStaleness
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GEOFLEET_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("GEOFLEET_PROXY_HOST"); v != "" {
		c.Proxy.Host = v
	}
	if v := os.Getenv("GEOFLEET_PROXY_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Proxy.Port = port
		}
	}
	if v := os.Getenv("GEOFLEET_SCRATCH_DIR"); v != "" {
		c.Dirs.ScratchDir = v
	}
	if v := os.Getenv("GEOFLEET_CACHE_DIR"); v != "" {
		c.Dirs.CacheDir = v
	}
	if v := os.Getenv("GEOFLEET_TRACE"); v != "" {
		c.Trace = v == "1" || v == "true"
	}
}

// Validate rejects a config that would leave the fleet unable to
// start: no countries to manage, or no directories to write the
// scratch/cache files to.
func (c *Config) Validate() error {
	if len(c.Countries) == 0 {
		return fmt.Errorf("config: no countries declared")
	}
	if c.Dirs.ScratchDir == "" {
		return fmt.Errorf("config: dirs.scratch_dir is required")
	}
	if c.Dirs.CacheDir == "" {
		return fmt.Errorf("config: dirs.cache_dir is required")
	}
	if c.Proxy.Host != "" && c.Proxy.Port == 0 {
		return fmt.Errorf("config: proxy.port is required when proxy.host is set")
	}
	return nil
}
