// Package config loads the optional tabnum config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults used when the config file or individual fields are absent.
var (
	DefaultTabs         = []string{"bash", "vim", "logs"}
	DefaultPollInterval = 2 * time.Second
)

// Config is the on-disk configuration. Everything is optional.
type Config struct {
	// Tabs are the demo host's initial tab titles.
	Tabs []string `yaml:"tabs"`
	// PollInterval is how often tmux window state is polled, as a Go
	// duration string ("2s", "500ms").
	PollInterval string `yaml:"poll_interval"`
	// LogFile receives debug logs; empty means logs are dropped in TUI
	// mode and written to stderr otherwise.
	LogFile string `yaml:"log_file"`
}

// Path returns the config file location, respecting TABNUM_CONFIG.
func Path() string {
	if p := os.Getenv("TABNUM_CONFIG"); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tabnum", "config.yaml")
}

// Load reads the config at path. A missing file yields the zero config
// without error; a malformed file is an error.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// InitialTabs returns the configured demo tabs, or the defaults.
func (c Config) InitialTabs() []string {
	if len(c.Tabs) == 0 {
		return DefaultTabs
	}
	return c.Tabs
}

// Poll returns the configured poll interval, or the default when unset or
// unparsable.
func (c Config) Poll() time.Duration {
	if c.PollInterval == "" {
		return DefaultPollInterval
	}
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil || d <= 0 {
		return DefaultPollInterval
	}
	return d
}
