// Package config resolves the bridge configuration from, in order of
// precedence: FORMBRIDGE_* environment variables, an explicit config file,
// and the default search locations.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix       = "FORMBRIDGE"
	defaultFileName = "formbridge.yaml"
)

// Config is everything the server needs to reach one Gravity Forms site.
type Config struct {
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	ConsumerKey    string `mapstructure:"consumer_key" yaml:"consumer_key"`
	ConsumerSecret string `mapstructure:"consumer_secret" yaml:"consumer_secret"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds,omitempty"`
}

// Timeout returns the request timeout as a duration, defaulting to 30s.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate reports the first missing required setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("config: base_url is required (set FORMBRIDGE_BASE_URL or run formbridge-setup)")
	}
	if c.ConsumerKey == "" {
		return fmt.Errorf("config: consumer_key is required")
	}
	if c.ConsumerSecret == "" {
		return fmt.Errorf("config: consumer_secret is required")
	}
	return nil
}

// Load resolves the configuration. An empty path searches the working
// directory and ~/.config/formbridge for the default file name; a missing
// file is fine. The result may be incomplete; callers decide when to
// Validate.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{"base_url", "consumer_key", "consumer_secret", "timeout_seconds"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName(strings.TrimSuffix(defaultFileName, filepath.Ext(defaultFileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "formbridge"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}

// Write persists the configuration as yaml with owner-only permissions;
// the file holds API credentials.
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// DefaultPath is where the setup wizard writes by default.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "formbridge", defaultFileName)
	}
	return defaultFileName
}
