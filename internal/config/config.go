// Package config loads minissr settings from defaults, an optional config
// file, MINISSR_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rafbgarcia/minissr/internal/conventions"
)

// EnvPrefix is prepended to every environment variable, e.g. MINISSR_PORT.
const EnvPrefix = "MINISSR"

// Config is the complete minissr configuration.
type Config struct {
	Port          string         `mapstructure:"port"`
	Template      string         `mapstructure:"template"`
	MountID       string         `mapstructure:"mount_id"`
	CacheTemplate bool           `mapstructure:"cache_template"`
	Watch         bool           `mapstructure:"watch"`
	MetricsAddr   string         `mapstructure:"metrics_addr"`
	LogLevel      string         `mapstructure:"log_level"`
	Vars          map[string]any `mapstructure:"vars"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"port":         "port",
	"template":     "template",
	"mount-id":     "mount_id",
	"cache":        "cache_template",
	"watch":        "watch",
	"metrics-addr": "metrics_addr",
	"log-level":    "log_level",
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Port:     "3000",
		MountID:  "root",
		LogLevel: "info",
	}
}

// Load reads configuration. path names an optional config file (yaml,
// json or toml, by extension); flags, when non-nil, override everything
// else for the flags the user actually set.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("port", def.Port)
	v.SetDefault("template", def.Template)
	v.SetDefault("mount_id", def.MountID)
	v.SetDefault("cache_template", def.CacheTemplate)
	v.SetDefault("watch", def.Watch)
	v.SetDefault("metrics_addr", def.MetricsAddr)
	v.SetDefault("log_level", def.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("config: bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	// Viper lowercases keys; template variables keep the file's spelling.
	if path != "" {
		vars, err := readVars(path)
		if err != nil {
			return nil, err
		}
		if vars != nil {
			cfg.Vars = vars
		}
	}
	return &cfg, nil
}

// varsFile is the part of a config file holding template variables.
type varsFile struct {
	Vars map[string]any `json:"vars" yaml:"vars" toml:"vars"`
}

// readVars decodes the vars section of the config file at path with the
// decoder for its format. It returns nil for formats it does not know.
func readVars(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var f varsFile
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &f)
	case "toml":
		err = toml.Unmarshal(data, &f)
	case "json":
		err = json.Unmarshal(data, &f)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: decode vars in %s: %w", path, err)
	}
	return f.Vars, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return &ConfigError{Field: "port", Message: fmt.Sprintf("%q is not a valid port", c.Port)}
	}
	if !conventions.IsValidMountID(c.MountID) {
		return &ConfigError{Field: "mount_id", Message: fmt.Sprintf("%q is not a valid element id", c.MountID)}
	}
	if _, err := c.Level(); err != nil {
		return &ConfigError{Field: "log_level", Message: err.Error()}
	}
	if c.Watch && !c.CacheTemplate {
		return &ConfigError{Field: "watch", Message: "watch requires cache_template"}
	}
	return nil
}

// Addr returns the listen address for the page server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, errors.New("unknown log level " + strconv.Quote(c.LogLevel))
	}
	return level, nil
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
