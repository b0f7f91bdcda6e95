package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	ERR_INVALID_CONFIG = errors.New("invalid configuration")
)

type Config struct {
	Dev       bool            `toml:"dev" env:"HEXPAT_DEV"`
	Log       LogConfig       `toml:"log"`
	Validator ValidatorConfig `toml:"validator"`
	Watch     WatchConfig     `toml:"watch"`
	Metrics   MetricsConfig   `toml:"metrics"`
}

type LogConfig struct {
	Level  string `toml:"level" env:"HEXPAT_LOG_LEVEL"`
	Format string `toml:"format" env:"HEXPAT_LOG_FORMAT"`
}

type ValidatorConfig struct {
	// MaxDepth bounds AST nesting, 0 for no bound.
	MaxDepth int `toml:"max_depth" env:"HEXPAT_MAX_DEPTH"`
}

type WatchConfig struct {
	Debounce   Duration `toml:"debounce"`
	Extensions []string `toml:"extensions"`
}

type MetricsConfig struct {
	// Addr is where watch mode serves prometheus metrics; empty disables it.
	Addr string `toml:"addr" env:"HEXPAT_METRICS_ADDR"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Watch: WatchConfig{
			Debounce:   Duration{200 * time.Millisecond},
			Extensions: []string{".yaml", ".yml", ".json"},
		},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path means the default file in the user's config directory.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	path = os.ExpandEnv(path)

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("%w: unknown keys in %s: %s", ERR_INVALID_CONFIG, path, strings.Join(keys, ", "))
	}

	if err := MapEnvToStruct(os.LookupEnv, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ERR_INVALID_CONFIG, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log level '%s'", ERR_INVALID_CONFIG, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format '%s'", ERR_INVALID_CONFIG, c.Log.Format)
	}
	if c.Validator.MaxDepth < 0 {
		return fmt.Errorf("%w: validator.max_depth must not be negative", ERR_INVALID_CONFIG)
	}
	if c.Watch.Debounce.Duration < 0 {
		return fmt.Errorf("%w: watch.debounce must not be negative", ERR_INVALID_CONFIG)
	}
	if len(c.Watch.Extensions) == 0 {
		return fmt.Errorf("%w: watch.extensions must not be empty", ERR_INVALID_CONFIG)
	}
	return nil
}

// String renders the effective configuration as TOML.
func (c *Config) String() string {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return err.Error()
	}
	return sb.String()
}
