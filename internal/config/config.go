// Package config loads budgetkeeper settings from defaults, an optional
// TOML file, an optional .env file and the environment, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/mmynk/budgetkeeper/pkg/logging"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

var validBackends = []string{BackendMemory, BackendSQLite, BackendRedis, BackendNone}

// Config is the full runtime configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Backend is one of memory, sqlite, redis or none. memory keeps data
	// for the lifetime of the process; none disables persistence.
	Backend string `toml:"backend"`

	SQLitePath string `toml:"sqlite_path"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

// LogConfig controls the log handler.
type LogConfig struct {
	Level string `toml:"level"`
}

// MetricsConfig controls metrics output.
type MetricsConfig struct {
	// TextfilePath, when set, receives a Prometheus text dump after every
	// command (node-exporter textfile collector format).
	TextfilePath string `toml:"textfile_path"`
}

// Dir returns the per-user data directory, ~/.budgetkeeper.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".budgetkeeper"
	}
	return filepath.Join(home, ".budgetkeeper")
}

// DefaultPath is where Load looks for a config file when none is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend:     BackendSQLite,
			SQLitePath:  filepath.Join(Dir(), "budget.db"),
			RedisAddr:   "localhost:6379",
			RedisPrefix: "budgetkeeper:",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Options tune where Load reads from.
type Options struct {
	// Path is an explicit config file. It must exist. When empty,
	// BUDGET_CONFIG and then DefaultPath are tried, and a missing file is
	// not an error.
	Path string

	// EnvFiles are dotenv files to read. Defaults to ".env". Missing files
	// are skipped. Values already present in the environment win.
	EnvFiles []string

	// LookupEnv replaces os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load builds the configuration and validates it.
func Load(opts Options) (Config, error) {
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	envFiles := opts.EnvFiles
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	dotenv, err := readEnvFiles(envFiles)
	if err != nil {
		return Config{}, err
	}
	env := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	cfg := Default()

	path, explicit := opts.Path, opts.Path != ""
	if !explicit {
		if v, ok := env("BUDGET_CONFIG"); ok && v != "" {
			path, explicit = v, true
		} else {
			path = DefaultPath()
		}
	}
	if err := decodeFile(path, explicit, &cfg); err != nil {
		return Config{}, err
	}

	if err := applyEnv(&cfg, env); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readEnvFiles(files []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, f := range files {
		values, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read env file %s: %w", f, err)
		}
		for k, v := range values {
			if _, ok := out[k]; !ok {
				out[k] = v
			}
		}
	}
	return out, nil
}

func decodeFile(path string, required bool, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slog.Warn("Ignoring unknown config keys", "path", path, "keys", keys)
	}
	return nil
}

func applyEnv(cfg *Config, env func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := env(key); ok {
			*dst = v
		}
	}
	str("BUDGET_STORAGE", &cfg.Storage.Backend)
	str("BUDGET_SQLITE_PATH", &cfg.Storage.SQLitePath)
	str("BUDGET_REDIS_ADDR", &cfg.Storage.RedisAddr)
	str("BUDGET_REDIS_PASSWORD", &cfg.Storage.RedisPassword)
	str("BUDGET_REDIS_PREFIX", &cfg.Storage.RedisPrefix)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("BUDGET_METRICS_TEXTFILE", &cfg.Metrics.TextfilePath)

	if v, ok := env("BUDGET_REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BUDGET_REDIS_DB %q: must be a number", v)
		}
		cfg.Storage.RedisDB = db
	}
	return nil
}

// Validate validates the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var problems []string

	backend := strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	valid := false
	for _, b := range validBackends {
		if backend == b {
			valid = true
			break
		}
	}
	if !valid {
		problems = append(problems, fmt.Sprintf("invalid storage backend '%s': must be one of %v", c.Storage.Backend, validBackends))
	}
	c.Storage.Backend = backend

	if backend == BackendSQLite && c.Storage.SQLitePath == "" {
		problems = append(problems, "SQLite database path cannot be empty when using sqlite backend")
	}
	if backend == BackendRedis {
		if c.Storage.RedisAddr == "" {
			problems = append(problems, "Redis address cannot be empty when using redis backend")
		}
		if c.Storage.RedisDB < 0 {
			problems = append(problems, fmt.Sprintf("invalid Redis database %d: must not be negative", c.Storage.RedisDB))
		}
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.Log.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// LogLevel returns the parsed log level, INFO if it is invalid.
func (c Config) LogLevel() slog.Level {
	level, _ := logging.ParseLevel(c.Log.Level)
	return level
}
