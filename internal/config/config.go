package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Notification sinks accepted by notify.sink.
const (
	SinkLog   = "log"
	SinkRedis = "redis"
	SinkNone  = "none"
)

// DefaultFileName is looked up in the working directory when no explicit
// config path is given.
const DefaultFileName = "quorum.yaml"

// Config holds runtime configuration for the quorum binary.
type Config struct {
	DBPath                   string       `yaml:"db_path"`
	LogLevel                 string       `yaml:"log_level"`
	LogUseCases              bool         `yaml:"log_use_cases"`
	DefaultRequiredApprovals int          `yaml:"default_required_approvals"`
	Notify                   NotifyConfig `yaml:"notify"`
}

type NotifyConfig struct {
	Sink  string      `yaml:"sink"`
	Redis RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

// Default returns a Config with the database under ~/.quorum, info-level
// logging, and notifications written to the log.
func Default() Config {
	dbPath := "quorum.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".quorum", "quorum.db")
	}
	return Config{
		DBPath:                   dbPath,
		LogLevel:                 "info",
		DefaultRequiredApprovals: 1,
		Notify: NotifyConfig{
			Sink: SinkLog,
			Redis: RedisConfig{
				Addr:    "localhost:6379",
				Channel: "quorum.events",
			},
		},
	}
}

// Load builds the effective configuration. Layers, lowest precedence first:
// defaults, the YAML file, a .env file in the working directory, and
// QUORUM_* environment variables.
//
// An empty path falls back to QUORUM_CONFIG and then ./quorum.yaml; a
// missing fallback file is not an error, a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()

	// .env only fills variables that are not already set.
	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("QUORUM_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultFileName
	}

	if err := readFile(path, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || explicit {
			return Config{}, err
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays QUORUM_* variables. Values that fail to parse are ignored.
func applyEnv(cfg *Config) {
	if v := os.Getenv("QUORUM_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("QUORUM_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("QUORUM_LOG_USE_CASES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogUseCases = b
		}
	}
	if v := os.Getenv("QUORUM_DEFAULT_REQUIRED_APPROVALS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			cfg.DefaultRequiredApprovals = n
		}
	}
	if v := os.Getenv("QUORUM_NOTIFY_SINK"); v != "" {
		cfg.Notify.Sink = v
	}
	if v := os.Getenv("QUORUM_REDIS_ADDR"); v != "" {
		cfg.Notify.Redis.Addr = v
	}
	if v := os.Getenv("QUORUM_REDIS_PASSWORD"); v != "" {
		cfg.Notify.Redis.Password = v
	}
	if v := os.Getenv("QUORUM_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Notify.Redis.DB = n
		}
	}
	if v := os.Getenv("QUORUM_REDIS_CHANNEL"); v != "" {
		cfg.Notify.Redis.Channel = v
	}
}

// Validate rejects configurations the binary cannot start with.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("config: db_path is required")
	}
	if c.DefaultRequiredApprovals < 1 {
		return fmt.Errorf("config: default_required_approvals must be >= 1, got %d", c.DefaultRequiredApprovals)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Notify.Sink {
	case SinkLog, SinkNone:
	case SinkRedis:
		if c.Notify.Redis.Addr == "" {
			return errors.New("config: notify.redis.addr is required for the redis sink")
		}
		if c.Notify.Redis.Channel == "" {
			return errors.New("config: notify.redis.channel is required for the redis sink")
		}
	default:
		return fmt.Errorf("config: unknown notify.sink %q (want log, redis or none)", c.Notify.Sink)
	}
	return nil
}

// ParseLevel maps a log_level string onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("config: unknown log_level %q", s)
}

// Logger returns a text logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
