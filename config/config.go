// Package config loads bot settings from an optional YAML file, an optional
// .env file and the process environment, in that order of precedence
// (environment wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverFirebase = "firebase"
	DriverMemory   = "memory"

	defaultRosterPath = "registered_users.json"
	defaultEnvFile    = ".env"
)

type Config struct {
	Token       string  `yaml:"token"`
	AdminID     int64   `yaml:"admin_id"`
	Storage     Storage `yaml:"storage"`
	Log         Log     `yaml:"log"`
	MetricsAddr string  `yaml:"metrics_addr"`
	Labels      Labels  `yaml:"labels"`
}

type Storage struct {
	Driver   string   `yaml:"driver"`
	Path     string   `yaml:"path"` // roster file for the file driver
	DSN      string   `yaml:"dsn"`  // sqlite path or postgres URL
	Firebase Firebase `yaml:"firebase"`
}

type Firebase struct {
	CredentialsFile string `yaml:"credentials_file"`
	DatabaseURL     string `yaml:"database_url"`
	Root            string `yaml:"root"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Labels are the reply keyboard button texts. Pressing a button sends its
// label as plain text, so these double as commands.
type Labels struct {
	RequestWorkers string `yaml:"request_workers"`
	WorkerList     string `yaml:"worker_list"`
	Attend         string `yaml:"attend"`
	ShareContact   string `yaml:"share_contact"`
}

func Default() Config {
	return Config{
		Storage: Storage{
			Driver: DriverFile,
			Path:   defaultRosterPath,
			Firebase: Firebase{
				Root: "workers",
			},
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration. An empty path skips the YAML file; an empty
// envFile falls back to ".env" in the working directory when it exists.
func Load(path, envFile string) (Config, error) {
	cfg, err := read(path, envFile)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadStorage is Load without the Telegram requirements.
func LoadStorage(path, envFile string) (Config, error) {
	cfg, err := read(path, envFile)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Storage.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func read(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadEnvFile(envFile string) error {
	explicit := envFile != ""
	if !explicit {
		envFile = defaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", envFile, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Token, "BOT_TOKEN")
	if v := os.Getenv("ADMIN_ID"); v != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ADMIN_ID %q: %w", v, err)
		}
		cfg.AdminID = id
	}
	setString(&cfg.Storage.Driver, "STORAGE_DRIVER")
	setString(&cfg.Storage.Path, "ROSTER_PATH")
	setString(&cfg.Storage.DSN, "STORAGE_DSN")
	setString(&cfg.Storage.Firebase.CredentialsFile, "FIREBASE_SERVICE_ACCOUNT_KEY_PATH")
	setString(&cfg.Storage.Firebase.DatabaseURL, "FIREBASE_DATABASE_URL")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
	setString(&cfg.MetricsAddr, "METRICS_ADDR")
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks that the bot can start with this configuration.
func (c Config) Validate() error {
	if c.Token == "" {
		return errors.New("bot token required (token in config or BOT_TOKEN env)")
	}
	if c.AdminID == 0 {
		return errors.New("admin id required (admin_id in config or ADMIN_ID env)")
	}
	return c.Storage.Validate()
}

// Validate checks only the storage section, for commands that never talk
// to Telegram.
func (s Storage) Validate() error {
	switch s.Driver {
	case DriverFile:
		if s.Path == "" {
			return errors.New("storage.path required for the file driver")
		}
	case DriverSQLite, DriverPostgres:
		if s.DSN == "" {
			return fmt.Errorf("storage.dsn required for the %s driver", s.Driver)
		}
	case DriverFirebase:
		if s.Firebase.CredentialsFile == "" {
			return errors.New("FIREBASE_SERVICE_ACCOUNT_KEY_PATH environment variable not set")
		}
		if s.Firebase.DatabaseURL == "" {
			return errors.New("FIREBASE_DATABASE_URL environment variable not set")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q (valid: file, sqlite, postgres, firebase, memory)", s.Driver)
	}
	return nil
}
