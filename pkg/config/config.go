package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	xdgAppName = "todo"
	configFile = "config.json"

	StorageFile  = "file"
	StorageRedis = "redis"
)

type Config struct {
	Storage       string   `json:"storage"`
	DataDir       string   `json:"data_dir,omitempty"`
	StorageKey    string   `json:"storage_key"`
	RedisAddr     string   `json:"redis_addr,omitempty"`
	RedisPassword string   `json:"redis_password,omitempty"`
	RedisDB       int      `json:"redis_db,omitempty"`
	Listen        string   `json:"listen"`
	Locale        string   `json:"locale"`
	Calendar      string   `json:"calendar"`
	RateLimit     float64  `json:"rate_limit"`
	AllowOrigins  []string `json:"allow_origins,omitempty"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() *Config {
	return &Config{
		Storage:    StorageFile,
		StorageKey: "todos",
		RedisAddr:  "localhost:6379",
		Listen:     ":8080",
		Locale:     "en",
		Calendar:   "Tasks",
		RateLimit:  20,
	}
}

// Dir is the per-user configuration directory, ~/.config/todo.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

func GetConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the config file, fills unset fields with defaults and then
// applies TODO_* environment overrides (a .env file in the working
// directory is honoured).
func Load() (*Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if cfg.DataDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}
	return cfg, nil
}

// LoadFile reads only the config file, without environment overrides.
func LoadFile() (*Config, error) {
	cfg := Defaults()
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()

	var onDisk Config
	if err := json.NewDecoder(f).Decode(&onDisk); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.merge(&onDisk)
	return cfg, nil
}

func (c *Config) merge(o *Config) {
	if o.Storage != "" {
		c.Storage = o.Storage
	}
	if o.DataDir != "" {
		c.DataDir = o.DataDir
	}
	if o.StorageKey != "" {
		c.StorageKey = o.StorageKey
	}
	if o.RedisAddr != "" {
		c.RedisAddr = o.RedisAddr
	}
	if o.RedisPassword != "" {
		c.RedisPassword = o.RedisPassword
	}
	if o.RedisDB != 0 {
		c.RedisDB = o.RedisDB
	}
	if o.Listen != "" {
		c.Listen = o.Listen
	}
	if o.Locale != "" {
		c.Locale = o.Locale
	}
	if o.Calendar != "" {
		c.Calendar = o.Calendar
	}
	if o.RateLimit != 0 {
		c.RateLimit = o.RateLimit
	}
	if len(o.AllowOrigins) > 0 {
		c.AllowOrigins = o.AllowOrigins
	}
}

func (c *Config) applyEnv() error {
	c.Storage = getEnv("TODO_STORAGE", c.Storage)
	c.DataDir = getEnv("TODO_DATA_DIR", c.DataDir)
	c.StorageKey = getEnv("TODO_STORAGE_KEY", c.StorageKey)
	c.RedisAddr = getEnv("TODO_REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("TODO_REDIS_PASSWORD", c.RedisPassword)
	c.Listen = getEnv("TODO_LISTEN", c.Listen)
	c.Locale = getEnv("TODO_LOCALE", c.Locale)
	c.Calendar = getEnv("TODO_CALENDAR", c.Calendar)

	if v := os.Getenv("TODO_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TODO_REDIS_DB %q: %w", v, err)
		}
		c.RedisDB = db
	}
	if v := os.Getenv("TODO_RATE_LIMIT"); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid TODO_RATE_LIMIT %q: %w", v, err)
		}
		c.RateLimit = limit
	}

	if v := os.Getenv("TODO_ALLOW_ORIGINS"); v != "" {
		c.AllowOrigins = strings.Split(v, ",")
	}

	switch c.Storage {
	case StorageFile, StorageRedis:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}
