// Package config loads the process configuration from the environment and an
// optional .env file
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
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "VITRINE_"

type Config struct {
	// RootPath holds the sqlite database and locally stored objects.
	RootPath string
	Addr     string

	S3Bucket      string
	AWSProfile    string
	AWSRegion     string
	PublicBaseURL string

	ChromeBin        string
	ChromeControlURL string
	RenderTimeout    time.Duration

	LogLevel slog.Level
	LogJSON  bool
}

func (c *Config) DatabasePath() string {
	return filepath.Join(c.RootPath, "vitrine.db")
}

func (c *Config) ObjectsPath() string {
	return filepath.Join(c.RootPath, "objects")
}

// Load reads envPath, or .env in the working directory, then the
// environment. A missing .env file is not an error.
func Load(envPath ...string) (*Config, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath...)
	} else {
		err = godotenv.Load()
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env file (path: %v): %w", envPath, err)
	}

	cfg := &Config{}

	cfg.RootPath = getEnv("ROOT_PATH", "")
	if cfg.RootPath == "" {
		return nil, fmt.Errorf("%sROOT_PATH environment variable is required", envPrefix)
	}

	cfg.Addr = getEnv("ADDR", "0.0.0.0:8080")
	cfg.S3Bucket = getEnv("S3_BUCKET", "")
	cfg.AWSProfile = getEnv("AWS_PROFILE", "")
	cfg.AWSRegion = getEnv("AWS_REGION", "")
	cfg.PublicBaseURL = getEnv("PUBLIC_BASE_URL", "")
	if cfg.PublicBaseURL == "" && cfg.S3Bucket == "" {
		cfg.PublicBaseURL = "http://" + localHost(cfg.Addr) + "/files"
	}

	cfg.ChromeBin = getEnv("CHROME_BIN", "")
	cfg.ChromeControlURL = getEnv("CHROME_CONTROL_URL", "")
	cfg.RenderTimeout = time.Duration(getEnvAsInt("RENDER_TIMEOUT_SECONDS", 0)) * time.Second

	cfg.LogLevel = parseLevel(getEnv("LOG_LEVEL", "info"))
	cfg.LogJSON = getEnvAsBool("LOG_JSON", false)

	return cfg, nil
}

func localHost(addr string) string {
	if strings.HasPrefix(addr, "0.0.0.0:") {
		return "localhost" + strings.TrimPrefix(addr, "0.0.0.0")
	}
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(envPrefix + key); ok {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil || value <= 0 {
		slog.Warn("invalid integer in environment, using default", "key", envPrefix+key, "value", valueStr, "default", defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", envPrefix+key, "value", valueStr, "default", defaultValue)
		return defaultValue
	}
	return value
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		slog.Warn("invalid log level, using info", "level", s)
		return slog.LevelInfo
	}
	return level
}
