package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"babytracker/internal/config"
	"babytracker/internal/infrastructure/tracing"
)

const (
	defaultAPIURL       = "http://localhost:4000"
	defaultLogLevel     = "info"
	defaultDataDir      = ".babytracker"
	defaultDataFile     = "babytracker.db"
	defaultSyncInterval = 60
	defaultHTTPTimeout  = 10
)

type Config struct {
	Env          string
	LogLevel     string
	APIURL       string
	DataDir      string
	DataPath     string
	SyncInterval time.Duration
	HTTPTimeout  time.Duration
	Tracing      tracing.Config
}

// Load читает конфигурацию клиента из окружения и .env. Отсутствующие
// значения заменяются значениями по умолчанию.
func Load() (*Config, error) {
	config.LoadDotEnv()

	v := config.NewViper(map[string]any{
		"APP_ENV":               config.EnvLocal,
		"LOG_LEVEL":             defaultLogLevel,
		"API_URL":               defaultAPIURL,
		"DATA_DIR":              "",
		"DATA_PATH":             "",
		"SYNC_INTERVAL_SECONDS": defaultSyncInterval,
		"HTTP_TIMEOUT_SECONDS":  defaultHTTPTimeout,
		"TRACING_EXPORTER":      string(tracing.ExporterNone),
		"OTLP_ENDPOINT":         "",
	})

	dataDir := v.GetString("DATA_DIR")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "."
		}
		dataDir = filepath.Join(homeDir, defaultDataDir)
	}

	dataPath := v.GetString("DATA_PATH")
	if dataPath == "" {
		dataPath = filepath.Join(dataDir, defaultDataFile)
	}

	env := config.NormalizeEnv(v.GetString("APP_ENV"))
	cfg := &Config{
		Env:          env,
		LogLevel:     v.GetString("LOG_LEVEL"),
		APIURL:       strings.TrimRight(v.GetString("API_URL"), "/"),
		DataDir:      dataDir,
		DataPath:     dataPath,
		SyncInterval: seconds(v.GetInt("SYNC_INTERVAL_SECONDS"), defaultSyncInterval),
		HTTPTimeout:  seconds(v.GetInt("HTTP_TIMEOUT_SECONDS"), defaultHTTPTimeout),
		Tracing: tracing.Config{
			ExporterType: tracing.ExporterType(v.GetString("TRACING_EXPORTER")),
			OTLPEndpoint: v.GetString("OTLP_ENDPOINT"),
			ServiceName:  "babytracker-client",
			Environment:  env,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func seconds(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_URL must be an absolute URL, got %q", c.APIURL)
	}
	return nil
}

// EnsureDataDir создает каталог файла базы.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(filepath.Dir(c.DataPath), 0o700)
}

func (c *Config) IsProd() bool {
	return c.Env == config.EnvProd
}

func (c *Config) IsLocal() bool {
	return c.Env == config.EnvLocal
}
