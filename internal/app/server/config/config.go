package config

import (
	"fmt"
	"time"

	"babytracker/internal/config"
)

const (
	defaultPort            = 4000
	defaultLogLevel        = "info"
	defaultShutdownTimeout = 10
)

type Config struct {
	Env    string
	DB     db
	Server server
	Logger logger
}

type db struct {
	// DatabaseURI пустой - документы хранятся в памяти.
	DatabaseURI string
}

type server struct {
	RunAddress      string
	ShutdownTimeout time.Duration
}

type logger struct {
	LogLevel string
}

// Load читает конфигурацию сервера. RUN_ADDRESS имеет приоритет над PORT.
func Load() (*Config, error) {
	config.LoadDotEnv()

	v := config.NewViper(map[string]any{
		"APP_ENV":                  config.EnvLocal,
		"LOG_LEVEL":                defaultLogLevel,
		"PORT":                     defaultPort,
		"RUN_ADDRESS":              "",
		"DATABASE_URI":             "",
		"SHUTDOWN_TIMEOUT_SECONDS": defaultShutdownTimeout,
	})

	port := v.GetInt("PORT")
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("PORT must be in 1..65535, got %q", v.GetString("PORT"))
	}
	address := v.GetString("RUN_ADDRESS")
	if address == "" {
		address = fmt.Sprintf(":%d", port)
	}

	shutdown := v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")
	if shutdown <= 0 {
		shutdown = defaultShutdownTimeout
	}

	return &Config{
		Env: config.NormalizeEnv(v.GetString("APP_ENV")),
		DB:  db{DatabaseURI: v.GetString("DATABASE_URI")},
		Server: server{
			RunAddress:      address,
			ShutdownTimeout: time.Duration(shutdown) * time.Second,
		},
		Logger: logger{LogLevel: v.GetString("LOG_LEVEL")},
	}, nil
}

func (c *Config) UsesMemoryStorage() bool {
	return c.DB.DatabaseURI == ""
}
