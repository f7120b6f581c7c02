// Package config содержит общие для клиента и сервера константы окружения
// и загрузку .env файлов.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// DefaultEnvPaths - где искать .env относительно места запуска.
var DefaultEnvPaths = []string{".env", "../.env", "../../.env"}

// LoadDotEnv загружает первый найденный .env файл. Отсутствие файла
// не ошибка: значения берутся из окружения и значений по умолчанию.
func LoadDotEnv(paths ...string) string {
	if len(paths) == 0 {
		paths = DefaultEnvPaths
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err == nil {
			return p
		}
	}
	return ""
}

// NewViper возвращает отдельный экземпляр viper, читающий переменные окружения.
func NewViper(defaults map[string]any) *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

// NormalizeEnv приводит имя окружения к одному из известных, local по умолчанию.
func NormalizeEnv(env string) string {
	switch env {
	case EnvDev, EnvProd:
		return env
	default:
		return EnvLocal
	}
}
