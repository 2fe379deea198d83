package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds the postgres connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ServiceConfig holds all configuration for the sharing service.
type ServiceConfig struct {
	Port           string
	AppEnv         string
	DBConfig       DatabaseConfig
	KafkaBrokers   []string
	RedisAddr      string
	ItemDetailTTL  time.Duration
	MigrationsPath string
}

// Load reads configuration from SHARING_-prefixed environment variables,
// falling back to development defaults.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("SHARING")
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sharing")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("ITEM_DETAIL_TTL", "30s")
	v.SetDefault("MIGRATIONS_PATH", "migrations")

	ttl, err := time.ParseDuration(v.GetString("ITEM_DETAIL_TTL"))
	if err != nil {
		return nil, err
	}

	return &ServiceConfig{
		Port:   ":" + v.GetString("SERVICE_PORT"),
		AppEnv: v.GetString("APP_ENV"),
		DBConfig: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		KafkaBrokers:   strings.Split(v.GetString("KAFKA_BROKERS"), ","),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		ItemDetailTTL:  ttl,
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
	}, nil
}
