package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application settings.
type Config struct {
	AppPort           string
	DatabaseDriver    string
	DatabaseDSN       string
	SQLLogLevel       string
	SecretKey         string
	JWTSecret         string
	TokenTTL          time.Duration
	SessionExpiration time.Duration
	RabbitMQURL       string
	LogLevel          string
	LogFormat         string
}

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=warbler port=5432 sslmode=disable")
	v.SetDefault("SQL_LOG_LEVEL", "warn")
	v.SetDefault("SECRET_KEY", "it's a secret")
	v.SetDefault("JWT_SECRET", "warbler_jwt_secret")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("SESSION_EXPIRATION", "24h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// Load reads an optional .env file, an optional CONFIG_FILE and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	return FromViper(v), nil
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		AppPort:           v.GetString("APP_PORT"),
		DatabaseDriver:    v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:       v.GetString("DATABASE_DSN"),
		SQLLogLevel:       v.GetString("SQL_LOG_LEVEL"),
		SecretKey:         v.GetString("SECRET_KEY"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		TokenTTL:          v.GetDuration("TOKEN_TTL"),
		SessionExpiration: v.GetDuration("SESSION_EXPIRATION"),
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
	}
}
