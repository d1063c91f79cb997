package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"tracking/internal/adapters/out/postgres"
	"tracking/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the process configuration resolved by LoadConfig.
type Config struct {
	HTTPPort string
	LogLevel string

	Database postgres.Config

	JWTSecret string
	JWTTTL    time.Duration

	// RabbitMQURL enables the cross-instance relay. Empty keeps delivery local.
	RabbitMQURL      string
	RabbitMQExchange string

	ReconcileSchedule    string
	CacheRefreshSchedule string

	WSSendBuffer int
	CORSOrigin   string
}

// LoadConfig reads the environment, after loading envFile when it exists.
// Variables already set in the environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", postgres.DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "tracking")
	v.SetDefault("DB_NAME", "tracking")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_SQLITE_PATH", "tracking.db")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("RABBITMQ_EXCHANGE", "tracking.events")
	v.SetDefault("RECONCILE_SCHEDULE", "0 */5 * * * *")
	v.SetDefault("CACHE_REFRESH_SCHEDULE", "*/30 * * * * *")
	v.SetDefault("WS_SEND_BUFFER", 64)

	ttl, err := time.ParseDuration(v.GetString("JWT_TTL"))
	if err != nil {
		return Config{}, errs.NewValueIsInvalidErrorWithCause("JWT_TTL", err)
	}

	cfg := Config{
		HTTPPort: v.GetString("HTTP_PORT"),
		LogLevel: v.GetString("LOG_LEVEL"),
		Database: postgres.Config{
			Driver:     v.GetString("DB_DRIVER"),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Name:       v.GetString("DB_NAME"),
			SSLMode:    v.GetString("DB_SSLMODE"),
			SQLitePath: v.GetString("DB_SQLITE_PATH"),
		},
		JWTSecret:            v.GetString("JWT_SECRET"),
		JWTTTL:               ttl,
		RabbitMQURL:          v.GetString("RABBITMQ_URL"),
		RabbitMQExchange:     v.GetString("RABBITMQ_EXCHANGE"),
		ReconcileSchedule:    v.GetString("RECONCILE_SCHEDULE"),
		CacheRefreshSchedule: v.GetString("CACHE_REFRESH_SCHEDULE"),
		WSSendBuffer:         v.GetInt("WS_SEND_BUFFER"),
		CORSOrigin:           v.GetString("CORS_ORIGIN"),
	}
	return cfg, cfg.Validate()
}

// Validate reports the first missing or out of range setting.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errs.NewValueIsRequiredError("JWT_SECRET")
	}
	if c.JWTTTL <= 0 {
		return errs.NewValueIsOutOfRangeError("JWT_TTL", c.JWTTTL, time.Second, "unbounded")
	}
	if c.HTTPPort == "" {
		return errs.NewValueIsRequiredError("HTTP_PORT")
	}
	return nil
}
