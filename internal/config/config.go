package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port        string
	ServiceName string

	DatabaseURL string

	JWTSecret           string
	RedisURL            string
	SessionDurableTTL   time.Duration
	SessionEphemeralTTL time.Duration
	ResetTokenTTL       time.Duration
	ResetURLBase        string

	MailAPIURL string
	MailAPIKey string
	MailFrom   string

	KafkaBrokers []string
	KafkaTopic   string

	OTLPEndpoint string

	LogLevel  string
	LogFormat string

	AdminEmail    string
	AdminPassword string
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("Warning: .env file not found")
	}

	return &Config{
		Port:        getEnv("PORT", "3000"),
		ServiceName: getEnv("SERVICE_NAME", "retail-admin"),

		DatabaseURL: databaseURL(),

		JWTSecret:           getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SessionDurableTTL:   getDuration("SESSION_DURABLE_TTL", 720*time.Hour),
		SessionEphemeralTTL: getDuration("SESSION_EPHEMERAL_TTL", 12*time.Hour),
		ResetTokenTTL:       getDuration("RESET_TOKEN_TTL", time.Hour),
		ResetURLBase:        getEnv("RESET_URL_BASE", "http://localhost:5173/reset-password"),

		MailAPIURL: os.Getenv("MAIL_API_URL"),
		MailAPIKey: os.Getenv("MAIL_API_KEY"),
		MailFrom:   getEnv("MAIL_FROM", "no-reply@localhost"),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "stock-events"),

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
	}
}

func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		getEnv("DB_NAME", "retail_admin"),
		getEnv("DB_PORT", "5432"),
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logrus.WithField("key", key).Warnf("invalid duration %q, using %s", value, defaultValue)
		return defaultValue
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
