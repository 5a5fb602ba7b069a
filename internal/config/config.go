package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port        string
	Env         string
	LogLevel    string
	DatabaseURL string

	// Redis settings cache; empty addr disables the cache layer.
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	SettingsTTL   time.Duration

	// Agenda defaults
	Timezone               string
	DefaultDurationMinutes int

	// Inventory notification channel: "push", "email" or "stub".
	NotifyProvider string

	// Push gateway (ntfy-compatible topic endpoint)
	PushBaseURL string
	PushTopic   string
	PushToken   string
	PushTimeout time.Duration

	// AWS SES email channel
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	NotifyEmailFrom     string
	NotifyEmailFromName string
	NotifyEmailTo       string

	// Google Calendar mirror; disabled when the credentials file is unset.
	GoogleCredentialsFile string
	CalendarTimeout       time.Duration

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		SettingsTTL:   getEnvAsDuration("SETTINGS_CACHE_TTL", 5*time.Minute),

		Timezone:               getEnv("TIMEZONE", "Asia/Jerusalem"),
		DefaultDurationMinutes: getEnvAsInt("DEFAULT_DURATION_MINUTES", 60),

		NotifyProvider: strings.ToLower(strings.TrimSpace(getEnv("NOTIFY_PROVIDER", "stub"))),

		PushBaseURL: getEnv("PUSH_BASE_URL", "https://ntfy.sh"),
		PushTopic:   getEnv("PUSH_TOPIC", ""),
		PushToken:   getEnv("PUSH_TOKEN", ""),
		PushTimeout: getEnvAsDuration("PUSH_TIMEOUT", 10*time.Second),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		NotifyEmailFrom:     getEnv("NOTIFY_EMAIL_FROM", ""),
		NotifyEmailFromName: getEnv("NOTIFY_EMAIL_FROM_NAME", "NailIt Scheduler"),
		NotifyEmailTo:       getEnv("NOTIFY_EMAIL_TO", ""),

		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		CalendarTimeout:       getEnvAsDuration("CALENDAR_TIMEOUT", 10*time.Second),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice retrieves a comma-separated environment variable
func getEnvAsSlice(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
