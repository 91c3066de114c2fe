package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/assetdocs/accessd/internal/access/notify"
)

type Config struct {
	Issuer         string   // Issuer claim for session tokens
	Audience       []string // Audience claim for session tokens
	AppBaseURL     string   // Base URL used in invitation and setup links
	InternalSecret string   // Shared secret for the internal alerts endpoint; empty disables it

	SessionKeyFile string // Path to the Ed25519 session signing key (default: ./session.key)
	DatabaseFile   string // Path to SQLite database file (default: ./access.db)
	PepperFile     string // Path to file containing pepper for password hashing (default: ./pepper)

	SessionTTL    time.Duration // Session token lifetime (default: jwtx.DefaultSessionTTL)
	SetupTokenTTL time.Duration // Invitation setup token lifetime (default: 7 days)
	OTPValidity   time.Duration // Step-up code lifetime (default: 5 minutes)

	SMTP   notify.SMTPConfig   // Optional: falls back to log delivery when incomplete
	Twilio notify.TwilioConfig // Optional: falls back to log delivery when incomplete

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-row sweep interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:         getEnvOrDefault("ACCESS_ISSUER", "accessd"),
		AppBaseURL:     getEnvOrDefault("ACCESS_BASE_URL", "http://localhost:8080"),
		InternalSecret: os.Getenv("ACCESS_INTERNAL_SECRET"),

		SessionKeyFile: getEnvOrDefault("ACCESS_SESSION_KEY_FILE", "session.key"),
		DatabaseFile:   getEnvOrDefault("ACCESS_DATABASE_FILE", "access.db"),
		PepperFile:     getEnvOrDefault("ACCESS_PEPPER_FILE", "pepper"),

		SessionTTL:    getEnvDurationOrDefault("ACCESS_SESSION_TTL", 0),
		SetupTokenTTL: getEnvDurationOrDefault("ACCESS_SETUP_TOKEN_TTL", 0),
		OTPValidity:   getEnvDurationOrDefault("ACCESS_OTP_VALIDITY", 0),

		SMTP: notify.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvIntOrDefault("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
		Twilio: notify.TwilioConfig{
			AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			From:       os.Getenv("TWILIO_FROM"),
		},

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	// Comma-separated audience list; empty means no audience validation
	if aud := os.Getenv("ACCESS_AUDIENCE"); aud != "" {
		for _, a := range strings.Split(aud, ",") {
			if a = strings.TrimSpace(a); a != "" {
				cfg.Audience = append(cfg.Audience, a)
			}
		}
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
