// Package config loads and validates the environment configuration the server
// needs at startup. Startup fails fast when a required variable is absent.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Config carries every externally supplied setting.
type Config struct {
	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	JWTSecret string

	EmailHost string
	EmailPort int
	EmailUser string
	EmailPass string

	// AppURL is the public base URL embedded in mail deep links.
	AppURL string

	// CronSecret guards the HTTP reminder trigger. Empty means the trigger is disabled.
	CronSecret string

	Environment string
	LogLevel    string

	// Mailgun credentials switch the mail transport away from plain SMTP when both are set.
	MailgunAPIKey string
	MailgunDomain string

	// VerifyEmailMX enables MX-level verification of registration addresses.
	VerifyEmailMX bool

	// ReminderInterval is the scheduler tick, ReminderWindow the urgent lookahead.
	// ReminderAdvanceWindow enables the long-range scan when non-zero.
	ReminderInterval      time.Duration
	ReminderWindow        time.Duration
	ReminderAdvanceWindow time.Duration
}

var requiredVars = []string{
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASS", "DB_NAME",
	"JWT_SECRET",
	"EMAIL_HOST", "EMAIL_PORT", "EMAIL_USER", "EMAIL_PASS",
	"APP_URL",
}

// Load reads the environment into a Config. It returns an error naming every
// missing required variable at once, so a broken deployment surfaces in a
// single log line.
func Load() (*Config, error) {
	var missing []string
	for _, name := range requiredVars {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	emailPort, err := strconv.Atoi(os.Getenv("EMAIL_PORT"))
	if err != nil || emailPort < 1 || emailPort > 65535 {
		return nil, fmt.Errorf("EMAIL_PORT must be a valid port number between 1 and 65535")
	}

	cfg := &Config{
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        os.Getenv("DB_PORT"),
		DBUser:        os.Getenv("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBName:        os.Getenv("DB_NAME"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		EmailHost:     os.Getenv("EMAIL_HOST"),
		EmailPort:     emailPort,
		EmailUser:     os.Getenv("EMAIL_USER"),
		EmailPass:     os.Getenv("EMAIL_PASS"),
		AppURL:        strings.TrimRight(os.Getenv("APP_URL"), "/"),
		CronSecret:    os.Getenv("CRON_SECRET"),
		Environment:   os.Getenv("ENVIRONMENT"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		MailgunAPIKey: os.Getenv("MAILGUN_API_KEY"),
		MailgunDomain: os.Getenv("MAILGUN_DOMAIN"),
		VerifyEmailMX: os.Getenv("VERIFY_EMAIL_MX") == "true",

		ReminderInterval:      durationOrDefault("REMINDER_INTERVAL", time.Hour),
		ReminderWindow:        durationOrDefault("REMINDER_WINDOW", time.Hour),
		ReminderAdvanceWindow: durationOrDefault("REMINDER_ADVANCE_WINDOW", 0),
	}

	if len(cfg.JWTSecret) < 32 {
		log.Warn("JWT_SECRET should be at least 32 characters for production use")
	}

	return cfg, nil
}

func durationOrDefault(name string, fallback time.Duration) time.Duration {
	value := os.Getenv(name)
	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil || parsed < 0 {
		log.Warnf("Ignoring invalid duration in %s: %q", name, value)
		return fallback
	}
	return parsed
}
