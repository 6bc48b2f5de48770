// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"tradeadmin/internal/notifier"
	"tradeadmin/pkg/db" // Import db package for its Config struct
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort   string
	DB           db.Config
	SMTP         notifier.SMTPConfig
	EmailEnabled bool
}

// LoadConfig loads configuration from a .env file (if present) and
// environment variables. Environment variables win over .env values.
func LoadConfig() (*AppConfig, error) {
	// Best-effort: a missing .env file is fine outside local development.
	_ = godotenv.Load()

	serverPort := getEnv("SERVER_PORT", "8080")

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	emailEnabled, err := strconv.ParseBool(getEnv("EMAIL_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid EMAIL_ENABLED: %w", err)
	}

	return &AppConfig{
		ServerPort: serverPort,
		DB: db.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "tradeadmindb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		SMTP: notifier.SMTPConfig{
			Host:        getEnv("SMTP_HOST", "localhost"),
			Port:        smtpPort,
			Username:    getEnv("SMTP_USERNAME", ""),
			Password:    getEnv("SMTP_PASSWORD", ""),
			FromAddress: getEnv("SMTP_FROM_ADDRESS", "no-reply@tradeadmin.local"),
			FromName:    getEnv("SMTP_FROM_NAME", "Trading Support"),
		},
		EmailEnabled: emailEnabled,
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
