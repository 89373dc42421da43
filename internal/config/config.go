package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/aasanchez0794/Angelito-Familiar/internal/models"
)

type Config struct {
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBAllowDestructive bool
	JWTSecret          string
	AdminPassword      string
	AdminPasswordHash  string
	ServerPort         string
	RosterPath         string
	PublicURL          string
	DrawMaxAttempts    int
	PINRequired        bool
}

func Load() *Config {
	return &Config{
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", "postgres"),
		DBName:             getEnv("DB_NAME", "angelito"),
		DBAllowDestructive: getEnvBool("DB_ALLOW_DESTRUCTIVE", false),
		JWTSecret:          getEnv("JWT_SECRET", "super-secret-key-change-me"),
		AdminPassword:      getEnv("ADMIN_PASSWORD", "ADMIN2026"),
		AdminPasswordHash:  getEnv("ADMIN_PASSWORD_HASH", ""),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		RosterPath:         getEnv("ROSTER_PATH", "roster.json"),
		PublicURL:          getEnv("PUBLIC_URL", "http://localhost:8080"),
		DrawMaxAttempts:    getEnvInt("DRAW_MAX_ATTEMPTS", 20000),
		PINRequired:        getEnvBool("PIN_REQUIRED", true),
	}
}

// LoadRoster reads the roster file and validates it. The roster is fixed for
// the lifetime of the exchange; it is read once at startup.
func (c *Config) LoadRoster() ([]models.RosterEntry, error) {
	data, err := os.ReadFile(c.RosterPath)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", c.RosterPath, err)
	}

	var roster []models.RosterEntry
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", c.RosterPath, err)
	}

	if err := models.ValidateRoster(roster); err != nil {
		return nil, err
	}
	return roster, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}
