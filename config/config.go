// Package config loads server configuration from the environment.
// A .env file is honored when present; every value has a default so a
// bare `go run ./cmd/server` works.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/tempo/attendance-engine/attendance"
)

type Config struct {
	Port         int
	DatabasePath string

	// Timezone is the organization's fixed local timezone, used to
	// anchor HH:MM shift boundaries onto calendar days.
	Timezone *time.Location

	// QueueDelay is the pause between serialized mutations.
	QueueDelay time.Duration

	// DeadlineDay seeds the submission deadline-day setting (1-28).
	// DeadlineDaySet records whether the environment provided it; the
	// persisted setting wins otherwise.
	DeadlineDay    int
	DeadlineDaySet bool
}

// Load reads configuration from the environment. Invalid values are
// rejected, not silently defaulted.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file, using environment")
	}

	cfg := &Config{DatabasePath: getEnv("DATABASE_PATH", "attendance.db")}

	var err error
	if cfg.Port, err = getEnvAsInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.QueueDelay, err = getEnvAsDuration("QUEUE_DELAY", 300*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.DeadlineDay, err = getEnvAsInt("DEADLINE_DAY", 25); err != nil {
		return nil, err
	}
	_, cfg.DeadlineDaySet = os.LookupEnv("DEADLINE_DAY")

	tzName := getEnv("TIMEZONE", "Local")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, &attendance.ValidationError{Field: "TIMEZONE", Value: tzName, Reason: "unknown timezone"}
	}
	cfg.Timezone = loc

	if err := (attendance.Settings{DeadlineDay: cfg.DeadlineDay}).Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(name string, defaultVal int) (int, error) {
	valStr, ok := os.LookupEnv(name)
	if !ok || valStr == "" {
		return defaultVal, nil
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, &attendance.ValidationError{Field: name, Value: valStr, Reason: "expected an integer"}
	}
	return val, nil
}

func getEnvAsDuration(name string, defaultVal time.Duration) (time.Duration, error) {
	valStr, ok := os.LookupEnv(name)
	if !ok || valStr == "" {
		return defaultVal, nil
	}
	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, &attendance.ValidationError{Field: name, Value: valStr, Reason: "expected a duration like 300ms"}
	}
	return val, nil
}
