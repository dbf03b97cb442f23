package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"orderentry/internal/pkg/errs"

	"github.com/joho/godotenv"
)

// Order number sources selectable with ORDER_NUMBER_SOURCE.
const (
	OrderNumberSourceSequence  = "sequence"
	OrderNumberSourceTimestamp = "timestamp"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	OrderNumberSource string
	OrderNumberPrefix string

	ActiveOrdersGaugeSchedule   string
	ReferenceDataReloadSchedule string
}

// LoadConfig reads envFile into the process environment, without overriding
// variables that are already set, and builds the Config from it. A missing
// envFile is not an error.
func LoadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	config := Config{
		HTTPPort:                    envOr("HTTP_PORT", "8080"),
		DBHost:                      os.Getenv("DB_HOST"),
		DBPort:                      envOr("DB_PORT", "5432"),
		DBUser:                      os.Getenv("DB_USER"),
		DBPassword:                  os.Getenv("DB_PASSWORD"),
		DBName:                      os.Getenv("DB_NAME"),
		DBSslMode:                   envOr("DB_SSLMODE", "disable"),
		OrderNumberSource:           envOr("ORDER_NUMBER_SOURCE", OrderNumberSourceSequence),
		OrderNumberPrefix:           os.Getenv("ORDER_NUMBER_PREFIX"),
		ActiveOrdersGaugeSchedule:   os.Getenv("ACTIVE_ORDERS_GAUGE_SCHEDULE"),
		ReferenceDataReloadSchedule: os.Getenv("REFERENCE_DATA_RELOAD_SCHEDULE"),
	}
	return config, config.Validate()
}

// Validate reports every missing database setting and an unknown order
// number source.
func (c Config) Validate() error {
	var problems []error
	for name, value := range map[string]string{
		"DB_HOST": c.DBHost,
		"DB_USER": c.DBUser,
		"DB_NAME": c.DBName,
	} {
		if value == "" {
			problems = append(problems, errs.NewValueIsRequiredError(name))
		}
	}

	switch c.OrderNumberSource {
	case OrderNumberSourceSequence, OrderNumberSourceTimestamp:
	default:
		problems = append(problems, errs.NewValueIsInvalidError("ORDER_NUMBER_SOURCE"))
	}

	return errors.Join(problems...)
}

// DSN returns the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
