package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	// MaxAmountScale is the fractional precision of the balance and amount columns
	// (NUMERIC(20,2)). Finer amounts would be rounded on write.
	MaxAmountScale = 2
)

// LedgerConfig holds the settings of the transaction core and the process around it.
type LedgerConfig struct {
	StorageDriver string
	IBANPrefix    string
	AmountScale   int32
	EventsKey     string
	LogMode       string
	Port          string
}

var envBindings = map[string]string{
	"database.host":     "DATABASE_HOST",
	"database.port":     "DATABASE_PORT",
	"database.user":     "DATABASE_USER",
	"database.password": "DATABASE_PASSWORD",
	"database.name":     "DATABASE_NAME",
	"database.ssl_mode": "DATABASE_SSL_MODE",

	"redis.host":     "REDIS_HOST",
	"redis.port":     "REDIS_PORT",
	"redis.password": "REDIS_PASSWORD",
	"redis.db":       "REDIS_DB",

	"jwt.secret_key":   "JWT_SECRET_KEY",
	"jwt.expiry_hours": "JWT_EXPIRY_HOURS",

	"argon2.time":        "ARGON2_TIME",
	"argon2.memory":      "ARGON2_MEMORY",
	"argon2.threads":     "ARGON2_THREADS",
	"argon2.key_length":  "ARGON2_KEY_LENGTH",
	"argon2.salt_length": "ARGON2_SALT_LENGTH",

	"ledger.storage_driver": "LEDGER_STORAGE_DRIVER",
	"ledger.iban_prefix":    "LEDGER_IBAN_PREFIX",
	"ledger.amount_scale":   "LEDGER_AMOUNT_SCALE",
	"ledger.events_key":     "LEDGER_EVENTS_KEY",

	"log.mode": "LOG_MODE",
	"port":     "PORT",
}

// Init reads the optional .env file and binds the environment variables the server understands.
// A missing .env file is not an error; the returned error is informational.
func Init(file string) error {
	viper.SetConfigFile(file)
	viper.AutomaticEnv()

	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s: %w", env, err)
		}
	}

	viper.SetDefault("jwt.expiry_hours", 24)
	viper.SetDefault("argon2.time", 1)
	viper.SetDefault("argon2.memory", 64*1024)
	viper.SetDefault("argon2.threads", 4)
	viper.SetDefault("argon2.key_length", 32)
	viper.SetDefault("argon2.salt_length", 16)

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("config file not found, using environment and defaults: %w", err)
	}
	return nil
}

func LoadLedgerConfig() (*LedgerConfig, error) {
	viper.SetDefault("ledger.storage_driver", DriverPostgres)
	viper.SetDefault("ledger.iban_prefix", "TR0001")
	viper.SetDefault("ledger.amount_scale", 2)
	viper.SetDefault("ledger.events_key", "ledger:events")
	viper.SetDefault("log.mode", "development")
	viper.SetDefault("port", "8080")

	cfg := &LedgerConfig{
		StorageDriver: strings.ToLower(viper.GetString("ledger.storage_driver")),
		IBANPrefix:    viper.GetString("ledger.iban_prefix"),
		AmountScale:   viper.GetInt32("ledger.amount_scale"),
		EventsKey:     viper.GetString("ledger.events_key"),
		LogMode:       viper.GetString("log.mode"),
		Port:          viper.GetString("port"),
	}

	switch cfg.StorageDriver {
	case DriverPostgres, DriverMemory:
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
	if cfg.IBANPrefix == "" {
		return nil, fmt.Errorf("iban prefix must not be empty")
	}
	if cfg.AmountScale < 0 || cfg.AmountScale > MaxAmountScale {
		return nil, fmt.Errorf("amount scale %d out of range [0, %d]", cfg.AmountScale, MaxAmountScale)
	}
	return cfg, nil
}
