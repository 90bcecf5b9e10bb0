package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLedgerConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		viper.Reset()

		cfg, err := LoadLedgerConfig()
		require.NoError(t, err)
		assert.Equal(t, DriverPostgres, cfg.StorageDriver)
		assert.Equal(t, "TR0001", cfg.IBANPrefix)
		assert.Equal(t, int32(2), cfg.AmountScale)
		assert.Equal(t, "ledger:events", cfg.EventsKey)
		assert.Equal(t, "8080", cfg.Port)
	})

	t.Run("environment overrides", func(t *testing.T) {
		viper.Reset()
		t.Setenv("LEDGER_STORAGE_DRIVER", "MEMORY")
		t.Setenv("LEDGER_AMOUNT_SCALE", "1")
		t.Setenv("PORT", "9090")

		_ = Init(t.TempDir() + "/missing.env")
		cfg, err := LoadLedgerConfig()
		require.NoError(t, err)
		assert.Equal(t, DriverMemory, cfg.StorageDriver)
		assert.Equal(t, int32(1), cfg.AmountScale)
		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, 24, viper.GetInt("jwt.expiry_hours"))
	})

	t.Run("unknown driver", func(t *testing.T) {
		viper.Reset()
		viper.Set("ledger.storage_driver", "mongo")

		_, err := LoadLedgerConfig()
		assert.Error(t, err)
	})

	t.Run("scale out of range", func(t *testing.T) {
		viper.Reset()
		viper.Set("ledger.amount_scale", 12)

		_, err := LoadLedgerConfig()
		assert.Error(t, err)
	})

	t.Run("scale finer than stored precision", func(t *testing.T) {
		for _, driver := range []string{DriverPostgres, DriverMemory} {
			viper.Reset()
			viper.Set("ledger.storage_driver", driver)
			viper.Set("ledger.amount_scale", MaxAmountScale+1)

			cfg, err := LoadLedgerConfig()
			assert.Nil(t, cfg, driver)
			assert.ErrorContains(t, err, "amount scale 3 out of range", driver)
		}
	})

	t.Run("negative scale", func(t *testing.T) {
		viper.Reset()
		viper.Set("ledger.amount_scale", -1)

		_, err := LoadLedgerConfig()
		assert.Error(t, err)
	})

	viper.Reset()
}

func TestInit_MissingFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	err := Init(t.TempDir() + "/missing.env")
	assert.Error(t, err)
}
