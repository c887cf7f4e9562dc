package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicemate/entitlementkit/pkg/config"
)

type testConfig struct {
	APIKey  string        `env:"TEST_API_KEY,required"`
	BaseURL string        `env:"TEST_BASE_URL" envDefault:"https://api.example.com"`
	Timeout time.Duration `env:"TEST_TIMEOUT" envDefault:"15s"`
}

func TestLoad(t *testing.T) {
	t.Run("reads values and defaults", func(t *testing.T) {
		t.Setenv("TEST_API_KEY", "secret")
		t.Setenv("TEST_TIMEOUT", "30s")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "secret", cfg.APIKey)
		assert.Equal(t, "https://api.example.com", cfg.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
	})

	t.Run("missing required variable", func(t *testing.T) {
		var cfg testConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		err := config.Load[testConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})
}

func TestMustLoad(t *testing.T) {
	assert.Panics(t, func() {
		var cfg testConfig
		config.MustLoad(&cfg)
	})
}
