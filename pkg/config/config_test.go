package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamvault/streamvault/pkg/config"
)

type serverConfig struct {
	Addr        string        `env:"TEST_HTTP_ADDR" envDefault:":8080"`
	ReadTimeout time.Duration `env:"TEST_HTTP_READ_TIMEOUT" envDefault:"30s"`
	Debug       bool          `env:"TEST_HTTP_DEBUG" envDefault:"false"`
}

type requiredConfig struct {
	Secret string `env:"TEST_REQUIRED_SECRET,required"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults apply when env is unset", func(t *testing.T) {
		var cfg serverConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
		assert.False(t, cfg.Debug)
	})

	t.Run("env overrides defaults", func(t *testing.T) {
		t.Setenv("TEST_HTTP_ADDR", ":9999")
		t.Setenv("TEST_HTTP_DEBUG", "true")

		var cfg serverConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, ":9999", cfg.Addr)
		assert.True(t, cfg.Debug)
	})

	t.Run("missing required variable fails", func(t *testing.T) {
		var cfg requiredConfig
		err := config.Load(&cfg)
		require.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		err := config.Load[serverConfig](nil)
		require.ErrorIs(t, err, config.ErrNilPointer)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on missing required variable", func(t *testing.T) {
		var cfg requiredConfig
		assert.Panics(t, func() { config.MustLoad(&cfg) })
	})
}
