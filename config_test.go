package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		adminUser:         "host",
		bind:              "0.0.0.0",
		gracePeriod:       5 * time.Second,
		port:              8080,
		sessionSecret:     "secret",
		summaryVisibility: summaryModerator,
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("accepts a sane config", func(t *testing.T) {
		assert.NoError(t, validConfig().validate())
	})

	t.Run("rejects mismatched tls flags", func(t *testing.T) {
		cfg := validConfig()
		cfg.tlsCert = "cert.pem"

		assert.Error(t, cfg.validate())
	})

	t.Run("rejects out-of-range ports", func(t *testing.T) {
		for _, port := range []int{0, -1, 65536} {
			cfg := validConfig()
			cfg.port = port

			assert.Error(t, cfg.validate())
		}
	})

	t.Run("rejects a negative grace period", func(t *testing.T) {
		cfg := validConfig()
		cfg.gracePeriod = -time.Second

		assert.Error(t, cfg.validate())
	})

	t.Run("rejects unknown summary visibility", func(t *testing.T) {
		cfg := validConfig()
		cfg.summaryVisibility = "everyone"

		assert.Error(t, cfg.validate())
	})

	t.Run("requires an admin user and session secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.adminUser = ""
		assert.Error(t, cfg.validate())

		cfg = validConfig()
		cfg.sessionSecret = ""
		assert.Error(t, cfg.validate())
	})
}

func TestConfigScheme(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "http", cfg.scheme())

	cfg.tlsCert = "cert.pem"
	cfg.tlsKey = "key.pem"
	assert.Equal(t, "https", cfg.scheme())
}
