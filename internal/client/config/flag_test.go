package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("overrides from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-a", "https://fleet.example", "-b", "/tmp/cred.db", "-i", "60"}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFlags(cfg)

		assert.Equal(t, "https://fleet.example", cfg.ServerBaseURL)
		assert.Equal(t, "/tmp/cred.db", cfg.DatabasePath)
		assert.Equal(t, time.Minute, cfg.CheckInterval)
	})

	t.Run("defaults survive when no flags given", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFlags(cfg)

		assert.Equal(t, "http://127.0.0.1:8000", cfg.ServerBaseURL)
		assert.Equal(t, 5*time.Minute, cfg.CheckInterval)
	})
}
