//go:build unit

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"tour-booking/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePolicy(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestApplyPolicyFile(t *testing.T) {
	t.Run("overrides only the keys present", func(t *testing.T) {
		cfg := config.DefaultBookingConfig()
		path := writePolicy(t, `
[booking]
cancellation_cutoff = "48h"
large_group_threshold = 8
document_types = ["dni", "passport"]
`)
		require.NoError(t, config.ApplyPolicyFile(&cfg, path))

		assert.Equal(t, 48*time.Hour, cfg.CancellationCutoff)
		assert.Equal(t, 8, cfg.LargeGroupThreshold)
		assert.Equal(t, []string{"dni", "passport"}, cfg.DocumentTypes)
		assert.Equal(t, 10.0, cfg.DefaultCommissionRate)
		assert.Equal(t, 90, cfg.MaxRangeDays)
	})

	t.Run("rejects a malformed duration", func(t *testing.T) {
		cfg := config.DefaultBookingConfig()
		path := writePolicy(t, "[booking]\ncancellation_cutoff = \"a day\"\n")
		assert.Error(t, config.ApplyPolicyFile(&cfg, path))
	})

	t.Run("missing file is an error", func(t *testing.T) {
		cfg := config.DefaultBookingConfig()
		assert.Error(t, config.ApplyPolicyFile(&cfg, filepath.Join(t.TempDir(), "absent.toml")))
	})
}

func TestBookingConfigValidate(t *testing.T) {
	valid := config.DefaultBookingConfig()
	require.NoError(t, valid.Validate())

	cases := map[string]func(*config.BookingConfig){
		"unknown time zone":    func(c *config.BookingConfig) { c.TimeZone = "Mars/Olympus" },
		"commission above 100": func(c *config.BookingConfig) { c.DefaultCommissionRate = 101 },
		"negative cutoff":      func(c *config.BookingConfig) { c.CancellationCutoff = -time.Hour },
		"no document types":    func(c *config.BookingConfig) { c.DocumentTypes = nil },
		"zero range":           func(c *config.BookingConfig) { c.MaxRangeDays = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.DefaultBookingConfig()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
