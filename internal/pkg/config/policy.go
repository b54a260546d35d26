package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/BurntSushi/toml"
)

// policyFile mirrors BookingConfig with optional fields so that a file only
// overrides what it mentions.
type policyFile struct {
	Booking struct {
		TimeZone              *string   `toml:"timezone"`
		CancellationCutoff    *string   `toml:"cancellation_cutoff"`
		DefaultCommissionRate *float64  `toml:"default_commission_rate"`
		LargeGroupThreshold   *int      `toml:"large_group_threshold"`
		DocumentTypes         *[]string `toml:"document_types"`
		MaxRangeDays          *int      `toml:"max_range_days"`
		HorizonMonths         *int      `toml:"horizon_months"`
		MaxToursPerQuery      *int      `toml:"max_tours_per_query"`
		ReferencePrefix       *string   `toml:"reference_prefix"`
	} `toml:"booking"`
}

func ApplyPolicyFile(cfg *BookingConfig, path string) error {
	var pf policyFile
	md, err := toml.DecodeFile(path, &pf)
	if err != nil {
		return fmt.Errorf("failed to decode booking policy file %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		slog.Warn("unknown key in booking policy file", "file", path, "key", key.String())
	}

	b := pf.Booking
	if b.TimeZone != nil {
		cfg.TimeZone = *b.TimeZone
	}
	if b.CancellationCutoff != nil {
		d, err := time.ParseDuration(*b.CancellationCutoff)
		if err != nil {
			return fmt.Errorf("invalid cancellation_cutoff %q: %w", *b.CancellationCutoff, err)
		}
		cfg.CancellationCutoff = d
	}
	if b.DefaultCommissionRate != nil {
		cfg.DefaultCommissionRate = *b.DefaultCommissionRate
	}
	if b.LargeGroupThreshold != nil {
		cfg.LargeGroupThreshold = *b.LargeGroupThreshold
	}
	if b.DocumentTypes != nil {
		cfg.DocumentTypes = *b.DocumentTypes
	}
	if b.MaxRangeDays != nil {
		cfg.MaxRangeDays = *b.MaxRangeDays
	}
	if b.HorizonMonths != nil {
		cfg.HorizonMonths = *b.HorizonMonths
	}
	if b.MaxToursPerQuery != nil {
		cfg.MaxToursPerQuery = *b.MaxToursPerQuery
	}
	if b.ReferencePrefix != nil {
		cfg.ReferencePrefix = *b.ReferencePrefix
	}
	return nil
}

func (c BookingConfig) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.CancellationCutoff < 0 {
		return fmt.Errorf("cancellation cutoff must not be negative, got %s", c.CancellationCutoff)
	}
	if c.DefaultCommissionRate < 0 || c.DefaultCommissionRate > 100 {
		return fmt.Errorf("default commission rate must be within 0..100, got %v", c.DefaultCommissionRate)
	}
	if c.LargeGroupThreshold < 1 {
		return fmt.Errorf("large group threshold must be positive, got %d", c.LargeGroupThreshold)
	}
	if len(c.DocumentTypes) == 0 {
		return fmt.Errorf("at least one document type must be allowed")
	}
	if c.MaxRangeDays < 1 || c.HorizonMonths < 1 || c.MaxToursPerQuery < 1 {
		return fmt.Errorf("availability limits must be positive")
	}
	return nil
}
