package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argusintel/argus/internal/domain/finding"
)

func TestDefaultsValidate(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Scoring.TotalCap)
	assert.Equal(t, 5*time.Minute, cfg.Correlation.Lookahead)
}

func TestValidateRejectsBadBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "odd hour start after end",
			mutate: func(c *Config) { c.CDR.OddHourStart = 6; c.CDR.OddHourEnd = 5 },
		},
		{
			name:   "severe silent gap below base",
			mutate: func(c *Config) { c.CDR.SilentGapSevere = c.CDR.SilentGap - time.Hour },
		},
		{
			name:   "level boundaries out of order",
			mutate: func(c *Config) { c.Scoring.HighAt = 20 },
		},
		{
			name:   "critical boundary above total cap",
			mutate: func(c *Config) { c.Scoring.CriticalAt = 150 },
		},
		{
			name:   "critical gap not below lookahead",
			mutate: func(c *Config) { c.Correlation.CriticalGap = c.Correlation.Lookahead },
		},
		{
			name:   "unparseable pattern day",
			mutate: func(c *Config) { c.IPDR.PatternDays = []string{"Someday"} },
		},
		{
			name:   "loop depth above hard cap",
			mutate: func(c *Config) { c.CDR.LoopMaxDepth = 20 },
		},
		{
			name:   "empty anonymizer set",
			mutate: func(c *Config) { c.IPDR.AnonymizerApps = nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "CONFIGURATION_ERROR")
		})
	}
}

func TestTierWeight(t *testing.T) {
	tiers := []WeightTier{
		{AbovePercent: 50, Weight: 20},
		{AbovePercent: 25, Weight: 12},
		{AbovePercent: 10, Weight: 6},
	}

	tests := []struct {
		name     string
		percent  float64
		expected int
	}{
		{name: "above top band", percent: 80, expected: 20},
		{name: "boundary is exclusive", percent: 50, expected: 12},
		{name: "middle band", percent: 30, expected: 12},
		{name: "bottom band", percent: 10.5, expected: 6},
		{name: "below all bands", percent: 10, expected: 0},
		{name: "zero", percent: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TierWeight(tiers, tt.percent))
		})
	}
}

func TestCategoryCaps(t *testing.T) {
	caps := Defaults().Scoring.Caps

	got, ok := caps.Cap(finding.CategoryDevice)
	require.True(t, ok)
	assert.Equal(t, 25, got)

	got, ok = caps.Cap(finding.CategoryPresence)
	require.True(t, ok)
	assert.Zero(t, got, "presence findings are evidence-only")

	_, ok = caps.Cap(finding.Category(99))
	assert.False(t, ok)
}

func TestOverrideRuleLevel(t *testing.T) {
	assert.Equal(t, finding.RiskHigh, OverrideRule{MinLevel: "HIGH"}.Level())
	assert.Equal(t, finding.RiskCritical, OverrideRule{MinLevel: "CRITICAL"}.Level())
	assert.Equal(t, finding.RiskLow, OverrideRule{MinLevel: "LOW"}.Level())
}

func TestParseWeekday(t *testing.T) {
	day, err := ParseWeekday("tuesday")
	require.NoError(t, err)
	assert.Equal(t, time.Tuesday, day)

	_, err = ParseWeekday("noday")
	require.Error(t, err)
}
