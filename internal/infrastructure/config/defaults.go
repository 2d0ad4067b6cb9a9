package config

import "time"

// Defaults returns the built-in threshold set. The point tables are a
// hand-tuned scoring policy, kept as data so they stay auditable and
// swappable without touching detector logic.
func Defaults() *Config {
	return &Config{
		Version:     "dev",
		Environment: "development",
		LogLevel:    "info",
		Analysis: AnalysisConfig{
			Workers: 4,
		},
		CDR: CDRConfig{
			OddHourStart: 0,
			OddHourEnd:   5,
			OddHourTiers: []WeightTier{
				{AbovePercent: 4, Weight: 20},
				{AbovePercent: 2, Weight: 15},
				{AbovePercent: 1, Weight: 10},
			},
			VoiceTiers: []WeightTier{
				{AbovePercent: 99.9, Weight: 20},
				{AbovePercent: 90, Weight: 15},
				{AbovePercent: 70, Weight: 8},
			},
			BurstWindow:           15 * time.Minute,
			BurstCallCount:        5,
			BurstFindingCount:     3,
			HighRiskDeviceCount:   3,
			LoopMaxDepth:          5,
			OneRingMaxDuration:    3 * time.Second,
			OneRingMinCount:       3,
			RapidSignalWindow:     5 * time.Minute,
			SilentGap:             48 * time.Hour,
			SilentGapSevere:       72 * time.Hour,
			SyncWindow:            5 * time.Minute,
			CommonContactMin:      3,
			HighFrequencyCalls:    20,
			RepeatedDurationCalls: 3,
			MaxTravelSpeedKmh:     200,
		},
		IPDR: IPDRConfig{
			EncryptedApps: []string{
				"whatsapp", "telegram", "signal", "threema", "wickr", "vpn", "tor",
			},
			AnonymizerApps: []string{"tor", "vpn"},
			EncryptedShareTiers: []WeightTier{
				{AbovePercent: 50, Weight: 20},
				{AbovePercent: 25, Weight: 12},
				{AbovePercent: 10, Weight: 6},
			},
			OddHourShareTiers: []WeightTier{
				{AbovePercent: 20, Weight: 10},
				{AbovePercent: 5, Weight: 5},
			},
			LargeUploadBytes:  10 << 20,
			PatternDays:       []string{"Tuesday", "Friday"},
			PatternDayRatio:   0.4,
			MarathonSession:   2 * time.Hour,
			RapidSwitchWindow: 5 * time.Minute,
			RapidSwitchCount:  3,
		},
		Tower: TowerConfig{
			FrequentVisitorCount: 5,
			FrequentVisitorDays:  3,
			CloneSpeedKmh:        500,
			CloneWindow:          5 * time.Minute,
			MaxTravelSpeedKmh:    200,
		},
		Scoring: ScoringConfig{
			Caps: CategoryCaps{
				Device:        25,
				Temporal:      25,
				Communication: 25,
				Frequency:     15,
				Network:       10,
				Location:      10,
				DataVolume:    25,
				Encryption:    30,
				Session:       25,
				AppSignature:  20,
				Movement:      25,
			},
			TotalCap:   100,
			MediumAt:   30,
			HighAt:     50,
			CriticalAt: 70,
			Overrides: []OverrideRule{
				{Pattern: "device_switching", MinLevel: "MEDIUM"},
				{Pattern: "impossible_travel", MinLevel: "HIGH"},
				{Pattern: "device_cloning", MinLevel: "HIGH"},
			},
		},
		Correlation: CorrelationConfig{
			Lookahead:        300 * time.Second,
			CriticalGap:      60 * time.Second,
			SilenceThreshold: 48 * time.Hour,
			PresenceWindow:   30 * time.Minute,
		},
	}
}
