package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	apperrors "github.com/argusintel/argus/internal/errors"
	"github.com/argusintel/argus/internal/domain/finding"
)

// Config is the immutable configuration snapshot for one analysis run.
// Override-rule and cap settings are validated up front and never defaulted
// silently: a missing cap changes investigative conclusions.
type Config struct {
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
	LogLevel    string `koanf:"log_level"`

	Analysis    AnalysisConfig    `koanf:"analysis"`
	CDR         CDRConfig         `koanf:"cdr"`
	IPDR        IPDRConfig        `koanf:"ipdr"`
	Tower       TowerConfig       `koanf:"tower"`
	Scoring     ScoringConfig     `koanf:"scoring"`
	Correlation CorrelationConfig `koanf:"correlation"`
}

type AnalysisConfig struct {
	Workers int `koanf:"workers" validate:"gte=1"`
}

// WeightTier maps a percentage band to a point weight. Bands are half-open:
// a tier matches when the observed percentage is strictly above its bound.
type WeightTier struct {
	AbovePercent float64 `koanf:"above_percent" validate:"gte=0,lte=100"`
	Weight       int     `koanf:"weight" validate:"gte=0"`
}

type CDRConfig struct {
	OddHourStart int `koanf:"odd_hour_start" validate:"gte=0,lte=23"`
	OddHourEnd   int `koanf:"odd_hour_end" validate:"gte=0,lte=24"`

	OddHourTiers []WeightTier `koanf:"odd_hour_tiers" validate:"required,dive"`
	VoiceTiers   []WeightTier `koanf:"voice_tiers" validate:"required,dive"`

	BurstWindow       time.Duration `koanf:"burst_window" validate:"required"`
	BurstCallCount    int           `koanf:"burst_call_count" validate:"gte=2"`
	BurstFindingCount int           `koanf:"burst_finding_count" validate:"gte=1"`

	HighRiskDeviceCount int `koanf:"high_risk_device_count" validate:"gte=2"`

	LoopMaxDepth int `koanf:"loop_max_depth" validate:"gte=3,lte=8"`

	OneRingMaxDuration time.Duration `koanf:"one_ring_max_duration" validate:"required"`
	OneRingMinCount    int           `koanf:"one_ring_min_count" validate:"gte=2"`
	RapidSignalWindow  time.Duration `koanf:"rapid_signal_window" validate:"required"`

	SilentGap       time.Duration `koanf:"silent_gap" validate:"required"`
	SilentGapSevere time.Duration `koanf:"silent_gap_severe" validate:"required"`

	SyncWindow         time.Duration `koanf:"sync_window" validate:"required"`
	CommonContactMin   int           `koanf:"common_contact_min" validate:"gte=2"`
	HighFrequencyCalls int           `koanf:"high_frequency_calls" validate:"gte=2"`

	RepeatedDurationCalls int `koanf:"repeated_duration_calls" validate:"gte=2"`

	MaxTravelSpeedKmh float64 `koanf:"max_travel_speed_kmh" validate:"gt=0"`
}

type IPDRConfig struct {
	EncryptedApps  []string `koanf:"encrypted_apps" validate:"required,min=1"`
	AnonymizerApps []string `koanf:"anonymizer_apps" validate:"required,min=1"`

	EncryptedShareTiers []WeightTier `koanf:"encrypted_share_tiers" validate:"required,dive"`
	OddHourShareTiers   []WeightTier `koanf:"odd_hour_share_tiers" validate:"required,dive"`

	LargeUploadBytes int64 `koanf:"large_upload_bytes" validate:"gt=0"`

	PatternDays     []string `koanf:"pattern_days"`
	PatternDayRatio float64  `koanf:"pattern_day_ratio" validate:"gt=0,lte=1"`

	MarathonSession   time.Duration `koanf:"marathon_session" validate:"required"`
	RapidSwitchWindow time.Duration `koanf:"rapid_switch_window" validate:"required"`
	RapidSwitchCount  int           `koanf:"rapid_switch_count" validate:"gte=2"`
}

type TowerConfig struct {
	FrequentVisitorCount int           `koanf:"frequent_visitor_count" validate:"gte=2"`
	FrequentVisitorDays  int           `koanf:"frequent_visitor_days" validate:"gte=2"`
	CloneSpeedKmh        float64       `koanf:"clone_speed_kmh" validate:"gt=0"`
	CloneWindow          time.Duration `koanf:"clone_window" validate:"required"`
	MaxTravelSpeedKmh    float64       `koanf:"max_travel_speed_kmh" validate:"gt=0"`
}

// CategoryCaps bounds the summed severity weight per category. Every scored
// category must carry a cap; the aggregator refuses to run otherwise.
type CategoryCaps struct {
	Device        int `koanf:"device" validate:"gt=0"`
	Temporal      int `koanf:"temporal" validate:"gt=0"`
	Communication int `koanf:"communication" validate:"gt=0"`
	Frequency     int `koanf:"frequency" validate:"gt=0"`
	Network       int `koanf:"network" validate:"gt=0"`
	Location      int `koanf:"location" validate:"gt=0"`
	DataVolume    int `koanf:"data_volume" validate:"gt=0"`
	Encryption    int `koanf:"encryption" validate:"gt=0"`
	Session       int `koanf:"session" validate:"gt=0"`
	AppSignature  int `koanf:"app_signature" validate:"gt=0"`
	Movement      int `koanf:"movement" validate:"gt=0"`
}

// Cap returns the configured cap for a category. Presence findings are
// evidence-only and unscored, so the presence cap is always zero.
func (c CategoryCaps) Cap(cat finding.Category) (int, bool) {
	switch cat {
	case finding.CategoryDevice:
		return c.Device, true
	case finding.CategoryTemporal:
		return c.Temporal, true
	case finding.CategoryCommunication:
		return c.Communication, true
	case finding.CategoryFrequency:
		return c.Frequency, true
	case finding.CategoryNetwork:
		return c.Network, true
	case finding.CategoryLocation:
		return c.Location, true
	case finding.CategoryDataVolume:
		return c.DataVolume, true
	case finding.CategoryEncryption:
		return c.Encryption, true
	case finding.CategorySession:
		return c.Session, true
	case finding.CategoryAppSignature:
		return c.AppSignature, true
	case finding.CategoryMovement:
		return c.Movement, true
	case finding.CategoryPresence:
		return 0, true
	default:
		return 0, false
	}
}

// OverrideRule floors the final risk level when a named pattern is present.
// Floors only ever raise: the aggregator takes max(computed, floor).
type OverrideRule struct {
	Pattern  string `koanf:"pattern" validate:"required"`
	MinLevel string `koanf:"min_level" validate:"required,oneof=LOW MEDIUM HIGH CRITICAL"`
}

// Level parses the configured floor level.
func (r OverrideRule) Level() finding.RiskLevel {
	switch r.MinLevel {
	case "CRITICAL":
		return finding.RiskCritical
	case "HIGH":
		return finding.RiskHigh
	case "MEDIUM":
		return finding.RiskMedium
	default:
		return finding.RiskLow
	}
}

type ScoringConfig struct {
	Caps     CategoryCaps `koanf:"caps"`
	TotalCap int          `koanf:"total_cap" validate:"gt=0"`

	MediumAt   int `koanf:"medium_at" validate:"gt=0"`
	HighAt     int `koanf:"high_at" validate:"gt=0"`
	CriticalAt int `koanf:"critical_at" validate:"gt=0"`

	Overrides []OverrideRule `koanf:"overrides" validate:"required,min=1,dive"`
}

type CorrelationConfig struct {
	Lookahead        time.Duration `koanf:"lookahead" validate:"required"`
	CriticalGap      time.Duration `koanf:"critical_gap" validate:"required"`
	SilenceThreshold time.Duration `koanf:"silence_threshold" validate:"required"`
	PresenceWindow   time.Duration `koanf:"presence_window" validate:"required"`
}

// Load builds the configuration snapshot: compiled defaults, then an
// optional YAML file, then ARGUS_-prefixed environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("reading config file %s", path)).WithCause(err)
		}
	}

	if err := k.Load(env.Provider("ARGUS_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "ARGUS_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks structural constraints plus the cross-field invariants
// the struct tags cannot express. Runs before any detector.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError("invalid configuration").WithCause(err)
	}

	if c.CDR.OddHourEnd <= c.CDR.OddHourStart {
		return apperrors.NewConfigError("cdr.odd_hour_end must be after cdr.odd_hour_start")
	}
	if c.CDR.SilentGapSevere <= c.CDR.SilentGap {
		return apperrors.NewConfigError("cdr.silent_gap_severe must exceed cdr.silent_gap")
	}
	if c.Scoring.MediumAt >= c.Scoring.HighAt || c.Scoring.HighAt >= c.Scoring.CriticalAt {
		return apperrors.NewConfigError("scoring level boundaries must be strictly increasing")
	}
	if c.Scoring.CriticalAt > c.Scoring.TotalCap {
		return apperrors.NewConfigError("scoring.critical_at cannot exceed scoring.total_cap")
	}
	if c.Correlation.CriticalGap >= c.Correlation.Lookahead {
		return apperrors.NewConfigError("correlation.critical_gap must be below correlation.lookahead")
	}
	for _, day := range c.IPDR.PatternDays {
		if _, err := ParseWeekday(day); err != nil {
			return apperrors.NewConfigError("invalid ipdr.pattern_days entry").WithCause(err)
		}
	}
	return nil
}

// ParseWeekday maps a configured day name to time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(name) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	}
	return time.Sunday, fmt.Errorf("unknown weekday: %s", name)
}

// TierWeight picks the weight for an observed percentage from a tier table.
// Tiers must be listed highest band first; the first band strictly below the
// observation wins.
func TierWeight(tiers []WeightTier, percent float64) int {
	for _, t := range tiers {
		if percent > t.AbovePercent {
			return t.Weight
		}
	}
	return 0
}
