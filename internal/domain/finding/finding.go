package finding

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Category classifies which behavioral dimension a finding belongs to.
// The declaration order fixes the tie-break precedence used by the evidence
// chain builder (Presence sorts before Communication before DataVolume).
type Category int

const (
	CategoryPresence Category = iota
	CategoryDevice
	CategoryTemporal
	CategoryCommunication
	CategoryFrequency
	CategoryNetwork
	CategoryLocation
	CategoryDataVolume
	CategoryEncryption
	CategorySession
	CategoryAppSignature
	CategoryMovement
)

func (c Category) String() string {
	switch c {
	case CategoryPresence:
		return "presence"
	case CategoryDevice:
		return "device"
	case CategoryTemporal:
		return "temporal"
	case CategoryCommunication:
		return "communication"
	case CategoryFrequency:
		return "frequency"
	case CategoryNetwork:
		return "network"
	case CategoryLocation:
		return "location"
	case CategoryDataVolume:
		return "data_volume"
	case CategoryEncryption:
		return "encryption"
	case CategorySession:
		return "session"
	case CategoryAppSignature:
		return "app_signature"
	case CategoryMovement:
		return "movement"
	default:
		return "unknown"
	}
}

// Severity is the descriptive tier attached to a finding, independent of
// its point weight.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Pattern names emitted by the detector set. Override rules are configured
// against these names.
const (
	PatternDeviceSwitching    = "device_switching"
	PatternSIMSwapping        = "sim_swapping"
	PatternOddHourActivity    = "odd_hour_activity"
	PatternCallBursts         = "call_bursts"
	PatternVoiceSkew          = "voice_skew"
	PatternScriptedDurations  = "scripted_durations"
	PatternCircularLoop       = "circular_loop"
	PatternOneRingSignaling   = "one_ring_signaling"
	PatternRapidSignaling     = "rapid_signaling"
	PatternSilentPeriod       = "silent_period"
	PatternSynchronizedCalls  = "synchronized_calls"
	PatternCommonContact      = "common_contact"
	PatternHighFrequency      = "high_frequency_contact"
	PatternImpossibleTravel   = "impossible_travel"
	PatternEncryptedUsage     = "encrypted_usage"
	PatternLargeUpload        = "large_upload"
	PatternPatternDayActivity = "pattern_day_activity"
	PatternMarathonSession    = "marathon_session"
	PatternRapidSwitching     = "rapid_app_switching"
	PatternOneTimeVisitor     = "one_time_visitor"
	PatternFrequentVisitor    = "frequent_visitor"
	PatternDeviceCloning      = "device_cloning"
)

// Finding is the unit of detector output: one detected anomaly with its
// category, point weight, and structured evidence. Pure derived data.
type Finding struct {
	ID          uuid.UUID
	Identity    string
	Category    Category
	Pattern     string
	Severity    Severity
	Weight      int
	Description string
	Evidence    map[string]any
	WindowStart time.Time
	WindowEnd   time.Time
}

// New creates a finding for an instant in time. IDs are content-derived
// (UUIDv5) so identical inputs always produce identical output, which the
// determinism guarantee depends on.
func New(identity string, category Category, pattern string, severity Severity, weight int, at time.Time) *Finding {
	return &Finding{
		ID:          DeriveID("finding", identity, pattern, at.UnixNano()),
		Identity:    identity,
		Category:    category,
		Pattern:     pattern,
		Severity:    severity,
		Weight:      weight,
		Evidence:    make(map[string]any),
		WindowStart: at,
		WindowEnd:   at,
	}
}

// NewWindow creates a finding spanning a time window.
func NewWindow(identity string, category Category, pattern string, severity Severity, weight int, start, end time.Time) *Finding {
	f := New(identity, category, pattern, severity, weight, start)
	f.WindowEnd = end
	return f
}

// WithDescription sets the human-readable summary.
func (f *Finding) WithDescription(desc string) *Finding {
	f.Description = desc
	return f
}

// WithKey mixes an extra discriminator into the derived ID, for patterns
// that can fire more than once at the same instant for one identity.
func (f *Finding) WithKey(key string) *Finding {
	f.ID = DeriveID("finding", f.Identity, f.Pattern, f.WindowStart.UnixNano(), key)
	return f
}

// WithEvidence attaches one structured evidence value.
func (f *Finding) WithEvidence(key string, value any) *Finding {
	f.Evidence[key] = value
	return f
}

// Timestamp returns the instant used for chronological ordering.
func (f *Finding) Timestamp() time.Time {
	return f.WindowStart
}

// DeriveID builds a deterministic UUIDv5 from the identifying parts of a
// derived artifact.
func DeriveID(parts ...any) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintln(parts...)))
}
