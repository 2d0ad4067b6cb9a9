package finding

import (
	"time"

	"github.com/google/uuid"
)

// LinkType classifies the temporal relationship between two events from
// different sources.
type LinkType int

const (
	LinkCallThenEncryption LinkType = iota
	LinkCallThenData
	LinkSilenceWithData
	LinkPresentNoComm
)

func (t LinkType) String() string {
	switch t {
	case LinkCallThenEncryption:
		return "CALL_THEN_ENCRYPTION"
	case LinkCallThenData:
		return "CALL_THEN_DATA"
	case LinkSilenceWithData:
		return "SILENCE_WITH_DATA"
	case LinkPresentNoComm:
		return "PRESENT_NO_COMM"
	default:
		return "UNKNOWN"
	}
}

// Confidence is the tier derived from the time gap between the two linked
// events.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
	ConfidenceCritical
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceLow:
		return "LOW"
	case ConfidenceMedium:
		return "MEDIUM"
	case ConfidenceHigh:
		return "HIGH"
	case ConfidenceCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// CorrelationLink pairs two events from different sources for the same
// identity with a classification and confidence tier.
type CorrelationLink struct {
	ID          uuid.UUID
	Identity    string
	Type        LinkType
	Confidence  Confidence
	First       time.Time
	Second      time.Time
	Gap         time.Duration
	Description string
	Evidence    map[string]any
}

// EarliestTimestamp returns the earlier of the two linked events, used for
// evidence chain ordering.
func (l *CorrelationLink) EarliestTimestamp() time.Time {
	if l.Second.Before(l.First) {
		return l.Second
	}
	return l.First
}
