package record

import (
	"time"

	"github.com/argusintel/argus/internal/domain/values"
)

// Direction indicates which party originated a call event.
type Direction int

const (
	DirectionIn Direction = iota
	DirectionOut
)

func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "in"
	case DirectionOut:
		return "out"
	default:
		return "unknown"
	}
}

// Medium distinguishes voice calls from SMS events.
type Medium int

const (
	MediumVoice Medium = iota
	MediumSMS
)

func (m Medium) String() string {
	switch m {
	case MediumVoice:
		return "voice"
	case MediumSMS:
		return "sms"
	default:
		return "unknown"
	}
}

// CallEvent is one normalized CDR row. Immutable once created.
type CallEvent struct {
	Identity     values.MSISDN
	Counterparty values.MSISDN
	Timestamp    time.Time
	Duration     time.Duration
	Direction    Direction
	Medium       Medium
	IMEI         values.DeviceID
	IMSI         values.DeviceID
	CellID       string
	Location     *Coordinate
}

// End returns the instant the call finished.
func (c CallEvent) End() time.Time {
	return c.Timestamp.Add(c.Duration)
}

// DataSession is one normalized IPDR row. Immutable once created.
// AppLabel is supplied by the fingerprinting collaborator from the
// destination port and traffic signature.
type DataSession struct {
	Identity      values.MSISDN
	Start         time.Time
	End           time.Time
	DestIP        string
	DestPort      int
	AppLabel      string
	BytesUploaded int64
	BytesDownload int64
	IMEI          values.DeviceID
}

// Duration returns the session length; identical start/end timestamps are a
// zero-duration session, not an error.
func (s DataSession) Duration() time.Duration {
	if s.End.Before(s.Start) {
		return 0
	}
	return s.End.Sub(s.Start)
}

// PresenceRecord is one normalized tower-dump row. Immutable once created.
type PresenceRecord struct {
	Identity  values.MSISDN
	Timestamp time.Time
	TowerID   string
	Location  Coordinate
	Devices   []values.DeviceID
}
