package values

import (
	"fmt"
	"strings"
)

// DeviceIDKind distinguishes hardware identifiers from subscriber identifiers.
type DeviceIDKind int

const (
	DeviceIDIMEI DeviceIDKind = iota
	DeviceIDIMSI
)

func (k DeviceIDKind) String() string {
	switch k {
	case DeviceIDIMEI:
		return "imei"
	case DeviceIDIMSI:
		return "imsi"
	default:
		return "unknown"
	}
}

// DeviceID represents an IMEI or IMSI observed for a tracked identity.
type DeviceID struct {
	kind  DeviceIDKind
	value string
}

// NewDeviceID validates and normalizes a device identifier. IMEI is 14-16
// digits (exports vary on whether the check digit is present), IMSI is 14-15.
func NewDeviceID(kind DeviceIDKind, raw string) (DeviceID, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return DeviceID{}, fmt.Errorf("device identifier cannot be empty")
	}

	digits := 0
	for _, ch := range value {
		if ch < '0' || ch > '9' {
			return DeviceID{}, fmt.Errorf("device identifier must be numeric: %s", raw)
		}
		digits++
	}

	if digits < 14 || digits > 16 {
		return DeviceID{}, fmt.Errorf("device identifier has invalid length %d: %s", digits, raw)
	}

	return DeviceID{kind: kind, value: value}, nil
}

// MustNewDeviceID creates a DeviceID and panics on error (for tests)
func MustNewDeviceID(kind DeviceIDKind, raw string) DeviceID {
	id, err := NewDeviceID(kind, raw)
	if err != nil {
		panic(err)
	}
	return id
}

func (d DeviceID) Kind() DeviceIDKind {
	return d.kind
}

func (d DeviceID) String() string {
	return d.value
}

func (d DeviceID) IsEmpty() bool {
	return d.value == ""
}

func (d DeviceID) Equal(other DeviceID) bool {
	return d.kind == other.kind && d.value == other.value
}
