package record

import (
	"time"

	"github.com/argusintel/argus/internal/domain/values"
)

// DeviceSighting records the observation window of one device identifier
// for a tracked identity.
type DeviceSighting struct {
	Device    values.DeviceID
	FirstSeen time.Time
	LastSeen  time.Time
}

// Identity is a tracked subject, keyed by normalized phone number. The
// device sighting list is append-only and ordered by first-seen time.
type Identity struct {
	Number  values.MSISDN
	Devices []DeviceSighting
}

func NewIdentity(number values.MSISDN) *Identity {
	return &Identity{Number: number}
}

// Key returns the map key used for this identity across the engine.
func (i *Identity) Key() string {
	return i.Number.E164()
}

// ObserveDevice records a device sighting at ts, extending the window of an
// already-known identifier or appending a new one. Append order is
// first-seen order because record streams are processed chronologically.
func (i *Identity) ObserveDevice(device values.DeviceID, ts time.Time) {
	if device.IsEmpty() {
		return
	}
	for idx := range i.Devices {
		if i.Devices[idx].Device.Equal(device) {
			if ts.Before(i.Devices[idx].FirstSeen) {
				i.Devices[idx].FirstSeen = ts
			}
			if ts.After(i.Devices[idx].LastSeen) {
				i.Devices[idx].LastSeen = ts
			}
			return
		}
	}
	i.Devices = append(i.Devices, DeviceSighting{Device: device, FirstSeen: ts, LastSeen: ts})
}

// DistinctDevices returns the count of distinct identifiers of one kind.
func (i *Identity) DistinctDevices(kind values.DeviceIDKind) int {
	n := 0
	for _, s := range i.Devices {
		if s.Device.Kind() == kind {
			n++
		}
	}
	return n
}
