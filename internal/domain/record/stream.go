package record

import (
	"fmt"
	"sort"

	"github.com/argusintel/argus/internal/domain/values"
	"github.com/argusintel/argus/internal/errors"
)

// Streams bundles one identity's chronologically sorted record streams.
// Detectors require sorted input; loaders sort once, detectors verify.
type Streams struct {
	Calls    []CallEvent
	Sessions []DataSession
	Presence []PresenceRecord
}

// Dataset holds all tracked identities' streams for one analysis run.
// Built fresh per run; never mutated after loading completes.
type Dataset struct {
	identities map[string]*Identity
	streams    map[string]*Streams
	keys       []string
}

func NewDataset() *Dataset {
	return &Dataset{
		identities: make(map[string]*Identity),
		streams:    make(map[string]*Streams),
	}
}

// Track registers an identity and returns its stream bundle, creating both
// on first sight.
func (d *Dataset) Track(number values.MSISDN) (*Identity, *Streams) {
	key := number.E164()
	if id, ok := d.identities[key]; ok {
		return id, d.streams[key]
	}
	id := NewIdentity(number)
	s := &Streams{}
	d.identities[key] = id
	d.streams[key] = s
	d.keys = append(d.keys, key)
	return id, s
}

// Identity returns a tracked identity or nil.
func (d *Dataset) Identity(key string) *Identity {
	return d.identities[key]
}

// Streams returns a tracked identity's streams or nil.
func (d *Dataset) Streams(key string) *Streams {
	return d.streams[key]
}

// Keys returns identity keys in deterministic (sorted) order.
func (d *Dataset) Keys() []string {
	keys := make([]string, len(d.keys))
	copy(keys, d.keys)
	sort.Strings(keys)
	return keys
}

// Len returns the number of tracked identities.
func (d *Dataset) Len() int {
	return len(d.keys)
}

// Finalize sorts every stream chronologically. Sorting is stable so records
// sharing a timestamp keep their source insertion order, which downstream
// tie-breaks depend on.
func (d *Dataset) Finalize() {
	for _, s := range d.streams {
		sort.SliceStable(s.Calls, func(i, j int) bool {
			return s.Calls[i].Timestamp.Before(s.Calls[j].Timestamp)
		})
		sort.SliceStable(s.Sessions, func(i, j int) bool {
			return s.Sessions[i].Start.Before(s.Sessions[j].Start)
		})
		sort.SliceStable(s.Presence, func(i, j int) bool {
			return s.Presence[i].Timestamp.Before(s.Presence[j].Timestamp)
		})
	}
}

// VerifySorted enforces the sorted-stream precondition. An out-of-order
// record is an INVALID_INPUT failure, never silently reordered.
func (s *Streams) VerifySorted() error {
	for i := 1; i < len(s.Calls); i++ {
		if s.Calls[i].Timestamp.Before(s.Calls[i-1].Timestamp) {
			return errors.NewValidationError("INVALID_INPUT",
				fmt.Sprintf("call stream out of order at index %d (%s before %s)",
					i, s.Calls[i].Timestamp, s.Calls[i-1].Timestamp))
		}
	}
	for i := 1; i < len(s.Sessions); i++ {
		if s.Sessions[i].Start.Before(s.Sessions[i-1].Start) {
			return errors.NewValidationError("INVALID_INPUT",
				fmt.Sprintf("session stream out of order at index %d", i))
		}
	}
	for i := 1; i < len(s.Presence); i++ {
		if s.Presence[i].Timestamp.Before(s.Presence[i-1].Timestamp) {
			return errors.NewValidationError("INVALID_INPUT",
				fmt.Sprintf("presence stream out of order at index %d", i))
		}
	}
	return nil
}
