package detect

import (
	"sort"
	"time"

	"github.com/argusintel/argus/internal/domain/record"
)

// TimelineEvent is one call event projected into the merged multi-identity
// view. Counterparty is the raw E.164 key; it may not be a tracked identity.
type TimelineEvent struct {
	Identity     string
	Counterparty string
	Timestamp    time.Time
}

// Timeline is the read-only merged view of all tracked identities' call
// events, built once per run and handed to cross-identity detectors instead
// of letting every detector reach into a shared store.
type Timeline struct {
	Events []TimelineEvent

	// contacts maps identity key -> set of counterparties called.
	contacts map[string]map[string]bool

	// edges is the directed who-called-whom graph: caller -> callee set.
	edges map[string]map[string]bool
}

// BuildTimeline merges every identity's call stream into one chronology.
// Identities are visited in sorted key order and the merge sort is stable,
// so the result is deterministic for identical inputs.
func BuildTimeline(ds *record.Dataset) *Timeline {
	t := &Timeline{
		contacts: make(map[string]map[string]bool),
		edges:    make(map[string]map[string]bool),
	}

	for _, key := range ds.Keys() {
		streams := ds.Streams(key)
		if streams == nil {
			continue
		}
		set := make(map[string]bool)
		for _, call := range streams.Calls {
			t.Events = append(t.Events, TimelineEvent{
				Identity:     key,
				Counterparty: call.Counterparty.E164(),
				Timestamp:    call.Timestamp,
			})
			if call.Counterparty.IsEmpty() {
				continue
			}
			other := call.Counterparty.E164()
			if call.Direction == record.DirectionOut {
				set[other] = true
				t.addEdge(key, other)
			} else {
				t.addEdge(other, key)
			}
		}
		t.contacts[key] = set
	}

	sort.SliceStable(t.Events, func(i, j int) bool {
		return t.Events[i].Timestamp.Before(t.Events[j].Timestamp)
	})

	return t
}

func (t *Timeline) addEdge(from, to string) {
	if from == to {
		return
	}
	if t.edges[from] == nil {
		t.edges[from] = make(map[string]bool)
	}
	t.edges[from][to] = true
}

// Callees returns the sorted nodes directly called by from.
func (t *Timeline) Callees(from string) []string {
	set := t.edges[from]
	out := make([]string, 0, len(set))
	for to := range set {
		out = append(out, to)
	}
	sort.Strings(out)
	return out
}

// Nodes returns every node of the call graph in sorted order, tracked
// identities and untracked counterparties alike.
func (t *Timeline) Nodes() []string {
	set := make(map[string]bool)
	for from, tos := range t.edges {
		set[from] = true
		for to := range tos {
			set[to] = true
		}
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Tracked reports whether a node is a tracked identity.
func (t *Timeline) Tracked(node string) bool {
	_, ok := t.contacts[node]
	return ok
}

// Identities returns the tracked identity keys in sorted order.
func (t *Timeline) Identities() []string {
	keys := make([]string, 0, len(t.contacts))
	for k := range t.contacts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Contacts returns the sorted counterparties an identity called.
func (t *Timeline) Contacts(identity string) []string {
	set := t.contacts[identity]
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
