package finding

import "time"

// ChainEntry is one element of an evidence chain: either a finding or a
// correlation link, never both.
type ChainEntry struct {
	Timestamp time.Time
	Finding   *Finding
	Link      *CorrelationLink
}

// Summary returns a one-line description of the entry.
func (e ChainEntry) Summary() string {
	if e.Link != nil {
		return e.Link.Type.String() + ": " + e.Link.Description
	}
	if e.Finding != nil {
		return e.Finding.Pattern + ": " + e.Finding.Description
	}
	return ""
}

// EvidenceChain is the chronological assembly of one identity's findings
// and correlation links. A reporting view, built on demand and never
// mutated in place; it does not feed back into scoring.
type EvidenceChain struct {
	Identity string
	Entries  []ChainEntry
}
