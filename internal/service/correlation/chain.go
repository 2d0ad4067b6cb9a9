package correlation

import (
	"sort"

	"github.com/argusintel/argus/internal/domain/finding"
)

// BuildChain merges one identity's findings and links into a single
// chronological evidence chain. When timestamps tie, findings sort by
// category declaration order and links rank after every finding; the
// sort is stable, so equal entries keep their input order.
func BuildChain(identity string, findings []*finding.Finding, links []*finding.CorrelationLink) *finding.EvidenceChain {
	entries := make([]finding.ChainEntry, 0, len(findings)+len(links))
	for _, f := range findings {
		entries = append(entries, finding.ChainEntry{Timestamp: f.Timestamp(), Finding: f})
	}
	for _, l := range links {
		entries = append(entries, finding.ChainEntry{Timestamp: l.EarliestTimestamp(), Link: l})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		return entryRank(a) < entryRank(b)
	})

	return &finding.EvidenceChain{Identity: identity, Entries: entries}
}

// entryRank orders same-instant entries: findings by category, links last.
func entryRank(e finding.ChainEntry) int {
	if e.Link != nil {
		return int(finding.CategoryMovement) + 1
	}
	return int(e.Finding.Category)
}
