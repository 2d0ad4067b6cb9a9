package tower

import (
	"fmt"
	"sort"

	"github.com/argusintel/argus/internal/domain/finding"
	"github.com/argusintel/argus/internal/domain/record"
	"github.com/argusintel/argus/internal/infrastructure/config"
)

// PresenceDetector classifies visiting behavior at towers. One-time and
// frequent visitors carry opposite investigative readings (reconnaissance
// vs. anchoring), so both are surfaced as evidence-only findings with no
// point weight: the interpretation is the investigator's call.
type PresenceDetector struct{}

func (PresenceDetector) Name() string { return "tower.presence" }

func (PresenceDetector) Detect(identity string, streams *record.Streams, cfg *config.Config) ([]*finding.Finding, error) {
	pings := streams.Presence
	if len(pings) == 0 {
		return nil, nil
	}

	perTower := make(map[string][]record.PresenceRecord)
	for _, p := range pings {
		perTower[p.TowerID] = append(perTower[p.TowerID], p)
	}

	var findings []*finding.Finding

	// One-time visitor: a single ping at a single tower over the whole
	// observation window.
	if len(pings) == 1 {
		p := pings[0]
		findings = append(findings, finding.New(identity, finding.CategoryPresence,
			finding.PatternOneTimeVisitor, finding.SeverityInfo, 0, p.Timestamp).
			WithDescription(fmt.Sprintf("single appearance at tower %s", p.TowerID)).
			WithEvidence("tower", p.TowerID).
			WithEvidence("interpretation", "possible scouting visit or burner handset; absence elsewhere is itself notable"))
		return findings, nil
	}

	towers := make([]string, 0, len(perTower))
	for t := range perTower {
		towers = append(towers, t)
	}
	sort.Strings(towers)

	for _, towerID := range towers {
		visits := perTower[towerID]
		if len(visits) < cfg.Tower.FrequentVisitorCount {
			continue
		}
		days := make(map[string]bool)
		for _, v := range visits {
			days[v.Timestamp.Format("2006-01-02")] = true
		}
		if len(days) < cfg.Tower.FrequentVisitorDays {
			continue
		}
		findings = append(findings, finding.NewWindow(identity, finding.CategoryPresence,
			finding.PatternFrequentVisitor, finding.SeverityInfo, 0,
			visits[0].Timestamp, visits[len(visits)-1].Timestamp).
			WithKey(towerID).
			WithDescription(fmt.Sprintf("%d appearances at tower %s across %d days",
				len(visits), towerID, len(days))).
			WithEvidence("tower", towerID).
			WithEvidence("visit_count", len(visits)).
			WithEvidence("distinct_days", len(days)).
			WithEvidence("interpretation", "recurring anchor location; candidate residence, workplace, or meeting point"))
	}

	return findings, nil
}
