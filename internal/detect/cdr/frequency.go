package cdr

import (
	"fmt"
	"sort"

	"github.com/argusintel/argus/internal/domain/finding"
	"github.com/argusintel/argus/internal/domain/record"
	"github.com/argusintel/argus/internal/infrastructure/config"
)

// FrequencyDetector flags counterparties contacted far more often than the
// rest of the contact book.
type FrequencyDetector struct{}

func (FrequencyDetector) Name() string { return "cdr.frequency" }

func (FrequencyDetector) Detect(identity string, streams *record.Streams, cfg *config.Config) ([]*finding.Finding, error) {
	calls := streams.Calls
	if len(calls) == 0 {
		return nil, nil
	}

	counts := make(map[string]int)
	for _, call := range calls {
		if !call.Counterparty.IsEmpty() {
			counts[call.Counterparty.E164()]++
		}
	}

	var highFreq []string
	for party, n := range counts {
		if n > cfg.CDR.HighFrequencyCalls {
			highFreq = append(highFreq, party)
		}
	}
	if len(highFreq) == 0 {
		return nil, nil
	}
	sort.Strings(highFreq)

	weight := 10
	severity := finding.SeverityMedium
	if len(highFreq) > 3 {
		weight = 15
		severity = finding.SeverityHigh
	}

	f := finding.NewWindow(identity, finding.CategoryFrequency, finding.PatternHighFrequency,
		severity, weight, calls[0].Timestamp, calls[len(calls)-1].Timestamp).
		WithDescription(fmt.Sprintf("%d counterparties contacted more than %d times",
			len(highFreq), cfg.CDR.HighFrequencyCalls)).
		WithEvidence("contacts", highFreq)
	return []*finding.Finding{f}, nil
}
