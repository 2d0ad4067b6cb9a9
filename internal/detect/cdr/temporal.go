package cdr

import (
	"fmt"
	"sort"
	"time"

	"github.com/argusintel/argus/internal/domain/finding"
	"github.com/argusintel/argus/internal/domain/record"
	"github.com/argusintel/argus/internal/infrastructure/config"
)

// TemporalDetector covers the time-of-day and inter-event patterns: odd-hour
// activity, call bursts, and silent periods.
type TemporalDetector struct{}

func (TemporalDetector) Name() string { return "cdr.temporal" }

func (TemporalDetector) Detect(identity string, streams *record.Streams, cfg *config.Config) ([]*finding.Finding, error) {
	calls := streams.Calls
	if len(calls) == 0 {
		return nil, nil
	}

	var findings []*finding.Finding

	if f := detectOddHours(identity, calls, cfg); f != nil {
		findings = append(findings, f)
	}
	if f := detectBursts(identity, calls, cfg); f != nil {
		findings = append(findings, f)
	}
	findings = append(findings, detectSilentPeriods(identity, calls, cfg)...)

	return findings, nil
}

func detectOddHours(identity string, calls []record.CallEvent, cfg *config.Config) *finding.Finding {
	oddCount := 0
	for _, call := range calls {
		hour := call.Timestamp.Hour()
		if hour >= cfg.CDR.OddHourStart && hour < cfg.CDR.OddHourEnd {
			oddCount++
		}
	}

	pct := float64(oddCount) / float64(len(calls)) * 100
	weight := config.TierWeight(cfg.CDR.OddHourTiers, pct)
	if weight == 0 {
		return nil
	}

	severity := finding.SeverityMedium
	if weight >= 20 {
		severity = finding.SeverityHigh
	}
	return finding.NewWindow(identity, finding.CategoryTemporal, finding.PatternOddHourActivity,
		severity, weight, calls[0].Timestamp, calls[len(calls)-1].Timestamp).
		WithDescription(fmt.Sprintf("%.1f%% of calls in the %02d:00-%02d:00 window",
			pct, cfg.CDR.OddHourStart, cfg.CDR.OddHourEnd)).
		WithEvidence("odd_hour_calls", oddCount).
		WithEvidence("total_calls", len(calls)).
		WithEvidence("percentage", pct)
}

// detectBursts slides a window over the sorted stream and counts windows
// holding at least the burst call count. Overlapping windows within the
// burst window of an already-counted burst collapse into one burst event.
func detectBursts(identity string, calls []record.CallEvent, cfg *config.Config) *finding.Finding {
	var burstStarts []time.Time

	j := 0
	for i := range calls {
		windowEnd := calls[i].Timestamp.Add(cfg.CDR.BurstWindow)
		if j < i {
			j = i
		}
		for j < len(calls) && !calls[j].Timestamp.After(windowEnd) {
			j++
		}
		if j-i >= cfg.CDR.BurstCallCount {
			if len(burstStarts) == 0 ||
				calls[i].Timestamp.Sub(burstStarts[len(burstStarts)-1]) > cfg.CDR.BurstWindow {
				burstStarts = append(burstStarts, calls[i].Timestamp)
			}
		}
	}

	if len(burstStarts) <= cfg.CDR.BurstFindingCount {
		return nil
	}

	return finding.NewWindow(identity, finding.CategoryTemporal, finding.PatternCallBursts,
		finding.SeverityMedium, 5, burstStarts[0], burstStarts[len(burstStarts)-1]).
		WithDescription(fmt.Sprintf("%d call bursts (>=%d calls within %s)",
			len(burstStarts), cfg.CDR.BurstCallCount, cfg.CDR.BurstWindow)).
		WithEvidence("burst_count", len(burstStarts)).
		WithEvidence("burst_starts", timesToStrings(burstStarts))
}

// detectSilentPeriods reports inter-event gaps above the silence threshold.
// Identical timestamps are zero-duration gaps, not errors.
func detectSilentPeriods(identity string, calls []record.CallEvent, cfg *config.Config) []*finding.Finding {
	if len(calls) < 2 {
		return nil
	}

	var findings []*finding.Finding
	for i := 1; i < len(calls); i++ {
		gap := calls[i].Timestamp.Sub(calls[i-1].Timestamp)
		if gap <= cfg.CDR.SilentGap {
			continue
		}

		severity := finding.SeverityMedium
		weight := 8
		if gap > cfg.CDR.SilentGapSevere {
			severity = finding.SeverityHigh
			weight = 12
		}
		findings = append(findings, finding.NewWindow(identity, finding.CategoryTemporal,
			finding.PatternSilentPeriod, severity, weight,
			calls[i-1].Timestamp, calls[i].Timestamp).
			WithDescription(fmt.Sprintf("%.0f hours without any call activity", gap.Hours())).
			WithEvidence("gap_hours", gap.Hours()))
	}
	return findings
}

func timesToStrings(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Format(time.RFC3339)
	}
	return out
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
