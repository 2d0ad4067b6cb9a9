package cdr

import (
	"fmt"
	"sort"
	"time"

	"github.com/argusintel/argus/internal/domain/finding"
	"github.com/argusintel/argus/internal/domain/record"
	"github.com/argusintel/argus/internal/infrastructure/config"
)

// CommunicationDetector covers medium skew (voice vs SMS), scripted
// repeated durations, and one-ring signaling.
type CommunicationDetector struct{}

func (CommunicationDetector) Name() string { return "cdr.communication" }

func (CommunicationDetector) Detect(identity string, streams *record.Streams, cfg *config.Config) ([]*finding.Finding, error) {
	calls := streams.Calls
	if len(calls) == 0 {
		return nil, nil
	}

	var findings []*finding.Finding
	if f := detectVoiceSkew(identity, calls, cfg); f != nil {
		findings = append(findings, f)
	}
	if f := detectScriptedDurations(identity, calls, cfg); f != nil {
		findings = append(findings, f)
	}
	findings = append(findings, detectOneRingSignaling(identity, calls, cfg)...)
	return findings, nil
}

func detectVoiceSkew(identity string, calls []record.CallEvent, cfg *config.Config) *finding.Finding {
	voice := 0
	for _, call := range calls {
		if call.Medium == record.MediumVoice {
			voice++
		}
	}

	pct := float64(voice) / float64(len(calls)) * 100
	weight := config.TierWeight(cfg.CDR.VoiceTiers, pct)
	if weight == 0 {
		return nil
	}

	severity := finding.SeverityMedium
	desc := fmt.Sprintf("%.0f%% voice-heavy communication", pct)
	if voice == len(calls) {
		severity = finding.SeverityHigh
		desc = "100% voice communication, no SMS trail"
	}
	return finding.NewWindow(identity, finding.CategoryCommunication, finding.PatternVoiceSkew,
		severity, weight, calls[0].Timestamp, calls[len(calls)-1].Timestamp).
		WithDescription(desc).
		WithEvidence("voice_calls", voice).
		WithEvidence("total_events", len(calls)).
		WithEvidence("voice_percentage", pct)
}

// detectScriptedDurations flags one exact voice duration repeating beyond
// the configured count, a marker for coded communication.
func detectScriptedDurations(identity string, calls []record.CallEvent, cfg *config.Config) *finding.Finding {
	durations := make(map[time.Duration]int)
	for _, call := range calls {
		if call.Medium == record.MediumVoice && call.Duration > 0 {
			durations[call.Duration]++
		}
	}

	var repeated []time.Duration
	for d, n := range durations {
		if n > cfg.CDR.RepeatedDurationCalls {
			repeated = append(repeated, d)
		}
	}
	if len(repeated) == 0 {
		return nil
	}
	sort.Slice(repeated, func(i, j int) bool { return repeated[i] < repeated[j] })

	evidence := make([]string, len(repeated))
	for i, d := range repeated {
		evidence[i] = fmt.Sprintf("%s x%d", d, durations[d])
	}
	return finding.NewWindow(identity, finding.CategoryCommunication, finding.PatternScriptedDurations,
		finding.SeverityMedium, 5, calls[0].Timestamp, calls[len(calls)-1].Timestamp).
		WithDescription(fmt.Sprintf("%d call durations repeat more than %d times",
			len(repeated), cfg.CDR.RepeatedDurationCalls)).
		WithEvidence("repeated_durations", evidence)
}

// detectOneRingSignaling flags counterparties receiving repeated calls at or
// below the one-ring duration, plus the rapid sub-pattern of two such calls
// to the same counterparty within the signal window.
func detectOneRingSignaling(identity string, calls []record.CallEvent, cfg *config.Config) []*finding.Finding {
	type oneRing struct {
		at time.Time
	}
	perParty := make(map[string][]oneRing)
	for _, call := range calls {
		if call.Medium == record.MediumVoice && call.Duration <= cfg.CDR.OneRingMaxDuration {
			key := call.Counterparty.E164()
			perParty[key] = append(perParty[key], oneRing{at: call.Timestamp})
		}
	}

	parties := make([]string, 0, len(perParty))
	for p := range perParty {
		parties = append(parties, p)
	}
	sort.Strings(parties)

	var findings []*finding.Finding
	for _, party := range parties {
		rings := perParty[party]
		if len(rings) >= cfg.CDR.OneRingMinCount {
			findings = append(findings, finding.NewWindow(identity, finding.CategoryCommunication,
				finding.PatternOneRingSignaling, finding.SeverityMedium, 5,
				rings[0].at, rings[len(rings)-1].at).
				WithKey(party).
				WithDescription(fmt.Sprintf("%d one-ring calls (<=%s) to %s",
					len(rings), cfg.CDR.OneRingMaxDuration, party)).
				WithEvidence("counterparty", party).
				WithEvidence("one_ring_count", len(rings)))
		}

		// Rapid signaling: any two one-rings to the same party close
		// together, independent of the repeat-count threshold above.
		for i := 1; i < len(rings); i++ {
			if rings[i].at.Sub(rings[i-1].at) <= cfg.CDR.RapidSignalWindow {
				findings = append(findings, finding.NewWindow(identity, finding.CategoryCommunication,
					finding.PatternRapidSignaling, finding.SeverityHigh, 3,
					rings[i-1].at, rings[i].at).
					WithKey(party).
					WithDescription(fmt.Sprintf("two one-ring calls to %s within %s",
						party, cfg.CDR.RapidSignalWindow)).
					WithEvidence("counterparty", party))
			}
		}
	}
	return findings
}
