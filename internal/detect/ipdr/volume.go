package ipdr

import (
	"fmt"
	"time"

	"github.com/argusintel/argus/internal/domain/finding"
	"github.com/argusintel/argus/internal/domain/record"
	"github.com/argusintel/argus/internal/infrastructure/config"
)

// VolumeDetector flags oversized uploads and activity concentrating on
// configured pattern days.
type VolumeDetector struct{}

func (VolumeDetector) Name() string { return "ipdr.volume" }

func (VolumeDetector) Detect(identity string, streams *record.Streams, cfg *config.Config) ([]*finding.Finding, error) {
	sessions := streams.Sessions
	if len(sessions) == 0 {
		return nil, nil
	}

	var findings []*finding.Finding

	for i, s := range sessions {
		if s.BytesUploaded <= cfg.IPDR.LargeUploadBytes {
			continue
		}
		mb := float64(s.BytesUploaded) / (1 << 20)
		findings = append(findings, finding.NewWindow(identity, finding.CategoryDataVolume,
			finding.PatternLargeUpload, finding.SeverityHigh, 8, s.Start, s.End).
			WithKey(fmt.Sprintf("session_%d", i)).
			WithDescription(fmt.Sprintf("%.1f MiB uploaded to %s in one session", mb, s.DestIP)).
			WithEvidence("bytes_uploaded", s.BytesUploaded).
			WithEvidence("destination", s.DestIP).
			WithEvidence("app", s.AppLabel))
	}

	if f := detectPatternDayConcentration(identity, sessions, cfg); f != nil {
		findings = append(findings, f)
	}

	return findings, nil
}

func detectPatternDayConcentration(identity string, sessions []record.DataSession, cfg *config.Config) *finding.Finding {
	if len(cfg.IPDR.PatternDays) == 0 {
		return nil
	}

	patternDays := make(map[time.Weekday]bool)
	for _, name := range cfg.IPDR.PatternDays {
		day, err := config.ParseWeekday(name)
		if err != nil {
			// Validated at load; unreachable in practice.
			continue
		}
		patternDays[day] = true
	}

	onPattern := 0
	for _, s := range sessions {
		if patternDays[s.Start.Weekday()] {
			onPattern++
		}
	}

	ratio := float64(onPattern) / float64(len(sessions))
	if ratio <= cfg.IPDR.PatternDayRatio {
		return nil
	}

	return finding.NewWindow(identity, finding.CategoryDataVolume, finding.PatternPatternDayActivity,
		finding.SeverityMedium, 10, sessions[0].Start, sessions[len(sessions)-1].Start).
		WithDescription(fmt.Sprintf("%.0f%% of data sessions fall on %v",
			ratio*100, cfg.IPDR.PatternDays)).
		WithEvidence("pattern_day_sessions", onPattern).
		WithEvidence("total_sessions", len(sessions)).
		WithEvidence("ratio", ratio)
}
