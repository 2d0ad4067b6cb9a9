package ipdr

import (
	"fmt"

	"github.com/argusintel/argus/internal/domain/finding"
	"github.com/argusintel/argus/internal/domain/record"
	"github.com/argusintel/argus/internal/infrastructure/config"
)

// SessionDetector flags marathon sessions and runs of short sessions that
// hop between applications inside tight windows.
type SessionDetector struct{}

func (SessionDetector) Name() string { return "ipdr.session" }

func (SessionDetector) Detect(identity string, streams *record.Streams, cfg *config.Config) ([]*finding.Finding, error) {
	sessions := streams.Sessions
	if len(sessions) == 0 {
		return nil, nil
	}

	var findings []*finding.Finding

	for i, s := range sessions {
		if s.Duration() <= cfg.IPDR.MarathonSession {
			continue
		}
		findings = append(findings, finding.NewWindow(identity, finding.CategorySession,
			finding.PatternMarathonSession, finding.SeverityMedium, 6, s.Start, s.End).
			WithKey(fmt.Sprintf("session_%d", i)).
			WithDescription(fmt.Sprintf("%.1f hour %s session", s.Duration().Hours(), s.AppLabel)).
			WithEvidence("duration_hours", s.Duration().Hours()).
			WithEvidence("app", s.AppLabel))
	}

	findings = append(findings, detectRapidSwitching(identity, sessions, cfg)...)
	return findings, nil
}

// detectRapidSwitching finds runs of sessions starting within the switch
// window of each other while hopping across distinct application labels.
func detectRapidSwitching(identity string, sessions []record.DataSession, cfg *config.Config) []*finding.Finding {
	if len(sessions) < cfg.IPDR.RapidSwitchCount {
		return nil
	}

	var findings []*finding.Finding
	runStart := 0
	apps := map[string]bool{sessions[0].AppLabel: true}

	flush := func(endIdx int) {
		runLen := endIdx - runStart + 1
		if runLen >= cfg.IPDR.RapidSwitchCount && len(apps) >= cfg.IPDR.RapidSwitchCount {
			findings = append(findings, finding.NewWindow(identity, finding.CategorySession,
				finding.PatternRapidSwitching, finding.SeverityMedium, 8,
				sessions[runStart].Start, sessions[endIdx].Start).
				WithKey(fmt.Sprintf("run_%d", runStart)).
				WithDescription(fmt.Sprintf("%d sessions across %d apps within %s windows",
					runLen, len(apps), cfg.IPDR.RapidSwitchWindow)).
				WithEvidence("session_count", runLen).
				WithEvidence("app_count", len(apps)))
		}
	}

	for i := 1; i < len(sessions); i++ {
		if sessions[i].Start.Sub(sessions[i-1].Start) <= cfg.IPDR.RapidSwitchWindow {
			apps[sessions[i].AppLabel] = true
			continue
		}
		flush(i - 1)
		runStart = i
		apps = map[string]bool{sessions[i].AppLabel: true}
	}
	flush(len(sessions) - 1)

	return findings
}
