package correlation

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/argusintel/argus/internal/detect/ipdr"
	"github.com/argusintel/argus/internal/domain/finding"
	"github.com/argusintel/argus/internal/domain/record"
	"github.com/argusintel/argus/internal/infrastructure/config"
)

// Correlator joins one identity's call, data and presence streams into
// cross-source links. All three streams must already be chronologically
// sorted; the orchestrator verifies that before any correlation runs.
type Correlator struct {
	cfg    *config.Config
	logger *zap.Logger
}

func NewCorrelator(cfg *config.Config, logger *zap.Logger) *Correlator {
	return &Correlator{cfg: cfg, logger: logger}
}

// Correlate produces every link for one identity, in deterministic order:
// call-to-data links first (by call time), then silence links, then
// presence links.
func (c *Correlator) Correlate(identity string, streams *record.Streams) []*finding.CorrelationLink {
	var links []*finding.CorrelationLink
	links = append(links, c.callToData(identity, streams)...)
	links = append(links, c.silenceWithData(identity, streams)...)
	links = append(links, c.presenceWithoutComm(identity, streams)...)

	c.logger.Debug("correlated identity",
		zap.String("identity", identity),
		zap.Int("links", len(links)))
	return links
}

// callToData links each call to the first data session opening after the
// call ends, within the lookahead window. A gap strictly under the
// critical threshold is treated as a likely channel switch; when the
// session is an encrypted application that is the strongest link this
// correlator produces.
func (c *Correlator) callToData(identity string, streams *record.Streams) []*finding.CorrelationLink {
	cc := c.cfg.Correlation
	sessions := streams.Sessions
	var links []*finding.CorrelationLink

	for _, call := range streams.Calls {
		end := call.End()
		// Calls are sorted by start, not end, so each call searches the
		// session stream independently. An overlapping longer call must
		// not consume sessions that belong to a later, shorter one.
		idx := sort.Search(len(sessions), func(i int) bool {
			return !sessions[i].Start.Before(end)
		})
		if idx == len(sessions) {
			continue
		}
		session := sessions[idx]
		gap := session.Start.Sub(end)
		if gap > cc.Lookahead {
			continue
		}

		encrypted := ipdr.IsEncryptedApp(session.AppLabel, c.cfg)
		linkType := finding.LinkCallThenData
		if encrypted {
			linkType = finding.LinkCallThenEncryption
		}

		confidence := finding.ConfidenceMedium
		switch {
		case gap < cc.CriticalGap:
			confidence = finding.ConfidenceCritical
		case encrypted:
			confidence = finding.ConfidenceHigh
		}

		links = append(links, &finding.CorrelationLink{
			ID:         finding.DeriveID("link", identity, linkType.String(), end.UnixNano(), session.Start.UnixNano()),
			Identity:   identity,
			Type:       linkType,
			Confidence: confidence,
			First:      end,
			Second:     session.Start,
			Gap:        gap,
			Description: fmt.Sprintf("call ended, %s session opened %s later",
				session.AppLabel, gap),
			Evidence: map[string]any{
				"counterparty": call.Counterparty.String(),
				"app":          session.AppLabel,
				"gap_seconds":  gap.Seconds(),
			},
		})
	}
	return links
}

// silenceWithData flags voice silences that data activity fills: a gap
// between consecutive calls beyond the silence threshold, with at least
// one session falling wholly inside it. Going dark on voice while staying
// active on data suggests a deliberate channel shift.
func (c *Correlator) silenceWithData(identity string, streams *record.Streams) []*finding.CorrelationLink {
	cc := c.cfg.Correlation
	calls := streams.Calls
	if len(calls) < 2 {
		return nil
	}

	var links []*finding.CorrelationLink
	for i := 1; i < len(calls); i++ {
		gapStart := calls[i-1].End()
		gapEnd := calls[i].Timestamp
		gap := gapEnd.Sub(gapStart)
		if gap <= cc.SilenceThreshold {
			continue
		}

		inside := 0
		apps := make(map[string]bool)
		for _, s := range streams.Sessions {
			if s.Start.After(gapStart) && s.End.Before(gapEnd) {
				inside++
				apps[s.AppLabel] = true
			}
		}
		if inside == 0 {
			continue
		}

		confidence := finding.ConfidenceMedium
		if gap > c.cfg.CDR.SilentGapSevere {
			confidence = finding.ConfidenceHigh
		}

		links = append(links, &finding.CorrelationLink{
			ID:         finding.DeriveID("link", identity, "SILENCE_WITH_DATA", gapStart.UnixNano(), gapEnd.UnixNano()),
			Identity:   identity,
			Type:       finding.LinkSilenceWithData,
			Confidence: confidence,
			First:      gapStart,
			Second:     gapEnd,
			Gap:        gap,
			Description: fmt.Sprintf("%.0f hour voice silence covered by %d data sessions",
				gap.Hours(), inside),
			Evidence: map[string]any{
				"silence_hours": gap.Hours(),
				"session_count": inside,
				"app_count":     len(apps),
			},
		})
	}
	return links
}

// presenceWithoutComm flags tower appearances with no call or data
// activity inside the co-occurrence window on either side. The handset
// was there and said nothing, which is worth an investigator's glance but
// never more than low confidence on its own.
func (c *Correlator) presenceWithoutComm(identity string, streams *record.Streams) []*finding.CorrelationLink {
	cc := c.cfg.Correlation
	var links []*finding.CorrelationLink

	for _, p := range streams.Presence {
		lo := p.Timestamp.Add(-cc.PresenceWindow)
		hi := p.Timestamp.Add(cc.PresenceWindow)
		if anyCallWithin(streams.Calls, lo, hi) || anySessionWithin(streams.Sessions, lo, hi) {
			continue
		}
		links = append(links, &finding.CorrelationLink{
			ID:         finding.DeriveID("link", identity, "PRESENT_NO_COMM", p.Timestamp.UnixNano(), p.TowerID),
			Identity:   identity,
			Type:       finding.LinkPresentNoComm,
			Confidence: finding.ConfidenceLow,
			First:      p.Timestamp,
			Second:     p.Timestamp,
			Description: fmt.Sprintf("present at tower %s with no communication within %s",
				p.TowerID, cc.PresenceWindow),
			Evidence: map[string]any{
				"tower": p.TowerID,
			},
		})
	}
	return links
}

// anyCallWithin reports whether any call overlaps [lo, hi]. A call that
// started before the window but was still in progress inside it counts
// as communication.
func anyCallWithin(calls []record.CallEvent, lo, hi time.Time) bool {
	for _, c := range calls {
		if c.Timestamp.After(hi) {
			return false
		}
		if !c.End().Before(lo) {
			return true
		}
	}
	return false
}

func anySessionWithin(sessions []record.DataSession, lo, hi time.Time) bool {
	for _, s := range sessions {
		if s.Start.After(hi) {
			return false
		}
		if !s.End.Before(lo) {
			return true
		}
	}
	return false
}
