package correlation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/argusintel/argus/internal/domain/finding"
	"github.com/argusintel/argus/internal/domain/record"
	"github.com/argusintel/argus/internal/domain/values"
	"github.com/argusintel/argus/internal/infrastructure/config"
)

var corrBase = time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)

func newTestCorrelator(t *testing.T) *Correlator {
	t.Helper()
	return NewCorrelator(config.Defaults(), zap.NewNop())
}

func corrCall(start time.Time, duration time.Duration) record.CallEvent {
	return record.CallEvent{
		Identity:     values.MustNewMSISDN("9876543210"),
		Counterparty: values.MustNewMSISDN("9123456780"),
		Timestamp:    start,
		Duration:     duration,
		Medium:       record.MediumVoice,
	}
}

func corrSession(start time.Time, appLabel string) record.DataSession {
	return record.DataSession{
		Identity: values.MustNewMSISDN("9876543210"),
		Start:    start,
		End:      start.Add(10 * time.Minute),
		AppLabel: appLabel,
	}
}

func TestCallToDataGapConfidence(t *testing.T) {
	tests := []struct {
		name           string
		gap            time.Duration
		app            string
		wantType       finding.LinkType
		wantConfidence finding.Confidence
		wantLink       bool
	}{
		{
			name:           "thirty second gap to encrypted app",
			gap:            30 * time.Second,
			app:            "whatsapp",
			wantType:       finding.LinkCallThenEncryption,
			wantConfidence: finding.ConfidenceCritical,
			wantLink:       true,
		},
		{
			name:           "fifty nine seconds is still critical",
			gap:            59 * time.Second,
			app:            "whatsapp",
			wantType:       finding.LinkCallThenEncryption,
			wantConfidence: finding.ConfidenceCritical,
			wantLink:       true,
		},
		{
			name:           "exactly sixty seconds drops to high",
			gap:            60 * time.Second,
			app:            "whatsapp",
			wantType:       finding.LinkCallThenEncryption,
			wantConfidence: finding.ConfidenceHigh,
			wantLink:       true,
		},
		{
			name:           "plain data session is medium",
			gap:            2 * time.Minute,
			app:            "browsing",
			wantType:       finding.LinkCallThenData,
			wantConfidence: finding.ConfidenceMedium,
			wantLink:       true,
		},
		{
			name:     "beyond the lookahead window",
			gap:      6 * time.Minute,
			app:      "whatsapp",
			wantLink: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := corrCall(corrBase, time.Minute)
			streams := &record.Streams{
				Calls:    []record.CallEvent{call},
				Sessions: []record.DataSession{corrSession(call.End().Add(tt.gap), tt.app)},
			}

			links := newTestCorrelator(t).Correlate("+919876543210", streams)
			if !tt.wantLink {
				assert.Empty(t, links)
				return
			}
			require.Len(t, links, 1)
			assert.Equal(t, tt.wantType, links[0].Type)
			assert.Equal(t, tt.wantConfidence, links[0].Confidence)
			assert.Equal(t, tt.gap, links[0].Gap)
		})
	}
}

func TestCallToDataUsesEarliestSession(t *testing.T) {
	call := corrCall(corrBase, time.Minute)
	streams := &record.Streams{
		Calls: []record.CallEvent{call},
		Sessions: []record.DataSession{
			corrSession(call.End().Add(30*time.Second), "browsing"),
			corrSession(call.End().Add(2*time.Minute), "whatsapp"),
		},
	}

	links := newTestCorrelator(t).Correlate("+919876543210", streams)
	require.Len(t, links, 1)
	assert.Equal(t, finding.LinkCallThenData, links[0].Type,
		"the first session after the call wins, not the most suspicious one")
}

func TestCallToDataSurvivesOverlappingLongCall(t *testing.T) {
	// A long call ends after a shorter call that follows it. The session
	// one minute after the short call must still link, even though the
	// long call's end time lies past the session start.
	streams := &record.Streams{
		Calls: []record.CallEvent{
			corrCall(corrBase, 10*time.Minute),
			corrCall(corrBase.Add(2*time.Minute), 0),
		},
		Sessions: []record.DataSession{
			corrSession(corrBase.Add(3*time.Minute), "whatsapp"),
		},
	}

	links := newTestCorrelator(t).Correlate("+919876543210", streams)
	require.Len(t, links, 1)
	assert.Equal(t, finding.LinkCallThenEncryption, links[0].Type)
	assert.Equal(t, time.Minute, links[0].Gap)
	assert.Equal(t, finding.ConfidenceHigh, links[0].Confidence)
}

func TestSilenceWithData(t *testing.T) {
	// A 60-hour voice silence with two sessions wholly inside it.
	streams := &record.Streams{
		Calls: []record.CallEvent{
			corrCall(corrBase, time.Minute),
			corrCall(corrBase.Add(60*time.Hour), time.Minute),
		},
		Sessions: []record.DataSession{
			corrSession(corrBase.Add(10*time.Hour), "whatsapp"),
			corrSession(corrBase.Add(20*time.Hour), "telegram"),
		},
	}

	links := newTestCorrelator(t).Correlate("+919876543210", streams)

	var silence *finding.CorrelationLink
	for _, l := range links {
		if l.Type == finding.LinkSilenceWithData {
			silence = l
		}
	}
	require.NotNil(t, silence)
	assert.Equal(t, finding.ConfidenceMedium, silence.Confidence)
	assert.Equal(t, 2, silence.Evidence["session_count"])
}

func TestSilenceWithDataSevereGap(t *testing.T) {
	streams := &record.Streams{
		Calls: []record.CallEvent{
			corrCall(corrBase, time.Minute),
			corrCall(corrBase.Add(100*time.Hour), time.Minute),
		},
		Sessions: []record.DataSession{
			corrSession(corrBase.Add(50*time.Hour), "whatsapp"),
		},
	}

	links := newTestCorrelator(t).Correlate("+919876543210", streams)
	require.Len(t, links, 1)
	assert.Equal(t, finding.LinkSilenceWithData, links[0].Type)
	assert.Equal(t, finding.ConfidenceHigh, links[0].Confidence,
		"a gap beyond the severe threshold raises confidence")
}

func TestSilenceWithoutSessionsNoLink(t *testing.T) {
	streams := &record.Streams{
		Calls: []record.CallEvent{
			corrCall(corrBase, time.Minute),
			corrCall(corrBase.Add(60*time.Hour), time.Minute),
		},
	}

	assert.Empty(t, newTestCorrelator(t).Correlate("+919876543210", streams))
}

func TestPresenceWithoutComm(t *testing.T) {
	streams := &record.Streams{
		Calls: []record.CallEvent{corrCall(corrBase, time.Minute)},
		Presence: []record.PresenceRecord{
			{
				Identity:  values.MustNewMSISDN("9876543210"),
				Timestamp: corrBase.Add(10 * time.Minute),
				TowerID:   "TWR-01",
			},
			{
				Identity:  values.MustNewMSISDN("9876543210"),
				Timestamp: corrBase.Add(5 * time.Hour),
				TowerID:   "TWR-02",
			},
		},
	}

	links := newTestCorrelator(t).Correlate("+919876543210", streams)
	require.Len(t, links, 1, "only the ping with no activity nearby links")
	assert.Equal(t, finding.LinkPresentNoComm, links[0].Type)
	assert.Equal(t, finding.ConfidenceLow, links[0].Confidence)
	assert.Equal(t, "TWR-02", links[0].Evidence["tower"])
}

func TestPresenceDuringInProgressCallNoLink(t *testing.T) {
	// The call starts 45 minutes before the ping, outside the window, but
	// is still in progress 15 minutes into it. That counts as
	// communication, so the ping must not link.
	streams := &record.Streams{
		Calls: []record.CallEvent{corrCall(corrBase, 25*time.Minute)},
		Presence: []record.PresenceRecord{
			{
				Identity:  values.MustNewMSISDN("9876543210"),
				Timestamp: corrBase.Add(45 * time.Minute),
				TowerID:   "TWR-01",
			},
		},
	}

	assert.Empty(t, newTestCorrelator(t).Correlate("+919876543210", streams))
}

func TestCorrelateDeterministicIDs(t *testing.T) {
	call := corrCall(corrBase, time.Minute)
	streams := &record.Streams{
		Calls:    []record.CallEvent{call},
		Sessions: []record.DataSession{corrSession(call.End().Add(30*time.Second), "whatsapp")},
	}

	c := newTestCorrelator(t)
	first := c.Correlate("+919876543210", streams)
	second := c.Correlate("+919876543210", streams)
	require.Len(t, first, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestBuildChainOrdering(t *testing.T) {
	f1 := finding.New("+919876543210", finding.CategoryDevice, finding.PatternDeviceSwitching,
		finding.SeverityMedium, 25, corrBase.Add(time.Hour))
	f2 := finding.New("+919876543210", finding.CategoryCommunication, finding.PatternVoiceSkew,
		finding.SeverityMedium, 8, corrBase)
	link := &finding.CorrelationLink{
		ID:       finding.DeriveID("link", "test"),
		Identity: "+919876543210",
		Type:     finding.LinkCallThenEncryption,
		First:    corrBase,
		Second:   corrBase.Add(time.Minute),
	}

	chain := BuildChain("+919876543210", []*finding.Finding{f1, f2}, []*finding.CorrelationLink{link})
	require.Len(t, chain.Entries, 3)

	// Same instant: findings come first, the link ranks last.
	assert.Same(t, f2, chain.Entries[0].Finding)
	assert.NotNil(t, chain.Entries[1].Link)
	assert.Same(t, f1, chain.Entries[2].Finding)
}

func TestBuildChainLinksRankAfterEveryCategory(t *testing.T) {
	f := finding.New("+919876543210", finding.CategoryMovement, finding.PatternImpossibleTravel,
		finding.SeverityCritical, 12, corrBase)
	link := &finding.CorrelationLink{
		ID:       finding.DeriveID("link", "tie"),
		Identity: "+919876543210",
		Type:     finding.LinkSilenceWithData,
		First:    corrBase,
		Second:   corrBase.Add(50 * time.Hour),
	}

	chain := BuildChain("+919876543210", []*finding.Finding{f}, []*finding.CorrelationLink{link})
	require.Len(t, chain.Entries, 2)
	assert.Same(t, f, chain.Entries[0].Finding,
		"even the last-declared category sorts ahead of a link at the same instant")
	assert.NotNil(t, chain.Entries[1].Link)
}
