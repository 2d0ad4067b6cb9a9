package cdr

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argusintel/argus/internal/domain/finding"
	"github.com/argusintel/argus/internal/domain/record"
)

func repeatedCalls(party string, n int, start time.Duration) []record.CallEvent {
	calls := make([]record.CallEvent, 0, n)
	for i := 0; i < n; i++ {
		calls = append(calls, call(to(party), at(start+minutes(i))))
	}
	return calls
}

func TestFrequencyDetectorHighFrequencyContact(t *testing.T) {
	detector := FrequencyDetector{}
	cfg := testCfg()

	calls := repeatedCalls("9123456780", cfg.CDR.HighFrequencyCalls+1, 0)
	calls = append(calls, call(to("9111111111"), at(minutes(300))))

	findings, err := detector.Detect("+919876543210", callStream(calls...), cfg)
	require.NoError(t, err)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, finding.PatternHighFrequency, f.Pattern)
	assert.Equal(t, finding.CategoryFrequency, f.Category)
	assert.Equal(t, finding.SeverityMedium, f.Severity)
	assert.Equal(t, 10, f.Weight)
	assert.Equal(t, []string{"+919123456780"}, f.Evidence["contacts"])
}

func TestFrequencyDetectorManyHotContactsEscalates(t *testing.T) {
	detector := FrequencyDetector{}
	cfg := testCfg()

	var calls []record.CallEvent
	for i := 0; i < 4; i++ {
		party := fmt.Sprintf("912345678%d", i)
		calls = append(calls, repeatedCalls(party, cfg.CDR.HighFrequencyCalls+1, minutes(i*30))...)
	}

	findings, err := detector.Detect("+919876543210", callStream(calls...), cfg)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, finding.SeverityHigh, findings[0].Severity)
	assert.Equal(t, 15, findings[0].Weight)
}

func TestFrequencyDetectorBelowThreshold(t *testing.T) {
	detector := FrequencyDetector{}
	cfg := testCfg()

	findings, err := detector.Detect("+919876543210",
		callStream(repeatedCalls("9123456780", cfg.CDR.HighFrequencyCalls, 0)...), cfg)
	require.NoError(t, err)
	assert.Empty(t, findings)

	findings, err = detector.Detect("+919876543210", callStream(), cfg)
	require.NoError(t, err)
	assert.Empty(t, findings)
}
