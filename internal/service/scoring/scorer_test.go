package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/argusintel/argus/internal/domain/finding"
	"github.com/argusintel/argus/internal/infrastructure/config"
)

var scoreTime = time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	return NewScorer(&config.Defaults().Scoring, zap.NewNop())
}

func mkFinding(pattern string, category finding.Category, weight int) *finding.Finding {
	return finding.New("+919876543210", category, pattern, finding.SeverityMedium, weight, scoreTime).
		WithKey(pattern)
}

func TestScoreNoFindings(t *testing.T) {
	score, err := newTestScorer(t).Score("+919876543210", nil)
	require.NoError(t, err)

	assert.Equal(t, 0, score.Total)
	assert.Equal(t, finding.RiskLow, score.Level)
	assert.Zero(t, score.FindingCount)
	assert.Empty(t, score.Overrides)
}

func TestScoreCategoryCapClamping(t *testing.T) {
	// 3 x 12 points in Temporal exceeds the 25-point cap.
	findings := []*finding.Finding{
		mkFinding("a", finding.CategoryTemporal, 12),
		mkFinding("b", finding.CategoryTemporal, 12),
		mkFinding("c", finding.CategoryTemporal, 12),
	}

	score, err := newTestScorer(t).Score("+919876543210", findings)
	require.NoError(t, err)
	assert.Equal(t, 25, score.CategoryPoints[finding.CategoryTemporal])
	assert.Equal(t, 25, score.Total)
}

func TestScoreLevelBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		weight   int
		expected finding.RiskLevel
	}{
		{name: "below medium", weight: 29, expected: finding.RiskLow},
		{name: "medium boundary inclusive", weight: 30, expected: finding.RiskMedium},
		{name: "below high", weight: 49, expected: finding.RiskMedium},
		{name: "high boundary inclusive", weight: 50, expected: finding.RiskHigh},
		{name: "critical boundary inclusive", weight: 70, expected: finding.RiskCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Spread across categories so no per-category cap interferes.
			var findings []*finding.Finding
			remaining := tt.weight
			for _, cat := range []finding.Category{
				finding.CategoryEncryption, finding.CategorySession, finding.CategoryMovement,
			} {
				w := remaining
				if w > 25 {
					w = 25
				}
				if w <= 0 {
					break
				}
				findings = append(findings, mkFinding(cat.String(), cat, w))
				remaining -= w
			}

			score, err := newTestScorer(t).Score("+919876543210", findings)
			require.NoError(t, err)
			assert.Equal(t, tt.weight, score.Total)
			assert.Equal(t, tt.expected, score.Level)
		})
	}
}

func TestScoreTotalCap(t *testing.T) {
	var findings []*finding.Finding
	for _, cat := range []finding.Category{
		finding.CategoryDevice, finding.CategoryTemporal, finding.CategoryCommunication,
		finding.CategoryEncryption, finding.CategorySession, finding.CategoryMovement,
	} {
		findings = append(findings, mkFinding(cat.String(), cat, 30))
	}

	score, err := newTestScorer(t).Score("+919876543210", findings)
	require.NoError(t, err)
	assert.Equal(t, 100, score.Total)
	assert.Equal(t, finding.RiskCritical, score.Level)
}

func TestScoreOverrideFloors(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		weight   int
		expected finding.RiskLevel
	}{
		{
			name:     "device switching floors at medium",
			pattern:  finding.PatternDeviceSwitching,
			weight:   5,
			expected: finding.RiskMedium,
		},
		{
			name:     "impossible travel floors at high",
			pattern:  finding.PatternImpossibleTravel,
			weight:   10,
			expected: finding.RiskHigh,
		},
		{
			name:     "device cloning floors at high",
			pattern:  finding.PatternDeviceCloning,
			weight:   15,
			expected: finding.RiskHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := []*finding.Finding{
				mkFinding(tt.pattern, finding.CategoryDevice, tt.weight),
			}

			score, err := newTestScorer(t).Score("+919876543210", findings)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, score.Level)
			require.Len(t, score.Overrides, 1)
			assert.Equal(t, tt.pattern, score.Overrides[0].Pattern)
		})
	}
}

func TestScoreOverrideNeverLowers(t *testing.T) {
	// A total already at CRITICAL stays CRITICAL despite a MEDIUM floor.
	findings := []*finding.Finding{
		mkFinding(finding.PatternDeviceSwitching, finding.CategoryDevice, 25),
		mkFinding("e", finding.CategoryEncryption, 30),
		mkFinding("s", finding.CategorySession, 25),
	}

	score, err := newTestScorer(t).Score("+919876543210", findings)
	require.NoError(t, err)
	assert.Equal(t, finding.RiskCritical, score.Level)
}

func TestScoreFloorsDoNotStack(t *testing.T) {
	// Two HIGH-floor patterns still leave the level at HIGH, not CRITICAL.
	findings := []*finding.Finding{
		mkFinding(finding.PatternImpossibleTravel, finding.CategoryLocation, 10),
		mkFinding(finding.PatternDeviceCloning, finding.CategoryDevice, 15),
	}

	score, err := newTestScorer(t).Score("+919876543210", findings)
	require.NoError(t, err)
	assert.Equal(t, finding.RiskHigh, score.Level)
	assert.Len(t, score.Overrides, 2)
}

func TestScoreMissingCapIsConfigError(t *testing.T) {
	findings := []*finding.Finding{
		mkFinding("x", finding.Category(99), 10),
	}

	_, err := newTestScorer(t).Score("+919876543210", findings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONFIGURATION_ERROR")
}

func TestScoreDeterministic(t *testing.T) {
	findings := []*finding.Finding{
		mkFinding(finding.PatternDeviceSwitching, finding.CategoryDevice, 25),
		mkFinding("t", finding.CategoryTemporal, 20),
		mkFinding("c", finding.CategoryCommunication, 20),
	}

	first, err := newTestScorer(t).Score("+919876543210", findings)
	require.NoError(t, err)
	second, err := newTestScorer(t).Score("+919876543210", findings)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
