package scoring

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/argusintel/argus/internal/domain/finding"
	apperrors "github.com/argusintel/argus/internal/errors"
	"github.com/argusintel/argus/internal/infrastructure/config"
)

// Scorer aggregates an identity's findings into a capped, categorized risk
// score. Scoring is a pure fold over the findings: the same inputs always
// produce the same RiskScore.
type Scorer struct {
	cfg    *config.ScoringConfig
	logger *zap.Logger
}

func NewScorer(cfg *config.ScoringConfig, logger *zap.Logger) *Scorer {
	return &Scorer{cfg: cfg, logger: logger}
}

// Score folds findings into per-category point sums, clamps each category
// at its cap, clamps the total, maps the total to a level, then applies
// override floors. Overrides only ever raise the level.
//
// A finding in a category with no configured cap is a configuration error
// and aborts the run rather than silently inflating the total.
func (s *Scorer) Score(identity string, findings []*finding.Finding) (*finding.RiskScore, error) {
	score := &finding.RiskScore{
		Identity:       identity,
		CategoryPoints: make(map[finding.Category]int),
		FindingCount:   len(findings),
	}
	if len(findings) == 0 {
		score.Level = finding.RiskLow
		return score, nil
	}

	raw := make(map[finding.Category]int)
	for _, f := range findings {
		raw[f.Category] += f.Weight
	}

	categories := make([]finding.Category, 0, len(raw))
	for cat := range raw {
		categories = append(categories, cat)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	total := 0
	for _, cat := range categories {
		cap, ok := s.cfg.Caps.Cap(cat)
		if !ok {
			return nil, apperrors.NewConfigError(
				fmt.Sprintf("no scoring cap configured for category %s", cat))
		}
		points := raw[cat]
		if points > cap {
			points = cap
		}
		score.CategoryPoints[cat] = points
		total += points
	}
	if total > s.cfg.TotalCap {
		total = s.cfg.TotalCap
	}
	score.Total = total
	score.Level = s.levelFor(total)

	s.applyOverrides(score, findings)

	s.logger.Debug("scored identity",
		zap.String("identity", identity),
		zap.Int("total", score.Total),
		zap.String("level", score.Level.String()),
		zap.Int("findings", score.FindingCount))
	return score, nil
}

func (s *Scorer) levelFor(total int) finding.RiskLevel {
	switch {
	case total >= s.cfg.CriticalAt:
		return finding.RiskCritical
	case total >= s.cfg.HighAt:
		return finding.RiskHigh
	case total >= s.cfg.MediumAt:
		return finding.RiskMedium
	default:
		return finding.RiskLow
	}
}

// applyOverrides raises the level to each matched rule's floor. Floors do
// not stack: two rules floored at HIGH still leave the level at HIGH.
func (s *Scorer) applyOverrides(score *finding.RiskScore, findings []*finding.Finding) {
	present := make(map[string]bool, len(findings))
	for _, f := range findings {
		present[f.Pattern] = true
	}

	for _, rule := range s.cfg.Overrides {
		if !present[rule.Pattern] {
			continue
		}
		floor := rule.Level()
		score.Overrides = append(score.Overrides, finding.OverrideApplication{
			Pattern:  rule.Pattern,
			MinLevel: floor,
			Reason:   fmt.Sprintf("%s floors the risk level at %s", rule.Pattern, floor),
		})
		score.Level = score.Level.Max(floor)
	}
}
