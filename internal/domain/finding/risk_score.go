package finding

// RiskLevel is the discrete investigative priority derived from a score
// total. The ordinal order matters: override floors take max() on it.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
	RiskCritical
)

func (l RiskLevel) String() string {
	switch l {
	case RiskLow:
		return "LOW"
	case RiskMedium:
		return "MEDIUM"
	case RiskHigh:
		return "HIGH"
	case RiskCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Max returns the higher of two levels on the ordinal scale.
func (l RiskLevel) Max(other RiskLevel) RiskLevel {
	if other > l {
		return other
	}
	return l
}

// OverrideApplication records one floor rule that fired during scoring.
type OverrideApplication struct {
	Pattern  string
	MinLevel RiskLevel
	Reason   string
}

// RiskScore is the capped, categorized result of aggregating one identity's
// findings. Recomputed fully on every scoring run; never mutated
// incrementally.
type RiskScore struct {
	Identity       string
	CategoryPoints map[Category]int
	Total          int
	Level          RiskLevel
	Overrides      []OverrideApplication
	FindingCount   int
}
