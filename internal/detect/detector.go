package detect

import (
	"github.com/argusintel/argus/internal/domain/finding"
	"github.com/argusintel/argus/internal/domain/record"
	"github.com/argusintel/argus/internal/infrastructure/config"
)

// Detector consumes one identity's chronologically sorted streams and a
// threshold configuration and emits findings. Detectors are pure functions
// of their inputs: no shared mutable state, safe to run in any order and in
// parallel across identities.
//
// Empty or single-event streams are "no finding", never an error.
type Detector interface {
	Name() string
	Detect(identity string, streams *record.Streams, cfg *config.Config) ([]*finding.Finding, error)
}

// CrossDetector consumes the read-only merged multi-identity timeline.
// Cross detectors (synchronized calling, common contacts, circular loops)
// run in a single pass after the timeline view is built; they do not consume
// other detectors' outputs.
type CrossDetector interface {
	Name() string
	DetectAll(timeline *Timeline, cfg *config.Config) ([]*finding.Finding, error)
}
