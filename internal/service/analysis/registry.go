package analysis

import (
	"github.com/argusintel/argus/internal/detect"
	"github.com/argusintel/argus/internal/detect/cdr"
	"github.com/argusintel/argus/internal/detect/ipdr"
	"github.com/argusintel/argus/internal/detect/tower"
)

// DefaultDetectors returns the per-identity detector set in execution
// order. Order is part of the engine's deterministic contract: findings
// sharing a timestamp keep detector order through the stable sort.
func DefaultDetectors() []detect.Detector {
	return []detect.Detector{
		cdr.DeviceDetector{},
		cdr.TemporalDetector{},
		cdr.CommunicationDetector{},
		cdr.FrequencyDetector{},
		cdr.TravelDetector{},
		ipdr.EncryptionDetector{},
		ipdr.VolumeDetector{},
		ipdr.SessionDetector{},
		ipdr.AppSignatureDetector{},
		tower.PresenceDetector{},
		tower.MovementDetector{},
		tower.DeviceIdentityDetector{},
	}
}

// DefaultCrossDetectors returns the multi-identity detector set.
func DefaultCrossDetectors() []detect.CrossDetector {
	return []detect.CrossDetector{
		cdr.SyncDetector{},
		cdr.CommonContactDetector{},
		cdr.LoopDetector{},
	}
}
