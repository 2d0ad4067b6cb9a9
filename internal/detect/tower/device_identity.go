package tower

import (
	"fmt"
	"sort"

	"github.com/argusintel/argus/internal/domain/finding"
	"github.com/argusintel/argus/internal/domain/record"
	"github.com/argusintel/argus/internal/domain/values"
	"github.com/argusintel/argus/internal/infrastructure/config"
)

// DeviceIdentityDetector hunts for cloned hardware: the same IMEI observed
// at two towers so close in time that the implied speed clears the cloning
// ceiling. A hit floors the risk level at HIGH through scoring overrides.
type DeviceIdentityDetector struct{}

func (DeviceIdentityDetector) Name() string { return "tower.device_identity" }

func (DeviceIdentityDetector) Detect(identity string, streams *record.Streams, cfg *config.Config) ([]*finding.Finding, error) {
	pings := streams.Presence
	if len(pings) < 2 {
		return nil, nil
	}

	byIMEI := make(map[string][]record.PresenceRecord)
	for _, p := range pings {
		for _, d := range p.Devices {
			if d.Kind() == values.DeviceIDIMEI {
				byIMEI[d.String()] = append(byIMEI[d.String()], p)
			}
		}
	}

	imeis := make([]string, 0, len(byIMEI))
	for imei := range byIMEI {
		imeis = append(imeis, imei)
	}
	sort.Strings(imeis)

	var findings []*finding.Finding
	for _, imei := range imeis {
		sightings := byIMEI[imei]
		for i := 1; i < len(sightings); i++ {
			prev, curr := sightings[i-1], sightings[i]
			if prev.TowerID == curr.TowerID {
				continue
			}
			gap := curr.Timestamp.Sub(prev.Timestamp)
			if gap > cfg.Tower.CloneWindow {
				continue
			}

			distance := prev.Location.DistanceKm(curr.Location)
			speed := record.SpeedKmh(distance, gap.Hours())
			if speed <= cfg.Tower.CloneSpeedKmh {
				continue
			}

			findings = append(findings, finding.NewWindow(identity, finding.CategoryDevice,
				finding.PatternDeviceCloning, finding.SeverityCritical, 15,
				prev.Timestamp, curr.Timestamp).
				WithKey(imei).
				WithDescription(fmt.Sprintf("IMEI %s at towers %s and %s within %s (%.0f km/h implied)",
					imei, prev.TowerID, curr.TowerID, gap, speed)).
				WithEvidence("imei", imei).
				WithEvidence("towers", []string{prev.TowerID, curr.TowerID}).
				WithEvidence("speed_kmh", speed))
		}
	}
	return findings, nil
}
