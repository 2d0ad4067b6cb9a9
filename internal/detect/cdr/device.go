package cdr

import (
	"fmt"

	"github.com/argusintel/argus/internal/domain/finding"
	"github.com/argusintel/argus/internal/domain/record"
	"github.com/argusintel/argus/internal/domain/values"
	"github.com/argusintel/argus/internal/infrastructure/config"
)

// DeviceDetector flags IMEI switching and SIM swapping. Two distinct IMEIs
// already indicate deliberate device rotation; three or more is the
// high-risk tier. The device-switching pattern also drives the MEDIUM risk
// floor in scoring.
type DeviceDetector struct{}

func (DeviceDetector) Name() string { return "cdr.device" }

func (DeviceDetector) Detect(identity string, streams *record.Streams, cfg *config.Config) ([]*finding.Finding, error) {
	if len(streams.Calls) == 0 {
		return nil, nil
	}

	imeis := make(map[string]bool)
	imsis := make(map[string]bool)
	for _, call := range streams.Calls {
		if !call.IMEI.IsEmpty() {
			imeis[call.IMEI.String()] = true
		}
		if !call.IMSI.IsEmpty() {
			imsis[call.IMSI.String()] = true
		}
	}

	var findings []*finding.Finding
	first := streams.Calls[0].Timestamp
	last := streams.Calls[len(streams.Calls)-1].Timestamp

	if len(imeis) >= 2 {
		severity := finding.SeverityMedium
		if len(imeis) >= cfg.CDR.HighRiskDeviceCount {
			severity = finding.SeverityHigh
		}
		f := finding.NewWindow(identity, finding.CategoryDevice, finding.PatternDeviceSwitching,
			severity, 25, first, last).
			WithDescription(fmt.Sprintf("%d distinct IMEIs in use", len(imeis))).
			WithEvidence("imei_count", len(imeis)).
			WithEvidence("imeis", sortedKeys(imeis))
		findings = append(findings, f)
	}

	if len(imsis) >= 2 {
		f := finding.NewWindow(identity, finding.CategoryDevice, finding.PatternSIMSwapping,
			finding.SeverityMedium, 10, first, last).
			WithDescription(fmt.Sprintf("%d distinct IMSIs in use", len(imsis))).
			WithEvidence("imsi_count", len(imsis)).
			WithEvidence("imsis", sortedKeys(imsis))
		findings = append(findings, f)
	}

	return findings, nil
}

// DeviceCount returns the distinct IMEI count for an identity's call stream.
// The scoring override consumes this through the device-switching finding.
func DeviceCount(streams *record.Streams, kind values.DeviceIDKind) int {
	seen := make(map[string]bool)
	for _, call := range streams.Calls {
		var id values.DeviceID
		switch kind {
		case values.DeviceIDIMEI:
			id = call.IMEI
		case values.DeviceIDIMSI:
			id = call.IMSI
		}
		if !id.IsEmpty() {
			seen[id.String()] = true
		}
	}
	return len(seen)
}
