package ipdr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/argusintel/argus/internal/domain/finding"
	"github.com/argusintel/argus/internal/domain/record"
	"github.com/argusintel/argus/internal/infrastructure/config"
)

// EncryptionDetector measures how much of an identity's data activity runs
// through encrypted applications, with a separate tier for encrypted
// sessions in the odd-hour window.
type EncryptionDetector struct{}

func (EncryptionDetector) Name() string { return "ipdr.encryption" }

func (EncryptionDetector) Detect(identity string, streams *record.Streams, cfg *config.Config) ([]*finding.Finding, error) {
	sessions := streams.Sessions
	if len(sessions) == 0 {
		return nil, nil
	}

	encrypted := 0
	oddHourEncrypted := 0
	apps := make(map[string]int)
	for _, s := range sessions {
		if !IsEncryptedApp(s.AppLabel, cfg) {
			continue
		}
		encrypted++
		apps[strings.ToLower(s.AppLabel)]++
		hour := s.Start.Hour()
		if hour >= cfg.CDR.OddHourStart && hour < cfg.CDR.OddHourEnd {
			oddHourEncrypted++
		}
	}
	if encrypted == 0 {
		return nil, nil
	}

	first := sessions[0].Start
	last := sessions[len(sessions)-1].Start
	var findings []*finding.Finding

	share := float64(encrypted) / float64(len(sessions)) * 100
	if weight := config.TierWeight(cfg.IPDR.EncryptedShareTiers, share); weight > 0 {
		severity := finding.SeverityMedium
		if share > 50 {
			severity = finding.SeverityHigh
		}
		findings = append(findings, finding.NewWindow(identity, finding.CategoryEncryption,
			finding.PatternEncryptedUsage, severity, weight, first, last).
			WithDescription(fmt.Sprintf("%.0f%% of sessions use encrypted apps", share)).
			WithEvidence("encrypted_sessions", encrypted).
			WithEvidence("total_sessions", len(sessions)).
			WithEvidence("apps", sortedAppCounts(apps)))
	}

	oddShare := float64(oddHourEncrypted) / float64(len(sessions)) * 100
	if weight := config.TierWeight(cfg.IPDR.OddHourShareTiers, oddShare); weight > 0 {
		findings = append(findings, finding.NewWindow(identity, finding.CategoryEncryption,
			finding.PatternEncryptedUsage, finding.SeverityHigh, weight, first, last).
			WithKey("odd_hour").
			WithDescription(fmt.Sprintf("%.0f%% of sessions are encrypted traffic in the %02d:00-%02d:00 window",
				oddShare, cfg.CDR.OddHourStart, cfg.CDR.OddHourEnd)).
			WithEvidence("odd_hour_encrypted", oddHourEncrypted))
	}

	return findings, nil
}

// IsEncryptedApp reports whether an application label belongs to the
// configured encrypted-app set.
func IsEncryptedApp(label string, cfg *config.Config) bool {
	label = strings.ToLower(label)
	for _, app := range cfg.IPDR.EncryptedApps {
		if label == strings.ToLower(app) {
			return true
		}
	}
	return false
}

func sortedAppCounts(apps map[string]int) []string {
	keys := make([]string, 0, len(apps))
	for k := range apps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprintf("%s x%d", k, apps[k])
	}
	return out
}
