package ipdr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/argusintel/argus/internal/domain/finding"
	"github.com/argusintel/argus/internal/domain/record"
	"github.com/argusintel/argus/internal/infrastructure/config"
)

// AppSignatureDetector profiles which fingerprinted applications an
// identity leans on: anonymization tooling and unusually wide encrypted
// messenger spread. Traffic through configured anonymizer labels is a
// stronger signal than ordinary encrypted messaging.
type AppSignatureDetector struct{}

func (AppSignatureDetector) Name() string { return "ipdr.appsignature" }

func (AppSignatureDetector) Detect(identity string, streams *record.Streams, cfg *config.Config) ([]*finding.Finding, error) {
	sessions := streams.Sessions
	if len(sessions) == 0 {
		return nil, nil
	}

	anonymizerSet := make(map[string]bool, len(cfg.IPDR.AnonymizerApps))
	for _, app := range cfg.IPDR.AnonymizerApps {
		anonymizerSet[strings.ToLower(app)] = true
	}

	anonymizers := make(map[string]int)
	messengers := make(map[string]bool)
	for _, s := range sessions {
		label := strings.ToLower(s.AppLabel)
		if label == "" {
			continue
		}
		if anonymizerSet[label] {
			anonymizers[label]++
		} else if IsEncryptedApp(label, cfg) {
			messengers[label] = true
		}
	}

	first := sessions[0].Start
	last := sessions[len(sessions)-1].Start
	var findings []*finding.Finding

	if len(anonymizers) > 0 {
		labels := make([]string, 0, len(anonymizers))
		total := 0
		for l, n := range anonymizers {
			labels = append(labels, l)
			total += n
		}
		sort.Strings(labels)
		findings = append(findings, finding.NewWindow(identity, finding.CategoryAppSignature,
			finding.PatternEncryptedUsage, finding.SeverityCritical, 10, first, last).
			WithKey("anonymizer").
			WithDescription(fmt.Sprintf("%d sessions through anonymization tooling (%s)",
				total, strings.Join(labels, ", "))).
			WithEvidence("apps", labels).
			WithEvidence("session_count", total))
	}

	if len(messengers) >= 3 {
		labels := make([]string, 0, len(messengers))
		for l := range messengers {
			labels = append(labels, l)
		}
		sort.Strings(labels)
		findings = append(findings, finding.NewWindow(identity, finding.CategoryAppSignature,
			finding.PatternEncryptedUsage, finding.SeverityMedium, 5, first, last).
			WithKey("messenger_spread").
			WithDescription(fmt.Sprintf("%d distinct encrypted messengers in use", len(labels))).
			WithEvidence("apps", labels))
	}

	return findings, nil
}
