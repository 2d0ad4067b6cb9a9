package cdr

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/argusintel/argus/internal/detect"
	"github.com/argusintel/argus/internal/domain/finding"
	"github.com/argusintel/argus/internal/infrastructure/config"
)

// SyncDetector finds synchronized calling: clusters of tracked identities
// active within one short window of each other on the merged timeline.
type SyncDetector struct{}

func (SyncDetector) Name() string { return "cdr.network.sync" }

func (SyncDetector) DetectAll(timeline *detect.Timeline, cfg *config.Config) ([]*finding.Finding, error) {
	events := timeline.Events
	if len(events) < 2 {
		return nil, nil
	}

	window := cfg.CDR.SyncWindow
	var findings []*finding.Finding
	lastEmit := make(map[string]time.Time)

	j := 0
	for i := range events {
		end := events[i].Timestamp.Add(window)
		if j < i {
			j = i
		}
		for j < len(events) && !events[j].Timestamp.After(end) {
			j++
		}

		cluster := make(map[string]bool)
		for k := i; k < j; k++ {
			cluster[events[k].Identity] = true
		}
		if len(cluster) < 2 {
			continue
		}

		members := make([]string, 0, len(cluster))
		for m := range cluster {
			members = append(members, m)
		}
		sort.Strings(members)
		signature := strings.Join(members, ",")

		// A cluster sliding through adjacent windows, or a tail subset of
		// one already emitted, is the same event.
		covered := true
		for _, m := range members {
			if last, ok := lastEmit[m]; !ok || events[i].Timestamp.Sub(last) > window {
				covered = false
				break
			}
		}
		if covered {
			continue
		}
		for _, m := range members {
			lastEmit[m] = events[i].Timestamp
		}

		severity := finding.SeverityMedium
		weight := 5
		if len(cluster) >= 3 {
			severity = finding.SeverityHigh
			weight = 8
		}
		for _, member := range members {
			findings = append(findings, finding.NewWindow(member, finding.CategoryNetwork,
				finding.PatternSynchronizedCalls, severity, weight,
				events[i].Timestamp, end).
				WithKey(signature).
				WithDescription(fmt.Sprintf("%d identities calling within %s of each other",
					len(cluster), window)).
				WithEvidence("cluster", members))
		}
	}

	return findings, nil
}

// CommonContactDetector flags counterparties reached by several tracked
// identities, a hub signal in the communication graph.
type CommonContactDetector struct{}

func (CommonContactDetector) Name() string { return "cdr.network.common_contacts" }

func (CommonContactDetector) DetectAll(timeline *detect.Timeline, cfg *config.Config) ([]*finding.Finding, error) {
	identities := timeline.Identities()
	if len(identities) < 2 {
		return nil, nil
	}

	reachedBy := make(map[string][]string)
	for _, identity := range identities {
		for _, contact := range timeline.Contacts(identity) {
			if timeline.Tracked(contact) {
				continue
			}
			reachedBy[contact] = append(reachedBy[contact], identity)
		}
	}

	shared := make(map[string][]string) // identity -> common contacts
	for contact, callers := range reachedBy {
		if len(callers) < cfg.CDR.CommonContactMin {
			continue
		}
		for _, identity := range callers {
			shared[identity] = append(shared[identity], contact)
		}
	}

	var findings []*finding.Finding
	for _, identity := range identities {
		contacts := shared[identity]
		if len(contacts) == 0 {
			continue
		}
		sort.Strings(contacts)
		findings = append(findings, finding.New(identity, finding.CategoryNetwork,
			finding.PatternCommonContact, finding.SeverityMedium, 5, time.Time{}).
			WithDescription(fmt.Sprintf("%d contacts shared with %d+ other tracked identities",
				len(contacts), cfg.CDR.CommonContactMin-1)).
			WithEvidence("common_contacts", contacts))
	}
	return findings, nil
}

// LoopDetector runs a bounded-depth DFS over the directed who-called-whom
// graph looking for closed walks. The depth bound is a hard invariant of
// the search, not a tunable escape hatch: without it the walk enumeration
// is exponential.
type LoopDetector struct{}

func (LoopDetector) Name() string { return "cdr.network.loops" }

func (LoopDetector) DetectAll(timeline *detect.Timeline, cfg *config.Config) ([]*finding.Finding, error) {
	maxDepth := cfg.CDR.LoopMaxDepth
	if maxDepth > 8 {
		maxDepth = 8
	}

	seen := make(map[string]bool)
	var loops [][]string

	var dfs func(start, current string, path []string)
	dfs = func(start, current string, path []string) {
		if len(path) > maxDepth {
			return
		}
		for _, next := range timeline.Callees(current) {
			if next == start && len(path) >= 3 {
				loop := append([]string(nil), path...)
				if sig := canonicalLoop(loop); !seen[sig] {
					seen[sig] = true
					loops = append(loops, loop)
				}
				continue
			}
			if containsNode(path, next) {
				continue
			}
			dfs(start, next, append(path, next))
		}
	}

	for _, node := range timeline.Nodes() {
		dfs(node, node, []string{node})
	}

	var findings []*finding.Finding
	for _, loop := range loops {
		display := strings.Join(append(append([]string(nil), loop...), loop[0]), " -> ")
		for _, member := range loop {
			if !timeline.Tracked(member) {
				continue
			}
			findings = append(findings, finding.New(member, finding.CategoryNetwork,
				finding.PatternCircularLoop, finding.SeverityHigh, 5, time.Time{}).
				WithKey(display).
				WithDescription(fmt.Sprintf("circular communication loop of length %d", len(loop))).
				WithEvidence("loop", display))
		}
	}
	return findings, nil
}

// canonicalLoop rotates a cycle to start at its smallest node so the same
// cycle discovered from different entry points deduplicates.
func canonicalLoop(loop []string) string {
	min := 0
	for i := range loop {
		if loop[i] < loop[min] {
			min = i
		}
	}
	rotated := append(append([]string(nil), loop[min:]...), loop[:min]...)
	return strings.Join(rotated, ",")
}

func containsNode(path []string, node string) bool {
	for _, p := range path {
		if p == node {
			return true
		}
	}
	return false
}
