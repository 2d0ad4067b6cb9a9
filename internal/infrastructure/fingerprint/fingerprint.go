// Package fingerprint labels data sessions with an application name based
// on destination port and transport protocol signatures. Labels feed the
// encryption and app-signature detectors; an unmatched session stays
// unlabeled rather than guessing.
package fingerprint

import "strings"

// Signature describes one application's network footprint. Risk and type
// annotations travel with the label into finding evidence.
type Signature struct {
	App     string
	Ports   []int
	Risk    string
	Type    string
	TCPOnly bool
}

// signatures are checked in order; the first port match wins, so the more
// specific messaging apps come before the generic HTTPS claimants.
var signatures = []Signature{
	{App: "whatsapp", Ports: []int{443, 5222}, Risk: "HIGH", Type: "encrypted_messaging", TCPOnly: true},
	{App: "telegram", Ports: []int{443}, Risk: "HIGH", Type: "encrypted_messaging", TCPOnly: true},
	{App: "signal", Ports: []int{443}, Risk: "HIGH", Type: "encrypted_messaging"},
	{App: "threema", Ports: []int{5222}, Risk: "HIGH", Type: "encrypted_messaging"},
	{App: "banking", Ports: []int{443, 8443}, Risk: "MEDIUM", Type: "financial"},
	{App: "video_call", Ports: []int{3478, 19302}, Risk: "MEDIUM", Type: "communication"},
	{App: "vpn", Ports: []int{1194, 1723, 500}, Risk: "HIGH", Type: "anonymization"},
	{App: "tor", Ports: []int{9001, 9050}, Risk: "CRITICAL", Type: "anonymization"},
}

// Identify returns the application label for a destination port and
// protocol, or "" when no signature matches.
func Identify(destPort int, protocol string) string {
	tcp := strings.EqualFold(protocol, "tcp")
	for _, sig := range signatures {
		if sig.TCPOnly && !tcp {
			continue
		}
		for _, p := range sig.Ports {
			if p == destPort {
				return sig.App
			}
		}
	}
	return ""
}

// Risk returns the signature risk annotation for a label, defaulting to
// LOW for unknown or empty labels.
func Risk(app string) string {
	for _, sig := range signatures {
		if sig.App == app {
			return sig.Risk
		}
	}
	return "LOW"
}
