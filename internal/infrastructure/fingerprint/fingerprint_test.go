package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentify(t *testing.T) {
	tests := []struct {
		name     string
		port     int
		protocol string
		expected string
	}{
		{name: "whatsapp over tcp 443", port: 443, protocol: "TCP", expected: "whatsapp"},
		{name: "udp 443 skips tcp-only messengers", port: 443, protocol: "UDP", expected: "signal"},
		{name: "xmpp port", port: 5222, protocol: "TCP", expected: "whatsapp"},
		{name: "threema over udp", port: 5222, protocol: "UDP", expected: "threema"},
		{name: "openvpn", port: 1194, protocol: "UDP", expected: "vpn"},
		{name: "tor relay", port: 9001, protocol: "TCP", expected: "tor"},
		{name: "stun for video calls", port: 3478, protocol: "UDP", expected: "video_call"},
		{name: "unknown port", port: 8080, protocol: "TCP", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Identify(tt.port, tt.protocol))
		})
	}
}

func TestRisk(t *testing.T) {
	assert.Equal(t, "CRITICAL", Risk("tor"))
	assert.Equal(t, "HIGH", Risk("whatsapp"))
	assert.Equal(t, "MEDIUM", Risk("banking"))
	assert.Equal(t, "LOW", Risk("unknown-app"))
	assert.Equal(t, "LOW", Risk(""))
}
