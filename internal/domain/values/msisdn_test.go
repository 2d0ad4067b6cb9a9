package values

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMSISDN(t *testing.T) {
	tests := []struct {
		name     string
		number   string
		expected string
		wantErr  bool
	}{
		{
			name:     "valid E.164 number",
			number:   "+919876543210",
			expected: "+919876543210",
		},
		{
			name:     "bare ten digit national number",
			number:   "9876543210",
			expected: "+919876543210",
		},
		{
			name:     "zero trunk prefix",
			number:   "09876543210",
			expected: "+919876543210",
		},
		{
			name:     "number with spaces and dashes",
			number:   "98765 432-10",
			expected: "+919876543210",
		},
		{
			name:    "empty number",
			number:  "",
			wantErr: true,
		},
		{
			name:    "short code",
			number:  "121",
			wantErr: true,
		},
		{
			name:    "alphabetic sender",
			number:  "AA-AIRTEL",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewMSISDN(tt.number)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.E164())
		})
	}
}

func TestMSISDNEqual(t *testing.T) {
	a := MustNewMSISDN("9876543210")
	b := MustNewMSISDN("+919876543210")
	assert.True(t, a.Equal(b), "national and E.164 forms of the same number must compare equal")
}

func TestIsShortCode(t *testing.T) {
	assert.True(t, IsShortCode("121"))
	assert.True(t, IsShortCode("54321"))
	assert.False(t, IsShortCode("9876543210"))
}

func TestMSISDNJSONRoundTrip(t *testing.T) {
	original := MustNewMSISDN("9876543210")

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded MSISDN
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, original.Equal(decoded))
}

func TestNewDeviceID(t *testing.T) {
	tests := []struct {
		name    string
		kind    DeviceIDKind
		raw     string
		wantErr bool
	}{
		{name: "valid IMEI", kind: DeviceIDIMEI, raw: "356938035643809"},
		{name: "valid IMSI", kind: DeviceIDIMSI, raw: "404450987654321"},
		{name: "too short", kind: DeviceIDIMEI, raw: "12345", wantErr: true},
		{name: "empty", kind: DeviceIDIMEI, raw: "", wantErr: true},
		{name: "non numeric", kind: DeviceIDIMEI, raw: "35693803564380X", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewDeviceID(tt.kind, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, got.Kind())
			assert.Equal(t, tt.raw, got.String())
		})
	}
}
