package values

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// MSISDN represents a normalized subscriber phone number value object.
// Tracked identities are keyed by this value.
type MSISDN struct {
	number string // stored in E.164 format (+919876543210)
}

var (
	// E.164 format: + followed by up to 15 digits
	e164Regex = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

	// bare national numbers of 10-12 digits, as they appear in raw CDR exports
	nationalRegex = regexp.MustCompile(`^\d{10,12}$`)
)

// NewMSISDN creates a normalized MSISDN from the formats seen in raw
// CDR/IPDR exports: E.164, 0-prefixed national, or bare national digits.
func NewMSISDN(number string) (MSISDN, error) {
	if number == "" {
		return MSISDN{}, fmt.Errorf("phone number cannot be empty")
	}

	cleaned := cleanNumber(number)

	if e164Regex.MatchString(cleaned) {
		return MSISDN{number: cleaned}, nil
	}

	// National format with trunk prefix (0xxxxxxxxxx)
	if strings.HasPrefix(cleaned, "0") && nationalRegex.MatchString(cleaned[1:]) {
		cleaned = cleaned[1:]
	}

	if nationalRegex.MatchString(cleaned) {
		// 12-digit numbers in the exports already carry a country code
		if len(cleaned) == 12 {
			return MSISDN{number: "+" + cleaned}, nil
		}
		return MSISDN{number: "+91" + cleaned}, nil
	}

	return MSISDN{}, fmt.Errorf("invalid phone number format: %s", number)
}

// MustNewMSISDN creates an MSISDN and panics on error (for constants/tests)
func MustNewMSISDN(number string) MSISDN {
	m, err := NewMSISDN(number)
	if err != nil {
		panic(err)
	}
	return m
}

// String returns the number in E.164 format
func (m MSISDN) String() string {
	return m.number
}

// E164 returns the number in E.164 format (alias for String)
func (m MSISDN) E164() string {
	return m.number
}

// IsEmpty checks if the number is empty
func (m MSISDN) IsEmpty() bool {
	return m.number == ""
}

// Equal checks if two MSISDN values are equal
func (m MSISDN) Equal(other MSISDN) bool {
	return m.number == other.number
}

// IsShortCode reports whether the counterparty is a service short code
// rather than a subscriber. Short codes never form identity keys.
func IsShortCode(raw string) bool {
	cleaned := cleanNumber(raw)
	cleaned = strings.TrimPrefix(cleaned, "+")
	return len(cleaned) > 0 && len(cleaned) < 7
}

// MarshalJSON implements JSON marshaling
func (m MSISDN) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.number)
}

// UnmarshalJSON implements JSON unmarshaling
func (m *MSISDN) UnmarshalJSON(data []byte) error {
	var number string
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}

	msisdn, err := NewMSISDN(number)
	if err != nil {
		return err
	}

	*m = msisdn
	return nil
}

func cleanNumber(number string) string {
	cleaned := ""
	for _, char := range number {
		if char >= '0' && char <= '9' || char == '+' {
			cleaned += string(char)
		}
	}
	return cleaned
}
