package boxcode

import (
	"fmt"
	"regexp"
	"strings"
)

// Codes are short alphanumeric identifiers printed on the enclosure, with
// optional hyphen groups ("GRN-042"). Stored and compared upper-case.
var codeRe = regexp.MustCompile(`^[A-Z0-9]+(?:-[A-Z0-9]+)*$`)

const (
	minLen = 4
	maxLen = 16
)

// Normalize upper-cases a raw code and strips surrounding whitespace.
// Devices and users type codes in any case; the database holds one form.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Parse normalizes and validates a raw box code.
func Parse(raw string) (string, error) {
	code := Normalize(raw)
	if len(code) < minLen || len(code) > maxLen {
		return "", fmt.Errorf("box code must be %d-%d characters: %q", minLen, maxLen, raw)
	}
	if !codeRe.MatchString(code) {
		return "", fmt.Errorf("invalid box code: %q", raw)
	}
	return code, nil
}
