// Package phone validates and normalizes recipient phone numbers against the
// set of country-code prefixes the platform recognizes.
package phone

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPhoneNumber is returned by Normalize for numbers that cannot be
// brought into a recognized E.164 form.
var ErrInvalidPhoneNumber = errors.New("invalid phone number")

// countryCodes are the recognized international prefixes, longest first so
// that prefix matching is unambiguous (e.g. 234 before 27). Extending support
// to a new country means adding its code here.
var countryCodes = []string{
	"234", // Nigeria
	"254", // Kenya
	"233", // Ghana
	"27",  // South Africa
	"1",   // North America (NANP)
}

// Subscriber-part bounds applied after the country code. E.164 numbers carry
// at most 15 digits total, and none of the recognized countries issues
// subscriber numbers shorter than 7 digits.
const (
	minSubscriberDigits = 7
	maxTotalDigits      = 15
)

// Validate reports whether raw is an acceptable phone number. It agrees with
// Normalize: Validate(raw) is true exactly when Normalize(raw) succeeds.
func Validate(raw string) bool {
	_, err := Normalize(raw)
	return err == nil
}

// Normalize converts raw into E.164 form.
//
// Accepted inputs:
//   - +<countrycode><subscriber> where the country code is recognized;
//     already-normalized numbers are returned unchanged.
//   - Nigerian local forms: an 11-digit number starting with the trunk
//     prefix 0 (replaced with +234), or a bare 10-digit subscriber number
//     (prefixed with +234).
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidPhoneNumber)
	}

	if strings.HasPrefix(s, "+") {
		digits := s[1:]
		if !isDigits(digits) {
			return "", fmt.Errorf("%w: non-numeric content in %q", ErrInvalidPhoneNumber, raw)
		}
		for _, code := range countryCodes {
			if !strings.HasPrefix(digits, code) {
				continue
			}
			subscriber := len(digits) - len(code)
			if subscriber < minSubscriberDigits || len(digits) > maxTotalDigits {
				return "", fmt.Errorf("%w: subscriber part out of range in %q", ErrInvalidPhoneNumber, raw)
			}
			return s, nil
		}
		return "", fmt.Errorf("%w: unrecognized country code in %q", ErrInvalidPhoneNumber, raw)
	}

	if !isDigits(s) {
		return "", fmt.Errorf("%w: non-numeric content in %q", ErrInvalidPhoneNumber, raw)
	}

	// Nigerian trunk form: 0XXXXXXXXXX -> +234XXXXXXXXXX
	if len(s) == 11 && s[0] == '0' {
		return "+234" + s[1:], nil
	}
	// Bare Nigerian subscriber number.
	if len(s) == 10 {
		return "+234" + s, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidPhoneNumber, raw)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
