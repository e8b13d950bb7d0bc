// Package normalize canonicalizes user-supplied identifiers before they are
// stored or compared.
package normalize

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidPhone is returned for numbers that are not Ethiopian mobile
// numbers.
var ErrInvalidPhone = errors.New("invalid Ethiopian phone number: use +251 or 0 followed by 9 digits starting with 7 or 9")

var (
	phoneNoise = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	intlPhone  = regexp.MustCompile(`^\+251[79]\d{8}$`)
	localPhone = regexp.MustCompile(`^0[79]\d{8}$`)
)

// Phone validates an Ethiopian mobile number in local (09…) or
// international (+2519…) form and returns it in international form.
func Phone(s string) (string, error) {
	clean := phoneNoise.Replace(strings.TrimSpace(s))
	switch {
	case intlPhone.MatchString(clean):
		return clean, nil
	case localPhone.MatchString(clean):
		return "+251" + clean[1:], nil
	}
	return "", ErrInvalidPhone
}

// PhoneVariants returns every stored form a number may have, so lookups
// match rows written before normalization was enforced.
func PhoneVariants(s string) []string {
	intl, err := Phone(s)
	if err != nil {
		return []string{strings.TrimSpace(s)}
	}
	return []string{intl, "0" + intl[4:]}
}

// Name trims surrounding whitespace and collapses internal runs.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Email trims and lowercases.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a raw query value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
