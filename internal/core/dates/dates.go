// Package dates validates the date tokens carried by invoices.
// Tokens use the solar-calendar form YYYY/MM/DD (e.g. 1404/08/16) and are
// otherwise opaque: stored and compared as strings, never converted.
package dates

import (
	"regexp"
	"strconv"
	"strings"

	"ambar/internal/core/apperror"
)

var tokenPattern = regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`)

const (
	minYear = 1300
	maxYear = 1500
)

// Valid reports whether token is a well-formed date token.
// Only numeric ranges are checked: day 31 is accepted for every month and
// leap years are not considered. Tightening this would silently invalidate
// documents the system previously accepted.
func Valid(token string) bool {
	if !tokenPattern.MatchString(token) {
		return false
	}

	parts := strings.Split(token, "/")
	year, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	day, _ := strconv.Atoi(parts[2])

	if year < minYear || year > maxYear {
		return false
	}
	if month < 1 || month > 12 {
		return false
	}
	if day < 1 || day > 31 {
		return false
	}
	return true
}

// Validate returns a validation error for malformed tokens.
func Validate(token string) error {
	if token == "" {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	if !Valid(token) {
		return apperror.NewValidation("invalid date format, expected YYYY/MM/DD (e.g. 1404/08/16)").
			WithDetail("field", "date").
			WithDetail("value", token)
	}
	return nil
}
