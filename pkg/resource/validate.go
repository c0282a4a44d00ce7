package resource

import (
	"net/url"
	"regexp"
	"time"
)

// emailPattern is intentionally loose: one @, no whitespace, a dot in the
// domain. Real validation happens when mail bounces.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// dateLayouts are the accepted date representations, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// IsDate reports whether value parses as a calendar date or timestamp.
func IsDate(value string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

// IsEmail reports whether value looks like an email address.
func IsEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// IsURL reports whether value is an absolute http(s) URL.
func IsURL(value string) bool {
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// MaxLen returns a check that passes while value is at most n bytes.
func MaxLen(n int) func(string) bool {
	return func(value string) bool {
		return len(value) <= n
	}
}

// LenBetween returns a check that passes when the value length is within
// [min,max], both inclusive.
func LenBetween(min, max int) func(string) bool {
	return func(value string) bool {
		return len(value) >= min && len(value) <= max
	}
}
