package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	// StreamIDRegex matches Graylog stream ids (24 hex chars) as well as the
	// short numeric ids used in tests and older policies.
	StreamIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	// GroupPatternRegex rejects characters that would break an LDAP (cn=...) filter.
	GroupPatternRegex = regexp.MustCompile(`^[^()\\\x00]+$`)
)

// ValidateHTTPURL validates an http or https endpoint
func ValidateHTTPURL(urlStr string) error {
	return validateURL(urlStr, "http", "https")
}

// ValidateLDAPURL validates an ldap, ldaps or ldapi endpoint
func ValidateLDAPURL(urlStr string) error {
	return validateURL(urlStr, "ldap", "ldaps", "ldapi")
}

func validateURL(urlStr string, schemes ...string) error {
	if urlStr == "" {
		return fmt.Errorf("URL is required")
	}
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	ok := false
	for _, s := range schemes {
		if u.Scheme == s {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("invalid URL scheme %q (must be one of %s)", u.Scheme, strings.Join(schemes, ", "))
	}
	if u.Host == "" && u.Scheme != "ldapi" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}

// ValidateStreamID validates stream ID
func ValidateStreamID(streamID string) error {
	if streamID == "" {
		return fmt.Errorf("stream ID is required")
	}
	if len(streamID) > 100 {
		return fmt.Errorf("stream ID is too long (max 100 characters)")
	}
	if !StreamIDRegex.MatchString(streamID) {
		return fmt.Errorf("invalid stream ID format")
	}
	return nil
}

// ValidateGroupPattern validates the cn pattern used in the group search filter
func ValidateGroupPattern(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return fmt.Errorf("group pattern is required")
	}
	if !GroupPatternRegex.MatchString(pattern) {
		return fmt.Errorf("group pattern %q contains filter metacharacters", pattern)
	}
	return nil
}

// ValidateNonEmptyString validates that string is not empty after trimming
func ValidateNonEmptyString(s, fieldName string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateRange validates that a float lies within [min, max]
func ValidateRange(v, min, max float64, fieldName string) error {
	if v < min || v > max {
		return fmt.Errorf("%s must be between %g and %g", fieldName, min, max)
	}
	return nil
}
