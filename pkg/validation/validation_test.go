package validation

import (
	"strings"
	"testing"
)

func TestValidateHTTPURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"default api url", "http://127.0.0.1:9000/api/", false},
		{"https", "https://graylog.example.org/api/", false},
		{"empty", "", true},
		{"ldap scheme", "ldap://ldap.example.org", true},
		{"no host", "http://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHTTPURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHTTPURL() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateLDAPURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"ldap", "ldap://ldap.example.org", false},
		{"ldaps with port", "ldaps://ldap.example.org:636", false},
		{"ldapi socket", "ldapi:///var/run/slapd/ldapi", false},
		{"http scheme", "http://ldap.example.org", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLDAPURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLDAPURL() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateStreamID(t *testing.T) {
	tests := []struct {
		name     string
		streamID string
		wantErr  bool
	}{
		{"object id", "5e2f1c0a9b1d4a0012345678", false},
		{"numeric", "42", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 101), true},
		{"invalid chars", "stream id", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStreamID(tt.streamID)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStreamID() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateGroupPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		wantErr bool
	}{
		{"wildcard", "graylog-*", false},
		{"exact", "ops", false},
		{"blank", "  ", true},
		{"filter injection", "ops)(uid=*", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGroupPattern(tt.pattern)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGroupPattern() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRange(t *testing.T) {
	if err := ValidateRange(0.5, 0, 1, "sample_rate"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateRange(1.5, 0, 1, "sample_rate"); err == nil {
		t.Error("expected error for out-of-range value")
	}
}

func TestValidateNonEmptyString(t *testing.T) {
	if err := ValidateNonEmptyString("  ", "api_token"); err == nil {
		t.Error("expected error for blank string")
	}
	if err := ValidateNonEmptyString("abc", "api_token"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
