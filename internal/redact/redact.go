// Package redact scrubs credentials and other sensitive fragments from
// strings before they reach logs or error responses. Connection strings,
// passwords, API keys, JWTs, and email addresses are replaced with fixed
// placeholders so a wrapped error can be logged without leaking what it
// carries.
package redact

import "regexp"

// Placeholders substituted for matched fragments.
const (
	RedactedCredential = "[REDACTED_CREDENTIAL]"
	RedactedKey        = "[REDACTED_KEY]"
	RedactedJWT        = "[REDACTED_JWT]"
	RedactedEmail      = "[REDACTED_EMAIL]"
	RedactedHost       = "[REDACTED_HOST]"
)

// Replacements run in order: connection strings must be scrubbed before
// the email pattern sees the user:password@host part of a DSN.
var replacements = []struct {
	pattern     *regexp.Regexp
	placeholder string
}{
	// user:password@ section of database connection strings
	{regexp.MustCompile(`(?i)(postgres|postgresql|mysql|mongodb)://[^@\s]+@`), RedactedCredential},

	// password=..., pwd: ... and similar assignments
	{regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]['"]?)[^'"&\s]{3,}`), RedactedCredential},

	// API keys, tokens and secrets in key=value or key: value form
	{regexp.MustCompile(`(?i)(api[_-]?key|token|secret)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`), RedactedKey},

	// three-part base64url-encoded JWTs
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`), RedactedJWT},

	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), RedactedEmail},

	// host:port pairs; bare hostnames stay readable
	{regexp.MustCompile(`\b(?:[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?\.)+[A-Za-z]{2,}:\d{1,5}\b`), RedactedHost},
}

// String returns input with every sensitive fragment replaced by its
// placeholder.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range replacements {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error is String applied to err.Error(). Returns "" for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
