package logger

import (
	"net/url"
	"regexp"
	"strings"
)

// sensitiveQueryParams are query parameters whose values never reach a log line
var sensitiveQueryParams = []string{"appid", "api_key", "apikey", "key", "token"}

// sensitiveDataPatterns catch secrets embedded in free text
var sensitiveDataPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)((?:appid|api[_-]?key|token|secret|passw(?:or)?d)[\s:=]+)([^&;,\s]{5,})`),
	regexp.MustCompile(`(?i)(bearer\s+)([A-Za-z0-9\-._~+/]+=*)`),
}

// RedactSensitiveData replaces secret values in free text with "[REDACTED]"
func RedactSensitiveData(input string) string {
	if input == "" {
		return input
	}
	for _, pattern := range sensitiveDataPatterns {
		input = pattern.ReplaceAllString(input, "${1}[REDACTED]")
	}
	return input
}

// RedactURL returns rawURL with credential query parameters masked.
// Unparseable input falls back to free-text redaction.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return RedactSensitiveData(rawURL)
	}

	query := u.Query()
	changed := false
	for key := range query {
		for _, sensitive := range sensitiveQueryParams {
			if strings.EqualFold(key, sensitive) {
				query.Set(key, "REDACTED")
				changed = true
			}
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}
	return u.String()
}
