package logger

import "strings"

// secretKeyHints are field-name fragments that mark a value as a credential.
var secretKeyHints = []string{"api_key", "apikey", "token", "secret", "authorization", "password"}

// redactValue masks credential-bearing fields before they reach the log
// stream. Provider API keys end up in config errors easily; masking by field
// name keeps them out of stderr.
func redactValue(key, val string) string {
	k := strings.ToLower(key)
	for _, hint := range secretKeyHints {
		if strings.Contains(k, hint) {
			return RedactSecret(val)
		}
	}
	return val
}

// RedactSecret masks a credential for safe logging, keeping a short prefix so
// operators can tell which of several keys was in play.
// "sk-abcdef123456" → "sk-a***"
func RedactSecret(s string) string {
	if len(s) <= 4 {
		return "***"
	}
	return s[:4] + "***"
}
