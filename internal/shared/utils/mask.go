package utils

import "strings"

// MaskEmail masks an email address for safe logging.
// Example: "user@example.com" -> "u***@example.com"
func MaskEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) != 2 {
		return "***"
	}
	local := parts[0]
	if len(local) <= 1 {
		return local + "***@" + parts[1]
	}
	return string(local[0]) + "***@" + parts[1]
}

// MaskSecret keeps the first five characters of a credential.
// Example: "abcdefgh" -> "abcde***"
func MaskSecret(secret string) string {
	if secret == "" {
		return "?"
	}
	if len(secret) > 5 {
		return secret[:5] + "***"
	}
	return "***"
}
