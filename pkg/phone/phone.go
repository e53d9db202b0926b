package phone

import "strings"

// Normalize converts a raw phone number to the canonical 10-digit form used
// as the storage and lookup key. Accepted inputs may carry spaces, hyphens,
// a country calling code ("+91" / bare "91") or a bare "+" prefix; all
// equivalent representations collapse to the same canonical value.
//
// The second return value is false only for empty input. No semantic
// validation is performed: this is a best-effort string transform, not a
// phone number validator.
func Normalize(raw string) (string, bool) {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(raw)
	if cleaned == "" {
		return "", false
	}

	switch {
	case strings.HasPrefix(cleaned, "+91"):
		return cleaned[3:], true
	case strings.HasPrefix(cleaned, "91") && len(cleaned) == 12:
		return cleaned[2:], true
	case strings.HasPrefix(cleaned, "+"):
		return cleaned[1:], true
	}

	if len(cleaned) >= 10 {
		return cleaned[len(cleaned)-10:], true
	}
	return cleaned, true
}
