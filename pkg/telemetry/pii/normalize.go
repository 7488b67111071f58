// Package pii turns raw identity fields into privacy-safe representations:
// normalization, one-way hashing for advanced matching, and network-field
// anonymization.
package pii

import "strings"

// NormalizeEmail trims surrounding whitespace and lowercases.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone strips every non-digit character while preserving a
// single leading "+".
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range phone {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "+" {
		return ""
	}
	return out
}

// NormalizeName trims and lowercases. Used for first/last names, city,
// and state.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeZip keeps digits only.
func NormalizeZip(zip string) string {
	var b strings.Builder
	for _, r := range zip {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeCountry lowercases an ISO-3166-1 alpha-2 code. Country is the
// one identity field sent unhashed.
func NormalizeCountry(country string) string {
	return strings.ToLower(strings.TrimSpace(country))
}
