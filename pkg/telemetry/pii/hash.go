package pii

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/event"
)

// digest hashes a normalized field. An empty input produces an empty
// output so callers can omit the key entirely - the match-field map
// must never contain a hash of the empty string.
func digest(normalized string) string {
	if normalized == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// HashEmail returns the lowercase hex SHA-256 of the normalized email,
// or "" when the input is empty.
func HashEmail(email string) string {
	return digest(NormalizeEmail(email))
}

// HashPhone returns the hash of the normalized phone number.
func HashPhone(phone string) string {
	return digest(NormalizePhone(phone))
}

// HashName returns the hash of a normalized name, city, or state.
func HashName(name string) string {
	return digest(NormalizeName(name))
}

// HashZip returns the hash of the digits-only zip code.
func HashZip(zip string) string {
	return digest(NormalizeZip(zip))
}

// Standard advanced-matching keys shared by the ad platforms.
const (
	KeyEmail     = "em"
	KeyPhone     = "ph"
	KeyFirstName = "fn"
	KeyLastName  = "ln"
	KeyCity      = "ct"
	KeyState     = "st"
	KeyZip       = "zp"
	KeyCountry   = "country"
)

// MatchFields builds the hashed advanced-matching map for a user
// identity. Absent or empty fields are omitted; the result never holds
// an empty value. Country is passed through unhashed, lowercased.
// Returns nil when id is nil.
func MatchFields(id *event.UserIdentity) map[string]string {
	if id == nil {
		return nil
	}
	fields := make(map[string]string)
	put := func(key, hashed string) {
		if hashed != "" {
			fields[key] = hashed
		}
	}
	put(KeyEmail, HashEmail(id.Email))
	put(KeyPhone, HashPhone(id.Phone))
	put(KeyFirstName, HashName(id.FirstName))
	put(KeyLastName, HashName(id.LastName))
	if addr := id.Address; addr != nil {
		put(KeyCity, HashName(addr.City))
		put(KeyState, HashName(addr.State))
		put(KeyZip, HashZip(addr.ZipCode))
		put(KeyCountry, NormalizeCountry(addr.Country))
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
