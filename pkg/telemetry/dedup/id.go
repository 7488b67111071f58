// Package dedup derives deterministic event identities.
//
// The same logical event reaches each ad platform twice: once from the
// browser pixel and once from the server relay. Both reports carry the
// identity produced here so the platform can collapse them into one.
package dedup

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

const seedDelimiter = "|"

// seed builds the deterministic input string: event name, timestamp,
// comma-joined item ids (caller order preserved, no sorting),
// transaction id, and value formatted to two decimals. Absent optional
// fields contribute an empty segment.
func seed(name string, tsMS int64, itemIDs []string, transactionID string, value *float64) string {
	valueStr := ""
	if value != nil {
		valueStr = fmt.Sprintf("%.2f", *value)
	}
	return strings.Join([]string{
		name,
		strconv.FormatInt(tsMS, 10),
		strings.Join(itemIDs, ","),
		transactionID,
		valueStr,
	}, seedDelimiter)
}

// EventID returns the opaque dedup identity for an event: the SHA-256
// of the seed, base64url-encoded without padding. Identical inputs
// always yield an identical identity.
func EventID(name string, tsMS int64, itemIDs []string, transactionID string, value *float64) string {
	sum := sha256.Sum256([]byte(seed(name, tsMS, itemIDs, transactionID, value)))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// WeakEventID is the non-cryptographic variant: a 32-bit FNV-1a of the
// same seed, hex-encoded. It is deterministic but not collision
// resistant - suitable only for cosmetic dedup, never for security.
func WeakEventID(name string, tsMS int64, itemIDs []string, transactionID string, value *float64) string {
	h := fnv.New32a()
	h.Write([]byte(seed(name, tsMS, itemIDs, transactionID, value)))
	return fmt.Sprintf("%08x", h.Sum32())
}
