package pii

import "net/netip"

// AnonymizedFallback is returned for input that does not parse as an
// IP address.
const AnonymizedFallback = "0.0.0.0"

// AnonymizeIP reduces an IP address to a non-identifying prefix.
//
// IPv4 addresses get the last octet zeroed (203.0.113.45 -> 203.0.113.0).
// IPv6 addresses keep only the first four colon-groups, with the rest
// zeroed, so the canonical form ends in "::" (2001:db8::1 -> 2001:db8::).
// Malformed input yields "0.0.0.0".
func AnonymizeIP(ip string) string {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return AnonymizedFallback
	}
	addr = addr.Unmap()

	if addr.Is4() {
		b := addr.As4()
		b[3] = 0
		return netip.AddrFrom4(b).String()
	}

	// Keep the upper 64 bits (four colon-groups), zero the rest.
	b := addr.As16()
	for i := 8; i < 16; i++ {
		b[i] = 0
	}
	return netip.AddrFrom16(b).String()
}
