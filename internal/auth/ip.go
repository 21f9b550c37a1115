package auth

import (
	"fmt"
	"net"
)

// CanonicalizeIP converts an IP address to its canonical 16-byte string
// representation so that storage and comparison are format-independent
// ("2001:db8::1" and "2001:db8:0:0:0:0:0:1" produce the same output).
func CanonicalizeIP(ip string) (string, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}

	canonical := parsed.To16()
	if canonical == nil {
		return "", fmt.Errorf("failed to canonicalize IP address: %s", ip)
	}

	return canonical.String(), nil
}

// CanonicalizeIPs converts a slice of IP addresses to their canonical forms.
// Returns an error if any IP is invalid.
func CanonicalizeIPs(ips []string) ([]string, error) {
	result := make([]string, len(ips))
	for i, ip := range ips {
		canonical, err := CanonicalizeIP(ip)
		if err != nil {
			return nil, err
		}
		result[i] = canonical
	}
	return result, nil
}

// IsIPAllowed checks if the given IP is in the allowed list.
// An empty allowed list admits every IP. Both sides must already be
// canonicalized.
func IsIPAllowed(ip string, allowedIPs []string) bool {
	if len(allowedIPs) == 0 {
		return true
	}

	for _, allowed := range allowedIPs {
		if ip == allowed {
			return true
		}
	}
	return false
}
