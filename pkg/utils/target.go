package utils

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// NormalizeScanURL trims surrounding whitespace from a caller supplied URL.
// The URL is otherwise forwarded untouched: VirusTotal does its own canonicalization.
func NormalizeScanURL(raw string) string {
	return strings.TrimSpace(raw)
}

// RegistrableDomain returns the eTLD+1 of a scan target for log fields.
// Targets without a scheme are parsed as if they had one. It returns the bare
// host when the public suffix list cannot resolve it, and "" when no host exists.
func RegistrableDomain(target string) string {
	if target == "" {
		return ""
	}
	if !strings.Contains(target, "://") {
		target = "http://" + target
	}
	u, err := url.Parse(target)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return ""
	}
	if net.ParseIP(host) != nil {
		return host
	}
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return registrable
}
