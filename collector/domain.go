package collector

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// RegistrableDomain returns the last two dot-separated labels of host.
// It is deliberately naive: "shop.example.co.uk" yields "co.uk".
func RegistrableDomain(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	labels := strings.Split(host, ".")
	if len(labels) > 2 {
		return strings.Join(labels[len(labels)-2:], ".")
	}
	return host
}

// publicSuffixDomain returns the eTLD+1 of host according to the public
// suffix list, falling back to the host itself (IPs, single labels).
func publicSuffixDomain(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return d
}
