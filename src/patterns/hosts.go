// Package patterns provides the URL cosmetics applied to CI server links.
//
// The CI server hands out build URLs with whatever address the request happened
// to reach, which rotates between raw IPv4 addresses. Links shown or logged by
// this tool use the configured logical hostname instead.
package patterns

import (
	"net/url"
	"regexp"
	"strings"
)

// ipv4Pattern matches a dotted-quad address anywhere in a string.
// Matches: 10.0.0.12, 192.168.1.5
var ipv4Pattern = regexp.MustCompile(`\d+\.\d+\.\d+\.\d+`)

// RewriteIPv4 replaces every IPv4 address in s with hostname.
// An empty hostname leaves s unchanged.
func RewriteIPv4(s, hostname string) string {
	if hostname == "" {
		return s
	}
	return ipv4Pattern.ReplaceAllLiteralString(s, hostname)
}

// HasIPv4 reports whether s contains a dotted-quad address.
func HasIPv4(s string) bool {
	return ipv4Pattern.MatchString(s)
}

// LogicalHost returns the hostname of a server address, without port. Addresses
// without a scheme ("ci.example:8080") are accepted. The port is dropped because
// RewriteIPv4 only replaces the address and leaves any port in place.
func LogicalHost(address string) string {
	address = strings.TrimSpace(address)
	if address == "" {
		return ""
	}
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}

	u, err := url.Parse(address)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
