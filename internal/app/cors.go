package app

import (
	"net/url"
	"strings"
)

// originHost strips the scheme from an Origin header value, leaving
// "host[:port]".
func originHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return u.Host
}

// originAllowed matches host against one allowlist entry. Entries may
// use "*." for a subdomain wildcard or ":*" for a port wildcard.
func originAllowed(pattern, host string) bool {
	switch {
	case pattern == host:
		return true
	case strings.HasPrefix(pattern, "*."):
		return strings.HasSuffix(host, strings.TrimPrefix(pattern, "*"))
	case strings.HasSuffix(pattern, ":*"):
		return strings.HasPrefix(host, strings.TrimSuffix(pattern, "*"))
	}
	return false
}
