package auth

import (
	"net"
	"net/http"
	"strings"
)

// Ordering matters for both lists: Chrome advertises "Safari" in its
// User-Agent, Android advertises "Linux", and iPhones advertise "Mac OS X".
var knownBrowsers = []string{"Brave", "Edge", "Opera", "Chrome", "Firefox", "Safari"}
var knownSystems = []string{"Windows", "Android", "iPhone", "iPad", "Mac OS X", "Linux"}

// ClientIP returns the first-hop client address, preferring proxy headers
// over the raw socket address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// ParseUserAgent extracts the browser and operating system families from a
// User-Agent header. Matching is a best-effort substring scan; anything
// unrecognized comes back as "Unknown".
func ParseUserAgent(userAgent string) (browser, os string) {
	browser = "Unknown"
	os = "Unknown"
	lower := strings.ToLower(userAgent)

	for _, b := range knownBrowsers {
		if strings.Contains(lower, strings.ToLower(b)) {
			browser = b
			break
		}
	}
	for _, s := range knownSystems {
		if strings.Contains(lower, strings.ToLower(s)) {
			os = s
			break
		}
	}

	return browser, os
}
