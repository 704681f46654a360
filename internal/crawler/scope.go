package crawler

import (
	"net/url"
	"strings"
)

// InScope reports whether a candidate URL is eligible for crawling against
// the target domain (the seed URL's host).
//
// Eligibility requires an http or https scheme and a host that is the target
// domain itself, a subdomain of it, or empty (a relative link that was
// already resolved against the current page). Malformed URLs are rejected,
// not errored: the scoper silently filters them so they are never enqueued.
//
// The check compares hostnames only; a different port on the same host stays
// in scope.
func InScope(rawURL, targetDomain string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	domain := strings.ToLower(targetDomain)

	return host == "" ||
		host == domain ||
		strings.HasSuffix(host, "."+domain)
}
