// Package normalize turns a free-form feed identifier into the canonical
// feed URL. A bare name such as "myblog" becomes
// https://myblog.substack.com/feed.
//
// The transform is purely syntactic: no DNS or reachability check is done.
// Every non-empty result has a host under PlatformDomain.
package normalize

import (
	"net/url"
	"strings"
)

const (
	// PlatformDomain is appended to inputs that do not mention it.
	PlatformDomain = "substack.com"
	// FeedSuffix is the fixed feed-discovery path.
	FeedSuffix = "/feed"
)

// Normalize returns the canonical feed URL for input, or "" when input is
// empty, cannot be parsed into a URL with a host, or names a host outside
// PlatformDomain.
func Normalize(input string) string {
	text := strings.TrimSpace(input)
	if text == "" {
		return ""
	}

	if !strings.Contains(strings.ToLower(text), PlatformDomain) {
		var ok bool
		if text, ok = withPlatformHost(text); !ok {
			return ""
		}
	}
	if !hasScheme(text) {
		text = "https://" + text
	}

	parsed, err := url.Parse(text)
	if err != nil || parsed.Host == "" || !onPlatform(parsed.Hostname()) {
		return ""
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, FeedSuffix) {
		path += FeedSuffix
	}
	return parsed.Scheme + "://" + parsed.Host + path
}

// withPlatformHost appends PlatformDomain to the host part of text, which is
// everything after an optional scheme up to the first '/', '?' or '#'.
func withPlatformHost(text string) (string, bool) {
	prefix, rest := "", text
	if hasScheme(text) {
		i := strings.Index(text, "://") + len("://")
		prefix, rest = text[:i], text[i:]
	}
	end := strings.IndexAny(rest, "/?#")
	if end < 0 {
		end = len(rest)
	}
	host := strings.TrimRight(rest[:end], ".")
	if host == "" {
		return "", false
	}
	return prefix + host + "." + PlatformDomain + rest[end:], true
}

func onPlatform(hostname string) bool {
	h := strings.ToLower(hostname)
	return h == PlatformDomain || strings.HasSuffix(h, "."+PlatformDomain)
}

func hasScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
