package domain

import (
	"net/url"
	"strings"
)

// NormalizeURL canonicalizes a URL for identity comparison: the fragment is
// dropped and a single trailing slash is stripped from non-root paths, so
// "https://a/b#x" and "https://a/b/" both map to "https://a/b".
//
// Unparseable or non-absolute input degrades to the trimmed string itself.
// The result is still usable as a comparison key, so no error is returned.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !u.IsAbs() {
		return strings.TrimSpace(raw)
	}

	u.Fragment = ""
	u.RawFragment = ""

	if u.Path != "/" && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimSuffix(u.Path, "/")
		if u.RawPath != "" {
			u.RawPath = strings.TrimSuffix(u.RawPath, "/")
		}
	}

	return u.String()
}
