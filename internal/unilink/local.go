// internal/unilink/local.go
//
// Board-local URL resolution.
//
// A fully-qualified href that targets the board's own base URL is rewritten
// to its root-relative form for display; anything else is left alone and
// treated as external by callers.

package unilink

import "strings"

// ToLocal strips the board base from href when the scheme, host, and port
// match exactly, returning the root-relative remainder and true.  A href
// equal to the bare base resolves to "/".  Non-local hrefs come back
// unchanged with false.
func ToLocal(href, base string) (string, bool) {
	base = strings.TrimSuffix(base, "/")
	if base == "" {
		return href, false
	}

	if href == base {
		return "/", true
	}
	if rest, ok := strings.CutPrefix(href, base); ok {
		// Only a real path boundary counts; "https://forum.example.org"
		// must not match base "https://forum.example".
		if strings.HasPrefix(rest, "/") || strings.HasPrefix(rest, "?") || strings.HasPrefix(rest, "#") {
			if !strings.HasPrefix(rest, "/") {
				rest = "/" + rest
			}
			return rest, true
		}
	}
	return href, false
}
