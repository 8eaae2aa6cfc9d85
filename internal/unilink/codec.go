// internal/unilink/codec.go
//
// Unicode-aware URL rendering.
//
// Context
// -------
// Posted links are stored and rendered percent-encoded and punycoded,
// which is correct on the wire but ugly on screen:
//
//	https://xn--caf-dma.example/wiki/Contrase%C3%B1a_(%C3%A1lbum)
//
// Unicodify decomposes such an href, IDN-decodes the host, percent-decodes
// path, query, and fragment, and recomposes only the components that were
// present.  The host is never percent-decoded — only IDN decoding applies
// there.  Truncate bounds the visible form the same way the board's own
// link renderer does: anything longer than 55 runes keeps the first 39 and
// the last 10 around an ellipsis.
//
// Notes
// -----
// • Decode failures are per-component: the raw component is kept, nothing
//   propagates.
// • Oxford commas, two spaces after periods.

package unilink

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// Display truncation bounds, matching the board's link renderer.
const (
	maxDisplayRunes = 55
	headRunes       = 39
	tailRunes       = 10
)

// Unicodify renders href with a Unicode host and decoded path, query, and
// fragment.  Unparseable hrefs come back unchanged.
func Unicodify(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}

	// Opaque forms (mailto:) have no host or path components to decode;
	// reassembling them below would drop the payload entirely.
	if u.Opaque != "" {
		return u.Scheme + ":" + u.Opaque
	}
	// Scheme-only forms with neither authority nor path (magnet:?xt=…)
	// likewise have nothing displayable to decompose.
	if u.Scheme != "" && u.Host == "" && u.Path == "" {
		return href
	}

	host := u.Hostname()
	if host != "" {
		if decoded, err := idna.ToUnicode(host); err == nil {
			host = decoded
		}
	}

	// u.Path and u.Fragment are already percent-decoded by url.Parse;
	// the query is kept raw and decoded here.
	query := u.RawQuery
	if decoded, err := url.QueryUnescape(query); err == nil {
		query = decoded
	}

	var b strings.Builder
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteString("://")
	}
	b.WriteString(host)
	if port := u.Port(); port != "" {
		b.WriteString(":")
		b.WriteString(port)
	}
	b.WriteString(u.Path)
	if query != "" {
		b.WriteString("?")
		b.WriteString(query)
	}
	if u.Fragment != "" {
		b.WriteString("#")
		b.WriteString(u.Fragment)
	}
	return b.String()
}

// Truncate shortens s for display once it exceeds 55 runes, keeping the
// head and tail around "...".  Shorter strings pass through untouched.
func Truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxDisplayRunes {
		return s
	}
	return string(r[:headRunes]) + "..." + string(r[len(r)-tailRunes:])
}
