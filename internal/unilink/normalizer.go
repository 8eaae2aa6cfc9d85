// internal/unilink/normalizer.go
//
// Rendered-HTML link normalization.
//
// Context
// -------
// After a message is rendered, every anchor whose visible text merely
// echoes its own href is rewritten to show the Unicode-decoded, truncated
// form instead of the raw ASCII-percent-encoded one.  The scan is purely
// textual: a single regex pass over the HTML string, one decision per
// anchor, no recursion, no shared state.  Everything outside the replaced
// inner text stays byte-identical.
//
// The anchor pattern is the strict variant: inner text may not contain a
// nested tag boundary.  Anchors the pattern rejects (nested markup, odd
// quoting) pass through unmodified — that is the safe default.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package unilink

import (
	"html"
	"regexp"
)

// anchorPattern captures: open tag, double-quoted href, single-quoted
// href, inner text (no nested tags), close tag.
var anchorPattern = regexp.MustCompile(
	`(?is)(<a[^>]*?(?:href="([^>"]+)"|href='([^>']+)')[^>]*>)([^<]+?)(</a>)`)

// Normalizer rewrites anchor text in rendered message HTML.
type Normalizer struct {
	matcher Matcher
}

// NewNormalizer returns a Normalizer bound to the board base URL.  The
// value is stateless and safe for concurrent use across messages.
func NewNormalizer(base string) Normalizer {
	return Normalizer{matcher: Matcher{Base: base}}
}

// Rewrite returns src with every URL-echo anchor's inner text replaced by
// its cleaned, truncated, HTML-escaped rendering.  All other markup is
// returned byte-identical.
func (n Normalizer) Rewrite(src string) string {
	out, _ := n.RewriteCount(src)
	return out
}

// RewriteCount is Rewrite plus the number of anchors whose text was
// replaced, for instrumentation at the call site.
func (n Normalizer) RewriteCount(src string) (string, int) {
	replaced := 0
	out := anchorPattern.ReplaceAllStringFunc(src, func(frag string) string {
		m := anchorPattern.FindStringSubmatch(frag)
		if m == nil {
			return frag
		}
		openTag, hrefQuot, hrefApos, inner, closeTag := m[1], m[2], m[3], m[4], m[5]

		rawHref := hrefQuot
		if rawHref == "" {
			rawHref = hrefApos
		}

		href := html.UnescapeString(rawHref)

		switch n.matcher.Match(rawHref, inner) {
		case ClassExternal:
			replaced++
			return openTag + html.EscapeString(Truncate(Unicodify(href))) + closeTag
		case ClassLocal:
			replaced++
			local, _ := ToLocal(href, n.matcher.Base)
			return openTag + html.EscapeString(Truncate(Unicodify(local))) + closeTag
		default:
			return frag
		}
	})
	return out, replaced
}
