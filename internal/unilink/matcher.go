// internal/unilink/matcher.go
//
// "Is this link's text just its own URL?" detection.
//
// Context
// -------
// Replacing an anchor's visible text is only safe when that text is the
// URL itself in some equivalent form — raw, truncated, percent-encoded
// differently, or written root-relative for board-local links.  Genuine
// prose must never be touched.  The matcher therefore compares href and
// text through a fixed ladder of formatter variants and stops at the first
// hit.
//
// Variants, in order:
//
//  1. identity — the author pasted the literal href as text.
//  2. percent-normalization of both sides — catches encoders that
//     percent-encode characters a human would type verbatim, classically
//     the parentheses and brackets in Wikipedia titles
//     (%28 → "(", %C3%A9 → "é").
//  3. href made root-relative (board-local links only).
//  4. root-relative href and normalization combined.
//
// Every variant also accepts the display-truncated form of the formatted
// href, mirroring how long URLs are rendered shortened.
//
// Notes
// -----
// • Both inputs arrive HTML-entity-encoded and are decoded first.
// • A matching anchor is classified local iff its href targets the board
//   base; otherwise external.
// • Oxford commas, two spaces after periods.

package unilink

import (
	"html"
	"strings"
)

// Class is the matcher's verdict for one anchor.
type Class int

const (
	// ClassNone marks text that is genuine prose, not a URL echo.
	ClassNone Class = iota
	// ClassExternal marks text that echoes an off-board href.
	ClassExternal
	// ClassLocal marks text that echoes a board-local href.
	ClassLocal
)

// Matcher classifies anchors against one board base URL.
type Matcher struct {
	Base string
}

// Match decides whether rawText is a rendering of rawHref.  Both arguments
// are HTML-entity-encoded, exactly as captured from markup.
func (m Matcher) Match(rawHref, rawText string) Class {
	href := html.UnescapeString(rawHref)
	text := html.UnescapeString(rawText)
	if href == "" || strings.TrimSpace(text) == "" {
		return ClassNone
	}

	local, isLocal := ToLocal(href, m.Base)

	variants := [][2]string{
		{href, text},
		{normalizePercents(href), normalizePercents(text)},
	}
	if isLocal {
		variants = append(variants,
			[2]string{local, text},
			[2]string{normalizePercents(local), normalizePercents(text)},
		)
	}

	for _, v := range variants {
		h, t := v[0], v[1]
		if t == h || t == Truncate(h) {
			if isLocal {
				return ClassLocal
			}
			return ClassExternal
		}
	}
	return ClassNone
}

// normalizePercents decodes every valid %XX triplet in s, leaving
// malformed sequences untouched.  Applied to both comparison sides, this
// turns "%28%C3%A9%29" and "(é)" into the same bytes without ever
// producing a false positive — equal inputs stay equal.
func normalizePercents(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, okHi := unhex(s[i+1])
			lo, okLo := unhex(s[i+2])
			if okHi && okLo {
				b.WriteByte(hi<<4 | lo)
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
