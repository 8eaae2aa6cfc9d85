// internal/rewrite/title.go
//
// Canonical title derivation for anchors and pages.
//
// Context
// -------
// Slug text comes from whatever human-readable title an anchor exposes.
// That is rarely just `textContent`:
//
//   • Notification rows wrap chrome text around a nested reference span;
//     only the reference names the linked page.
//   • Screen-reader-only spans repeat context that is not part of the
//     visible title.
//   • The UI ellipsizes long titles but keeps the full version in the
//     `title` tooltip attribute.
//   • Reply links start with "Re: " — a fixed literal the board never
//     localizes — which would otherwise leak into every topic slug.
//
// Pages derive their own title from the heading markup: profile pages bury
// the username inside a localized "viewing profile" phrase, forum and
// topic pages put it in the heading's first child.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package rewrite

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// anchorKind is the closed set of anchor shapes the driver distinguishes.
type anchorKind int

const (
	// kindPlain covers ordinary links whose own text is trusted.
	kindPlain anchorKind = iota
	// kindNotification marks notification rows; only the nested
	// reference text names the target.
	kindNotification
	// kindUntrusted marks links inside user-authored or chrome regions
	// whose text must never become a navigable slug.
	kindUntrusted
)

// Untrusted regions: the message body, action-button rows, the skip link,
// and the quick-links menu.
var untrustedClasses = []string{"content", "post-buttons", "skiplink"}

const untrustedID = "quick-links"

// classifyAnchor assigns one of the three anchor kinds.  Untrusted wins
// over notification: a notification block inside a message body is still
// user-reachable content.
func classifyAnchor(n *html.Node) anchorKind {
	untrusted := closestMatch(n, func(el *html.Node) bool {
		if attr(el, "id") == untrustedID {
			return true
		}
		for _, class := range untrustedClasses {
			if hasClass(el, class) {
				return true
			}
		}
		return false
	})
	if untrusted {
		return kindUntrusted
	}
	if hasClass(n, "notification-block") {
		return kindNotification
	}
	return kindPlain
}

// replyPrefix strips any leading punctuation or separator run followed by
// the board's fixed "Re: " literal.
var replyPrefix = regexp.MustCompile(`^[\p{P}\p{Z}]*Re: `)

// anchorTitle derives the canonical title string for an anchor of the
// given kind.  Title-less anchors (icons) yield "".
func anchorTitle(n *html.Node, kind anchorKind) string {
	var text string

	if kind == kindNotification {
		ref := findDescendant(n, func(el *html.Node) bool {
			return hasClass(el, "notification-reference")
		})
		if ref == nil {
			return ""
		}
		text = strings.TrimSpace(textContent(ref, nil))
	} else {
		text = strings.TrimSpace(textContent(n, func(el *html.Node) bool {
			return hasClass(el, "sr-only")
		}))

		// Prefer the tooltip when the visible text looks ellipsized
		// and the tooltip starts with the same characters minus the
		// trailing ellipsis rune.
		if tooltip := strings.TrimSpace(attr(n, "title")); tooltip != "" {
			if strings.HasPrefix(tooltip, trimLastRune(text)) {
				text = tooltip
			}
		}
	}

	if m := replyPrefix.FindString(text); m != "" {
		text = text[len(m):]
	}
	return text
}

// trimLastRune drops the final rune of s ("Some topic…" → "Some topic").
func trimLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}

// pageTitle derives the current page's own title from its heading markup.
//
// Profile pages render "<viewing profile phrase>" around the username;
// the phrase arrives as a localized template with a single %s placeholder,
// and the subject is cut out by matching the literal halves.  Forum and
// topic pages expose the title as the heading's first child.  With no
// heading match the existing slug suffix, if any, stands in.  Error pages
// have no usable title at all.
func pageTitle(doc *html.Node, viewingProfile string, pageStatus int, existingSlug string) string {
	if pageStatus >= 400 {
		return ""
	}

	if h := findHeading(doc, "memberlist-title"); h != nil {
		text := firstChildText(h)
		before, after, ok := strings.Cut(viewingProfile, "%s")
		if ok && !strings.Contains(after, "%s") &&
			len(text) >= len(before)+len(after) &&
			strings.HasPrefix(text, before) && strings.HasSuffix(text, after) {
			return text[len(before) : len(text)-len(after)]
		}
		return ""
	}

	for _, class := range []string{"forum-title", "topic-title"} {
		if h := findHeading(doc, class); h != nil {
			return strings.TrimSpace(firstChildText(h))
		}
	}

	return existingSlug
}
