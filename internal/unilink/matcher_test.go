// internal/unilink/matcher_test.go
//
// Unit-tests for URL-echo detection and local/external classification.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package unilink

import (
	"strings"
	"testing"
)

const testBase = "https://forum.example"

func TestMatch_IdentityExternal(t *testing.T) {
	m := Matcher{Base: testBase}

	href := "https://en.wikipedia.org/wiki/Go_(programming_language)"
	if got := m.Match(href, href); got != ClassExternal {
		t.Fatalf("Match = %v, want ClassExternal", got)
	}
}

func TestMatch_PercentNormalization(t *testing.T) {
	m := Matcher{Base: testBase}

	// Encoder percent-encoded the href; the author typed it verbatim.
	href := "https://en.wikipedia.org/wiki/Caf%C3%A9"
	text := "https://en.wikipedia.org/wiki/Café"
	if got := m.Match(href, text); got != ClassExternal {
		t.Fatalf("Match = %v, want ClassExternal", got)
	}

	// The classic Wikipedia parentheses case.
	href = "https://es.wikipedia.org/wiki/Contrase%C3%B1a_%28%C3%A1lbum%29"
	text = "https://es.wikipedia.org/wiki/Contraseña_(álbum)"
	if got := m.Match(href, text); got != ClassExternal {
		t.Fatalf("Match = %v, want ClassExternal", got)
	}
}

func TestMatch_LocalFullURL(t *testing.T) {
	m := Matcher{Base: testBase}

	href := "https://forum.example/viewtopic.php?t=5"
	if got := m.Match(href, href); got != ClassLocal {
		t.Fatalf("Match = %v, want ClassLocal", got)
	}
}

func TestMatch_LocalRelativeText(t *testing.T) {
	m := Matcher{Base: testBase}

	href := "https://forum.example/viewtopic.php?t=5"
	if got := m.Match(href, "/viewtopic.php?t=5"); got != ClassLocal {
		t.Fatalf("Match = %v, want ClassLocal", got)
	}
}

func TestMatch_TruncatedEcho(t *testing.T) {
	m := Matcher{Base: testBase}

	href := "https://example.com/" + strings.Repeat("segment/", 10)
	if got := m.Match(href, Truncate(href)); got != ClassExternal {
		t.Fatalf("Match = %v, want ClassExternal for truncated echo", got)
	}
}

func TestMatch_EntityDecodedComparison(t *testing.T) {
	m := Matcher{Base: testBase}

	href := "https://example.com/?a=1&amp;b=2"
	text := "https://example.com/?a=1&amp;b=2"
	if got := m.Match(href, text); got != ClassExternal {
		t.Fatalf("Match = %v, want ClassExternal", got)
	}
}

func TestMatch_ProseIsNone(t *testing.T) {
	m := Matcher{Base: testBase}

	if got := m.Match("https://example.com/article", "a really good read"); got != ClassNone {
		t.Fatalf("Match = %v, want ClassNone for prose", got)
	}
	if got := m.Match("https://example.com/a", ""); got != ClassNone {
		t.Fatalf("Match = %v, want ClassNone for empty text", got)
	}
}
