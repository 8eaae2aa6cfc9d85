// internal/rewrite/session_test.go
//
// Unit-tests for the per-page slug rewrite driver.
//
// Context
// -------
// Documents are parsed with x/net/html exactly as the driver sees them in
// production.  Each test builds a small page, runs the initial batch (and
// sometimes a nodes-added batch), and asserts on the mutated hrefs.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package rewrite

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/net/html"

	"github.com/rowanvale/friendlyurls/internal/metrics"
)

func parseDoc(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

// anchorHrefs returns every anchor href in document order.
func anchorHrefs(doc *html.Node) []string {
	var hrefs []string
	forEachAnchor(doc, func(n *html.Node) {
		hrefs = append(hrefs, attr(n, "href"))
	})
	return hrefs
}

func newTestSession() *Session {
	return NewSession(Config{MaxSlugLength: 100}, PageData{
		Username:       "Jane Doe",
		UserID:         12,
		ViewingProfile: "Viewing profile - %s",
	})
}

func TestRewritePage_SlugsTitledLink(t *testing.T) {
	s := newTestSession()
	doc := parseDoc(t, `<a href="./viewforum.php?f=7">General Discussion</a>`)

	s.RewritePage(doc, "https://forum.example/index.php")

	hrefs := anchorHrefs(doc)
	if len(hrefs) != 1 || hrefs[0] != "./viewforum.php?f=7-general-discussion" {
		t.Fatalf("hrefs = %v", hrefs)
	}
}

func TestRewritePage_IconLinkBorrowsFromSibling(t *testing.T) {
	s := newTestSession()
	// The icon link precedes the titled one; only the deferred pass can
	// slug it, borrowing from the cache the titled link populated.
	doc := parseDoc(t, `
		<a href="./viewforum.php?f=7"><img src="icon.png"></a>
		<a href="./viewforum.php?f=7">General Discussion</a>`)

	s.RewritePage(doc, "https://forum.example/index.php")

	hrefs := anchorHrefs(doc)
	for i, href := range hrefs {
		if !strings.HasSuffix(href, "f=7-general-discussion") {
			t.Errorf("anchor %d = %q, want slug borrowed", i, href)
		}
	}
}

func TestRewritePage_Idempotent(t *testing.T) {
	s := newTestSession()
	doc := parseDoc(t, `<a href="./viewtopic.php?t=123-some-slug">Some Slug</a>`)

	s.RewritePage(doc, "https://forum.example/index.php")

	hrefs := anchorHrefs(doc)
	if !strings.HasSuffix(hrefs[0], "t=123-some-slug") {
		t.Fatalf("href = %q, want existing slug preserved", hrefs[0])
	}
	if strings.Count(hrefs[0], "some-slug") != 1 {
		t.Fatalf("href = %q, slug appended twice", hrefs[0])
	}

	// A second driver run over the already-rewritten document changes
	// nothing further.
	s2 := newTestSession()
	s2.RewritePage(doc, "https://forum.example/index.php")
	if got := anchorHrefs(doc)[0]; got != hrefs[0] {
		t.Fatalf("second run mutated href: %q → %q", hrefs[0], got)
	}
}

func TestRewritePage_ExistingSlugPreferredOverTitle(t *testing.T) {
	s := newTestSession()
	doc := parseDoc(t, `<a href="./viewtopic.php?t=8-original-slug">A Newer Title</a>`)

	s.RewritePage(doc, "https://forum.example/index.php")

	if got := anchorHrefs(doc)[0]; !strings.HasSuffix(got, "t=8-original-slug") {
		t.Fatalf("href = %q, want embedded slug kept", got)
	}
}

func TestRewritePage_UntrustedRegionNotSluggedFromOwnText(t *testing.T) {
	s := newTestSession()
	doc := parseDoc(t, `
		<div class="content">
			<a href="./viewtopic.php?t=9">totally misleading text</a>
		</div>`)

	s.RewritePage(doc, "https://forum.example/index.php")

	if got := anchorHrefs(doc)[0]; got != "./viewtopic.php?t=9" {
		t.Fatalf("untrusted link mutated from its own text: %q", got)
	}
}

func TestRewritePage_UntrustedRegionDonatesExistingSlug(t *testing.T) {
	s := newTestSession()
	// The post-content link carries a slug; the icon link outside the
	// content region borrows it through the cache.
	doc := parseDoc(t, `
		<div class="content">
			<a href="./viewtopic.php?t=9-good-slug">whatever the author wrote</a>
		</div>
		<a href="./viewtopic.php?t=9"><img src="icon.png"></a>`)

	s.RewritePage(doc, "https://forum.example/index.php")

	hrefs := anchorHrefs(doc)
	if !strings.HasSuffix(hrefs[1], "t=9-good-slug") {
		t.Fatalf("icon link = %q, want donated slug", hrefs[1])
	}
}

func TestRewritePage_QuickLinksRegionUntrusted(t *testing.T) {
	s := newTestSession()
	doc := parseDoc(t, `
		<ul id="quick-links">
			<li><a href="./viewforum.php?f=3">Unread posts</a></li>
		</ul>`)

	s.RewritePage(doc, "https://forum.example/index.php")

	if got := anchorHrefs(doc)[0]; got != "./viewforum.php?f=3" {
		t.Fatalf("quick-links anchor mutated: %q", got)
	}
}

func TestRewritePage_URLAsTitleSkipped(t *testing.T) {
	s := newTestSession()
	doc := parseDoc(t, `
		<a href="./viewtopic.php?t=5">https://forum.example/viewtopic.php?t=5</a>`)

	s.RewritePage(doc, "https://forum.example/index.php")

	if got := anchorHrefs(doc)[0]; got != "./viewtopic.php?t=5" {
		t.Fatalf("URL-echo anchor slugged: %q", got)
	}
}

func TestRewritePage_SelfProfileUsesSessionUsername(t *testing.T) {
	s := newTestSession()
	doc := parseDoc(t, `<a href="./memberlist.php?mode=viewprofile&u=12">Profile</a>`)

	s.RewritePage(doc, "https://forum.example/index.php")

	if got := anchorHrefs(doc)[0]; !strings.Contains(got, "u=12-jane-doe") {
		t.Fatalf("self-profile link = %q, want username slug", got)
	}
}

func TestRewritePage_NotificationUsesReferenceText(t *testing.T) {
	s := newTestSession()
	doc := parseDoc(t, `
		<a class="notification-block" href="./viewtopic.php?t=31">
			Someone replied to
			<span class="notification-reference">Server Upgrade Plans</span>
		</a>`)

	s.RewritePage(doc, "https://forum.example/index.php")

	if got := anchorHrefs(doc)[0]; !strings.HasSuffix(got, "t=31-server-upgrade-plans") {
		t.Fatalf("notification link = %q", got)
	}
}

func TestRewritePage_TooltipPreferredWhenEllipsized(t *testing.T) {
	s := newTestSession()
	doc := parseDoc(t, `
		<a href="./viewtopic.php?t=6" title="A much longer topic name">A much longer top…</a>`)

	s.RewritePage(doc, "https://forum.example/index.php")

	if got := anchorHrefs(doc)[0]; !strings.HasSuffix(got, "t=6-a-much-longer-topic-name") {
		t.Fatalf("href = %q, want tooltip title used", got)
	}
}

func TestRewritePage_ReplyPrefixStripped(t *testing.T) {
	s := newTestSession()
	doc := parseDoc(t, `<a href="./viewtopic.php?t=2">Re: Weekly Meetup</a>`)

	s.RewritePage(doc, "https://forum.example/index.php")

	if got := anchorHrefs(doc)[0]; !strings.HasSuffix(got, "t=2-weekly-meetup") {
		t.Fatalf("href = %q, want Re: prefix dropped", got)
	}
}

func TestRewritePage_SrOnlyContentIgnored(t *testing.T) {
	s := newTestSession()
	doc := parseDoc(t, `
		<a href="./viewtopic.php?t=4"><span class="sr-only">unread:</span>Release Notes</a>`)

	s.RewritePage(doc, "https://forum.example/index.php")

	if got := anchorHrefs(doc)[0]; !strings.HasSuffix(got, "t=4-release-notes") {
		t.Fatalf("href = %q, want sr-only text excluded", got)
	}
}

func TestCanonicalURL_TopicPage(t *testing.T) {
	s := newTestSession()
	doc := parseDoc(t, `<h2 class="topic-title">Hello World!</h2>`)

	got := s.RewritePage(doc, "https://forum.example/viewtopic.php?t=42&sid=abc123")

	if !strings.Contains(got, "t=42-hello-world") {
		t.Fatalf("canonical = %q, want slugged topic id", got)
	}
	if strings.Contains(got, "sid=") {
		t.Fatalf("canonical = %q, sid survived", got)
	}
}

func TestCanonicalURL_SidStrippedWithoutSlug(t *testing.T) {
	s := newTestSession()
	doc := parseDoc(t, `<p>not a sluggable page</p>`)

	got := s.RewritePage(doc, "https://forum.example/index.php?sid=abc123")

	if strings.Contains(got, "sid=") {
		t.Fatalf("canonical = %q, sid survived", got)
	}
}

func TestCanonicalURL_ProfilePage(t *testing.T) {
	s := newTestSession()
	doc := parseDoc(t, `<h2 class="memberlist-title">Viewing profile - Jane Doe</h2>`)

	got := s.RewritePage(doc, "https://forum.example/memberlist.php?mode=viewprofile&u=12")

	if !strings.Contains(got, "u=12-jane-doe") {
		t.Fatalf("canonical = %q, want username slug", got)
	}
}

func TestCanonicalURL_ErrorPageNotSlugged(t *testing.T) {
	s := NewSession(Config{MaxSlugLength: 100}, PageData{PageStatus: 404})
	doc := parseDoc(t, `<h2 class="topic-title">Information</h2>`)

	got := s.RewritePage(doc, "https://forum.example/viewtopic.php?t=99")

	if strings.Contains(got, "t=99-") {
		t.Fatalf("canonical = %q, error page slugged", got)
	}
}

func TestNodesAdded_RewritesLateContent(t *testing.T) {
	s := newTestSession()
	doc := parseDoc(t, `<a href="./viewforum.php?f=7">General Discussion</a>`)
	s.RewritePage(doc, "https://forum.example/index.php")

	// Simulate content inserted after load: an icon-only link for the
	// same forum id.  Its slug can only come from the session cache.
	late := parseDoc(t, `<a href="./viewforum.php?f=7"><img src="i.png"></a>`)
	s.NodesAdded([]*html.Node{late})

	var got string
	forEachAnchor(late, func(n *html.Node) { got = attr(n, "href") })
	if !strings.HasSuffix(got, "f=7-general-discussion") {
		t.Fatalf("late anchor = %q, want cached slug", got)
	}
}

func TestRewritePage_NoOpRewriteNotCounted(t *testing.T) {
	sluggedBefore := testutil.ToFloat64(metrics.LinksSluggedTotal)
	hitsBefore := testutil.ToFloat64(metrics.SlugCacheHitsTotal)

	// The untrusted link already carries the only slug the cache will ever
	// hold for t=9, so the deferred retry re-applies the same value.
	s := newTestSession()
	doc := parseDoc(t, `
		<div class="content">
			<a href="./viewtopic.php?t=9-good-slug">whatever the author wrote</a>
		</div>`)

	s.RewritePage(doc, "https://forum.example/index.php")

	if got := anchorHrefs(doc)[0]; got != "./viewtopic.php?t=9-good-slug" {
		t.Fatalf("href mutated: %q", got)
	}
	if d := testutil.ToFloat64(metrics.LinksSluggedTotal) - sluggedBefore; d != 0 {
		t.Errorf("links_slugged_total advanced by %v for an unchanged href", d)
	}
	if d := testutil.ToFloat64(metrics.SlugCacheHitsTotal) - hitsBefore; d != 0 {
		t.Errorf("slug_cache_hits_total advanced by %v for an unchanged href", d)
	}
}

func TestCache_NeverOverwrittenWithEmpty(t *testing.T) {
	c := NewCache()
	c.Set("viewforum", "f", "7", "general-discussion")
	c.Set("viewforum", "f", "7", "")

	got, ok := c.Get("viewforum", "f", "7")
	if !ok || got != "general-discussion" {
		t.Fatalf("cache = %q, %v", got, ok)
	}

	c.Set("viewforum", "f", "7", "renamed-forum")
	if got, _ := c.Get("viewforum", "f", "7"); got != "renamed-forum" {
		t.Fatalf("cache = %q, want last non-empty writer", got)
	}
}
