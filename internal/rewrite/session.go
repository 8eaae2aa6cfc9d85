// internal/rewrite/session.go
//
// Per-page slug rewrite driver.
//
/*
Context
--------
A PageSession owns all mutable state for rewriting one page: the slug
cache, the page-scoped configuration, and the deferred-retry queue.  It is
constructed at page load and discarded at teardown — never shared between
pages, never a process-wide singleton.

Two event sources feed the driver, and nothing else re-enters it:

  1. RewritePage — the initial batch: rewrite the page's own browsable
     URL, then every anchor currently in the document.
  2. NodesAdded  — content inserted later (the mutation event): each added
     element and its anchor descendants go through the same per-link path.

Per-link flow
-------------
Classify the href; anchors inside untrusted regions (message bodies,
action buttons, skip links, quick links) never have their href rewritten
from their own text — at most an already-embedded slug is recorded into
the cache for trusted siblings to reuse.  Everywhere else: cache hit wins,
then the profile self-link shortcut, then the title — guarded against
titles that are themselves URLs carrying the same parameter.  An existing
embedded slug is preferred over recomputation, so slug information already
encoded in content is never discarded.

Anchors that could not be rewritten synchronously (icon-only links,
untrusted-region links) enter the deferred queue.  The queue is flushed
after the batch completes, mirroring a task scheduled to the back of a
single-threaded event loop: by then a contentful sibling has usually
populated the cache.  A retry that still finds no cache entry is a no-op.
There is no cancellation and no locking — a session lives on a single
goroutine.

Notes
-----
• The sid query parameter is stripped from the canonical URL
  unconditionally; session ids must never survive into a bookmarkable URL.
• Oxford commas, two spaces after periods.
*/
package rewrite

import (
	"net/url"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/rowanvale/friendlyurls/internal/metrics"
	"github.com/rowanvale/friendlyurls/internal/route"
	"github.com/rowanvale/friendlyurls/internal/slug"
)

// Config is the page-scoped configuration, immutable per session.
type Config struct {
	MaxSlugLength int
}

// PageData is the injected per-user contract the board supplies with each
// page: the viewer's identity, the page's HTTP status, and the localized
// "viewing profile" phrase (single %s placeholder).
type PageData struct {
	Username       string
	UserID         int
	PageStatus     int
	ViewingProfile string
}

// Session drives slug rewriting for one page load.
type Session struct {
	slugger  slug.Slugifier
	data     PageData
	cache    *Cache
	base     *url.URL
	deferred []*html.Node
}

// NewSession returns a driver for one page.  The cache starts empty and
// dies with the session.
func NewSession(cfg Config, data PageData) *Session {
	return &Session{
		slugger: slug.New(cfg.MaxSlugLength),
		data:    data,
		cache:   NewCache(),
	}
}

// RewritePage runs the initial batch over doc and returns the canonical
// browsable URL for the history-replace step.  The synchronous pass over
// all anchors completes — populating the cache — before any deferred
// retry runs.
func (s *Session) RewritePage(doc *html.Node, pageURL string) string {
	if u, err := url.Parse(pageURL); err == nil {
		s.base = u
	}

	canonical := s.canonicalURL(doc, pageURL)

	forEachAnchor(doc, s.rewriteAnchor)
	s.flushDeferred()

	metrics.PagesRewrittenTotal.Inc()
	return canonical
}

// NodesAdded processes elements inserted after the initial batch, in
// insertion order.  Each node and its anchor descendants re-enter the
// per-link rewrite; the deferred queue flushes at the end of the batch.
func (s *Session) NodesAdded(nodes []*html.Node) {
	for _, n := range nodes {
		forEachAnchor(n, s.rewriteAnchor)
	}
	s.flushDeferred()
}

// canonicalURL computes the page's own rewritten URL: slug applied when
// the page is sluggable and has a usable title, sid stripped always.
func (s *Session) canonicalURL(doc *html.Node, pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		zap.L().Debug("own-url parse failed", zap.String("url", pageURL))
		return pageURL
	}

	if ref, ok := route.Classify(pageURL); ok {
		title := pageTitle(doc, s.data.ViewingProfile, s.data.PageStatus, ref.ExistingSlug)
		if text := s.slugger.Slugify(title); text != "" {
			if rewritten, err2 := url.Parse(route.ApplySlug(pageURL, ref, text)); err2 == nil {
				u = rewritten
			}
		}
	}

	if q := u.Query(); q.Has("sid") {
		q.Del("sid")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// rewriteAnchor is the per-link rewrite shared by both event sources.
func (s *Session) rewriteAnchor(n *html.Node) {
	href := attr(n, "href")
	ref, ok := route.Classify(href)
	if !ok {
		return
	}

	kind := classifyAnchor(n)

	var newHref string
	if text, usable := s.slugFor(ref, anchorTitle(n, kind)); usable {
		if kind == kindUntrusted {
			// User-authored link text must never become a navigable
			// slug; only harvest a slug the href already carries.
			if ref.ExistingSlug != "" {
				s.cache.Set(ref.Route, ref.Param, ref.RawID, ref.ExistingSlug)
			}
		} else {
			newHref = route.ApplySlug(href, ref, text)
			s.cache.Set(ref.Route, ref.Param, ref.RawID, text)
		}
	}

	if newHref != "" {
		// An href that already carries this exact slug is not a rewrite;
		// counting it would inflate the counter on every revisit.
		if newHref != href {
			setAttr(n, "href", newHref)
			metrics.LinksSluggedTotal.Inc()
		}
		return
	}

	// No text (icon link) or untrusted region: retry from cache after
	// the rest of the batch has run.
	s.deferred = append(s.deferred, n)
}

// slugFor resolves the slug for one classified link, or reports that the
// link cannot be slugged from its own title.
func (s *Session) slugFor(ref route.Ref, title string) (string, bool) {
	if title == "" {
		return "", false
	}

	if cached, ok := s.cache.Get(ref.Route, ref.Param, ref.RawID); ok {
		metrics.SlugCacheHitsTotal.Inc()
		return cached, true
	}

	// A link to the viewer's own profile can be slugged from the
	// session username without trusting any link text.
	if ref.Route == "memberlist" && ref.Param == "u" &&
		ref.RawID == strconv.Itoa(s.data.UserID) {
		return s.slugger.Slugify(s.data.Username), true
	}

	// Text that is itself a URL carrying the same parameter is just the
	// URL echoed back; slugifying it would produce garbage.
	if s.titleEchoesURL(title, ref.Param) {
		return "", false
	}

	if ref.ExistingSlug != "" {
		return ref.ExistingSlug, true
	}
	return s.slugger.Slugify(title), true
}

// titleEchoesURL reports whether title parses as a URL (resolved against
// the page URL) whose query already contains param.
func (s *Session) titleEchoesURL(title, param string) bool {
	var u *url.URL
	var err error
	if s.base != nil {
		u, err = s.base.Parse(title)
	} else {
		u, err = url.Parse(title)
	}
	if err != nil {
		return false
	}
	return u.Query().Get(param) != ""
}

// flushDeferred drains the retry queue with cache-only lookups.
func (s *Session) flushDeferred() {
	pending := s.deferred
	s.deferred = nil

	for _, n := range pending {
		href := attr(n, "href")
		ref, ok := route.Classify(href)
		if !ok {
			continue
		}
		cached, ok := s.cache.Get(ref.Route, ref.Param, ref.RawID)
		if !ok {
			continue // stale retry, nothing to borrow
		}
		rewritten := route.ApplySlug(href, ref, cached)
		if rewritten == href {
			continue // already carries the cached slug
		}
		setAttr(n, "href", rewritten)
		metrics.SlugCacheHitsTotal.Inc()
		metrics.LinksSluggedTotal.Inc()
	}
}
