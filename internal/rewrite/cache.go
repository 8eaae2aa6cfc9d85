// internal/rewrite/cache.go
//
// Per-page slug memo.
//
// Context
// -------
// One page references the same topic, forum, or user id from many anchors,
// and some of those anchors (icon-only links) carry no usable title at
// all.  The cache lets every link with a given id share one slug, and lets
// title-less links borrow the slug a contentful sibling computed earlier
// in the same pass.
//
// The cache is owned by a PageSession — constructed at page load and
// discarded at teardown, never a package-level singleton.  Sessions are
// single-goroutine, so there is no locking and no eviction; the map is
// naturally bounded by the distinct ids one page can reference.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package rewrite

// Cache maps route → param → rawID → slug for one page's lifetime.
type Cache struct {
	m map[string]map[string]map[string]string
}

// NewCache returns an empty per-page cache.
func NewCache() *Cache {
	return &Cache{m: make(map[string]map[string]map[string]string)}
}

// Get returns the memoized slug for (route, param, rawID).
func (c *Cache) Get(route, param, rawID string) (string, bool) {
	slug, ok := c.m[route][param][rawID]
	return slug, ok
}

// Set memoizes a slug.  Empty slugs are ignored: a value, once present,
// may only ever be replaced by another non-empty slug.
func (c *Cache) Set(route, param, rawID, slug string) {
	if slug == "" {
		return
	}
	params, ok := c.m[route]
	if !ok {
		params = make(map[string]map[string]string)
		c.m[route] = params
	}
	ids, ok := params[param]
	if !ok {
		ids = make(map[string]string)
		params[param] = ids
	}
	ids[rawID] = slug
}
