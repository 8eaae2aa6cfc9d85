// internal/route/route.go
//
// Sluggable-URL classification.
//
// Context
// -------
// Three board page types carry a numeric identifier in their query string
// and can therefore carry a slug suffix:
//
//   viewtopic.php   → p (post id) or t (topic id)
//   viewforum.php   → f (forum id)
//   memberlist.php  → u (user id)
//
// The parameter value format is `<digits>[-<slug>]`.  The board coerces the
// value to an integer and silently drops anything after the digits, so the
// slug suffix never changes routing.  Classification extracts the leading
// digit run and any existing slug; URLs that do not fit the shape are
// simply "not sluggable" — malformed URLs included, never an error.
//
// Notes
// -----
// • Parameter order inside a route encodes precedence (post id wins over
//   topic id).
// • Oxford commas, two spaces after periods.

package route

import (
	"net/url"
	"strings"
)

// Params lists, in priority order, the identifier parameters a route
// accepts.  Read-only, process-wide.
var Params = map[string][]string{
	"viewtopic":  {"p", "t"},
	"viewforum":  {"f"},
	"memberlist": {"u"},
}

// Ref identifies one sluggable occurrence on a URL.
type Ref struct {
	Route        string // route key, e.g. "viewtopic"
	Param        string // winning query parameter, e.g. "t"
	RawID        string // leading digit run of the parameter value
	ExistingSlug string // slug suffix already present, "" if none
}

// Classify reports whether href addresses a sluggable board page.  The
// bool result is false for malformed URLs, unknown routes, and missing or
// non-numeric identifiers.
func Classify(href string) (Ref, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return Ref{}, false
	}

	params, ok := Params[routeKey(u.Path)]
	if !ok {
		return Ref{}, false
	}

	q := u.Query()
	var param, value string
	for _, p := range params {
		if v := q.Get(p); v != "" {
			param, value = p, v
			break
		}
	}
	if value == "" {
		return Ref{}, false
	}

	rawID, existing := splitID(value)
	if rawID == "" {
		return Ref{}, false
	}

	return Ref{
		Route:        routeKey(u.Path),
		Param:        param,
		RawID:        rawID,
		ExistingSlug: existing,
	}, true
}

// ApplySlug returns href with ref's parameter rewritten to
// `<rawID>-<slug>` (bare rawID when slug is empty).  The digits preceding
// the first "-" are never altered.  Malformed hrefs come back unchanged.
func ApplySlug(href string, ref Ref, slug string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}

	value := ref.RawID
	if slug != "" {
		value += "-" + slug
	}

	q := u.Query()
	q.Set(ref.Param, value)
	u.RawQuery = q.Encode()
	return u.String()
}

// routeKey extracts the final path segment without its extension:
// "/forum/viewtopic.php" → "viewtopic".
func routeKey(path string) string {
	seg := path
	if i := strings.LastIndexByte(seg, '/'); i != -1 {
		seg = seg[i+1:]
	}
	if i := strings.IndexByte(seg, '.'); i != -1 {
		seg = seg[:i]
	}
	return seg
}

// splitID splits a parameter value on its leading digit run.  A slug
// suffix is only recognized after a single "-" separator; any other
// trailing text is discarded (the board drops it during integer coercion
// anyway).
func splitID(value string) (rawID, existingSlug string) {
	i := 0
	for i < len(value) && value[i] >= '0' && value[i] <= '9' {
		i++
	}
	rawID = value[:i]
	rest := value[i:]
	if strings.HasPrefix(rest, "-") {
		existingSlug = rest[1:]
	}
	return rawID, existingSlug
}
