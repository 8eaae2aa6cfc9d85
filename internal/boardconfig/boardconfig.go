// internal/boardconfig/boardconfig.go
//
// Live board configuration reader.
//
/*
Context
--------
phpBB keeps its runtime switches in a single `<prefix>config` table of
name/value pairs.  Two of them drive this service:

  • luoning_humanfriendlyurls_max_slug_length – slug budget in characters,
    where -1 means unbounded.
  • luoning_humanfriendlyurls_unicodify_links – 1 enables the message-side
    link normalizer.

The Reader caches both values under a TTL so per-request paths never
touch the database.  Concurrent refreshes collapse into one query via
singleflight; a failed refresh logs a warning, bumps a metric, and keeps
serving the last good snapshot (or the static fallback if nothing was
ever loaded), so a database hiccup degrades to stale settings instead of
errors.

A Reader built with Static() has no database at all and always returns
its fallback — the mode used when no DSN is configured.

Notes
-----
• Oxford commas, two spaces after periods.
*/
package boardconfig

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/rowanvale/friendlyurls/internal/metrics"
)

// Config-table row names this service reads.
const (
	keyMaxSlugLength  = "luoning_humanfriendlyurls_max_slug_length"
	keyUnicodifyLinks = "luoning_humanfriendlyurls_unicodify_links"
)

// Values is one immutable snapshot of the board switches.
type Values struct {
	MaxSlugLength  int
	UnicodifyLinks bool
}

// Reader serves cached board configuration.  Safe for concurrent use.
type Reader struct {
	db       *sqlx.DB
	table    string
	ttl      time.Duration
	fallback Values

	mu      sync.RWMutex
	vals    Values
	loaded  bool
	expires time.Time

	sf singleflight.Group
}

// New returns a Reader backed by the board database.  tablePrefix is the
// board's table prefix (usually "phpbb_").
func New(db *sqlx.DB, tablePrefix string, ttl time.Duration, fallback Values) *Reader {
	return &Reader{
		db:       db,
		table:    tablePrefix + "config",
		ttl:      ttl,
		fallback: fallback,
	}
}

// Static returns a Reader with no database; Current always yields v.
func Static(v Values) *Reader {
	return &Reader{fallback: v}
}

// Current returns the freshest snapshot available.  It never returns an
// error: refresh failures fall back to the last good snapshot.
func (r *Reader) Current(ctx context.Context) Values {
	if r.db == nil {
		return r.fallback
	}

	r.mu.RLock()
	fresh := r.loaded && time.Now().Before(r.expires)
	vals := r.vals
	r.mu.RUnlock()
	if fresh {
		return vals
	}

	got, err, _ := r.sf.Do("refresh", func() (any, error) {
		v, err := r.refresh(ctx)
		return v, err
	})
	if err != nil {
		metrics.BoardConfigRefreshErrorsTotal.Inc()
		zap.S().Warnw("board config refresh failed", "err", err)

		r.mu.RLock()
		defer r.mu.RUnlock()
		if r.loaded {
			return r.vals
		}
		return r.fallback
	}
	return got.(Values)
}

// refresh queries the config table and installs the new snapshot.
func (r *Reader) refresh(ctx context.Context) (Values, error) {
	type row struct {
		Name  string `db:"config_name"`
		Value string `db:"config_value"`
	}

	var rows []row
	query := `SELECT config_name, config_value FROM ` + r.table +
		` WHERE config_name IN (?, ?)`
	if err := r.db.SelectContext(ctx, &rows, query,
		keyMaxSlugLength, keyUnicodifyLinks); err != nil {
		return Values{}, err
	}

	vals := r.fallback
	for _, rw := range rows {
		switch rw.Name {
		case keyMaxSlugLength:
			if n, err := strconv.Atoi(rw.Value); err == nil {
				vals.MaxSlugLength = n
			}
		case keyUnicodifyLinks:
			vals.UnicodifyLinks = rw.Value == "1"
		}
	}

	r.mu.Lock()
	r.vals = vals
	r.loaded = true
	r.expires = time.Now().Add(r.ttl)
	r.mu.Unlock()

	return vals, nil
}
