// internal/server/timeouts.go
//
// Hardened *http.Server constructor.
//
// Rewrite requests carry whole rendered pages in their bodies, so the
// read window is wider than a typical JSON API would use, while still
// bounded against slow-loris clients:
//
//   • ReadTimeout   – full page upload must finish (15 s)
//   • WriteTimeout  – rewrite plus response flush (20 s)
//   • IdleTimeout   – close keep-alives the board abandons (60 s)
//
// cmd/web builds its one server through here so the limits live in a
// single place.
//

package server

import (
	"net/http"
	"time"
)

// New constructs an *http.Server with the service's timeout defaults.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
		// TLSConfig stays nil; TLS terminates at the proxy.
	}
}
