// internal/server/router.go
//
// HTTP surface of the rewrite service.
//
/*
Context
--------
One chi router carries the whole API:

  POST /v1/page/rewrite    – slug-rewrite a rendered page (body: page URL,
                             HTML, viewer identity, l10n phrases).
  POST /v1/message/render  – normalize unicode links in one message body.
  GET  /healthz            – liveness probe.
  GET  /metrics            – Prometheus exposition.

Middleware order matters: Recoverer first so panics in enrichment or
handlers still return 500s, then request enrichment (UA, Geo), then the
security headers.

Notes
-----
• Oxford commas, two spaces after periods.
*/
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rowanvale/friendlyurls/internal/middleware"
	"github.com/rowanvale/friendlyurls/internal/requestinfo"
)

// NewRouter assembles the service router around one API instance.
func NewRouter(api *API) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(requestinfo.Enrich)
	r.Use(middleware.Security)

	r.Post("/v1/page/rewrite", api.handlePageRewrite)
	r.Post("/v1/message/render", api.handleMessageRender)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
