// Package metrics holds Prometheus instruments used across the service.
// All collectors are registered with the global registry, so importing
// this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PagesRewrittenTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pages_rewritten_total",
			Help: "Cumulative number of pages run through the slug engine.",
		})

	LinksSluggedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "links_slugged_total",
			Help: "Cumulative number of anchor hrefs that received a slug.",
		})

	SlugCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "slug_cache_hits_total",
			Help: "Cumulative number of per-page slug cache hits.",
		})

	MessagesRenderedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "messages_rendered_total",
			Help: "Cumulative number of messages run through the link normalizer.",
		})

	LinksUnicodifiedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "links_unicodified_total",
			Help: "Cumulative number of anchor texts replaced with Unicode form.",
		})

	BoardConfigRefreshErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "board_config_refresh_errors_total",
			Help: "Cumulative number of failed board-config refreshes.",
		})
)

func init() {
	prometheus.MustRegister(
		PagesRewrittenTotal,
		LinksSluggedTotal,
		SlugCacheHitsTotal,
		MessagesRenderedTotal,
		LinksUnicodifiedTotal,
		BoardConfigRefreshErrorsTotal,
	)
}
