// Package metrics exposes pipeline counters for Prometheus scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "olx_bot_cycles_total",
		Help: "Completed polling cycles.",
	})
	OffersFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "olx_bot_offers_fetched_total",
		Help: "Offers returned by the feed across all cycles.",
	})
	OffersNew = promauto.NewCounter(prometheus.CounterOpts{
		Name: "olx_bot_offers_new_total",
		Help: "Offers that passed deduplication and were reserved.",
	})
	DispatchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "olx_bot_dispatch_failures_total",
		Help: "Notifications that failed to send.",
	})
	CollageFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "olx_bot_collage_failures_total",
		Help: "Collage compositions that were unavailable.",
	})
)

// Handler returns the scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
