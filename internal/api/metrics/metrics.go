// Package metrics defines and registers all custom Prometheus metrics
// for the auction marketplace API. It is the single source of truth for
// metric names, labels, and help strings. Metrics register themselves
// with the default registry via promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auction"

// ── Lifecycle metrics ─────────────────────────────────────────────────────────

// AuctionsCreatedTotal counts newly created auctions.
// Label:
//   - category: the listing category supplied by the seller
var AuctionsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auctions_created_total",
		Help:      "Total number of auctions created, by category.",
	},
	[]string{"category"},
)

// AuctionsRepublishedTotal counts closed auctions reopened with a fresh window.
var AuctionsRepublishedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auctions_republished_total",
		Help:      "Total number of closed auctions that were republished.",
	},
)

// BidsPlacedTotal counts accepted bids across all auctions.
var BidsPlacedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bids_placed_total",
		Help:      "Total number of bids accepted into auction ledgers.",
	},
)

// ── Settlement metrics ────────────────────────────────────────────────────────

// CommissionAccruedTotal sums the commission amounts accrued at close.
var CommissionAccruedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commission_accrued_total",
		Help:      "Total commission amount accrued from settled auctions.",
	},
)

// SettlementErrorsTotal counts close events that failed processing.
// Label:
//   - reason: short description of the failure (e.g. "auction_not_found", "accrue_failed")
var SettlementErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settlement_errors_total",
		Help:      "Total number of close events that failed settlement.",
	},
	[]string{"reason"},
)

// SettlementQueueDepth tracks the events waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var SettlementQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "settlement_queue_depth",
		Help:      "Current number of close events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// SettlementDuration measures how long settling one auction takes end-to-end.
var SettlementDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "settlement_duration_seconds",
		Help:      "Duration of auction settlement from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
)
