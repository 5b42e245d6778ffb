// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/tx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

var (
	callsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_calls_total",
		Help: "Counter of executed calls by result",
	}, []string{"result"})
	callDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "auction_call_duration_seconds",
		Help:    "Time spent executing and committing a call",
		Buckets: prometheus.DefBuckets,
	})
	settlementsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_settlements_total",
		Help: "Counter of settled transfer instructions by status",
	}, []string{"status"})
	outboxGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "auction_outbox_pending",
		Help: "Transfer instructions waiting in the outbox",
	})
	heightGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "auction_height",
		Help: "Height of the last committed call",
	})
	eventsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_events_total",
		Help: "Counter of audit events by name",
	}, []string{"name"})
	highestBidGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "auction_highest_bid_near",
		Help: "Amount of the current highest bid in NEAR",
	})
	transfersCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auction_transfers_enqueued_total",
		Help: "Counter of transfer instructions written to the outbox",
	})
)

func init() {
	prometheus.MustRegister(
		callsCounter,
		callDuration,
		settlementsCounter,
		outboxGauge,
		heightGauge,
		eventsCounter,
		highestBidGauge,
		transfersCounter,
	)
}

func observeEvents(events tx.Events) {
	for _, ev := range events {
		decoded, err := auction.DecodeEvent(ev.Topics, ev.Data)
		if err != nil {
			continue
		}
		eventsCounter.WithLabelValues(decoded.Name).Inc()
		if decoded.Name == auction.NewBidEventName {
			highestBidGauge.Set(decimal.NewFromBigInt(decoded.Amount, -meter.YoctoDecimals).InexactFloat64())
		}
	}
}
