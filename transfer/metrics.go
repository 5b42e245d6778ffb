// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfer

import "github.com/prometheus/client_golang/prometheus"

var (
	drainedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auction_dispatcher_settled_total",
		Help: "Transfer instructions handled by the dispatcher",
	})
	retriesCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auction_dispatcher_retries_total",
		Help: "Drain attempts that stopped on a settlement error",
	})
)

func init() {
	prometheus.MustRegister(drainedCounter, retriesCounter)
}
