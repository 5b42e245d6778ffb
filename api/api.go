// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/accounts"
	"github.com/meterio/meter-auction/api/auction"
	"github.com/meterio/meter-auction/api/events"
	"github.com/meterio/meter-auction/api/node"
	"github.com/meterio/meter-auction/api/subscriptions"
	"github.com/meterio/meter-auction/api/transfers"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New return api router
func New(rt *runtime.Runtime, logDB *logdb.LogDB, allowedOrigins string, dev bool) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(allowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	router.Path("/").HandlerFunc(
		func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "/auction", http.StatusTemporaryRedirect)
		})
	router.Path("/metrics").Handler(promhttp.Handler())

	auction.New(rt).
		Mount(router, "/auction")
	accounts.New(rt, dev).
		Mount(router, "/accounts")
	node.New(rt).
		Mount(router, "/node")
	if logDB != nil {
		events.New(logDB).
			Mount(router, "/logs/event")
		transfers.New(logDB).
			Mount(router, "/logs/transfer")
	}
	subs := subscriptions.New(rt, origins)
	subs.Mount(router, "/subscriptions")

	return handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedHeaders([]string{"content-type"}))(router).ServeHTTP,
		subs.Close // subscriptions handles hijacked conns, which need to be closed
}
