// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
	"github.com/pkg/errors"
)

const defaultRecentLimit = 20

type Events struct {
	db     *logdb.LogDB
	logger *slog.Logger
}

func New(db *logdb.LogDB) *Events {
	return &Events{
		db:     db,
		logger: slog.Default().With("api", "events"),
	}
}

func (e *Events) filter(ctx context.Context, ef *EventFilter) ([]*FilteredEvent, error) {
	f, err := convertEventFilter(ef)
	if err != nil {
		return nil, utils.BadRequest(err)
	}
	events, err := e.db.FilterEvents(ctx, f)
	if err != nil {
		return nil, err
	}
	fes := make([]*FilteredEvent, 0, len(events))
	for _, ev := range events {
		fes = append(fes, convertEvent(ev))
	}
	return fes, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return e.serve(w, req, &filter)
}

// handleRecent lists the latest events of one name, optionally for one account.
func (e *Events) handleRecent(w http.ResponseWriter, req *http.Request) error {
	filter := EventFilter{
		Name:    mux.Vars(req)["name"],
		Order:   logdb.DESC,
		Options: &logdb.Options{Limit: defaultRecentLimit},
	}
	if s := req.URL.Query().Get("limit"); s != "" {
		limit, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "limit"))
		}
		filter.Options.Limit = limit
	}
	if s := req.URL.Query().Get("account"); s != "" {
		account, err := meter.ParseAccountID(s)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "account"))
		}
		topic := account.Topic()
		filter.CriteriaSet = []*EventCriteria{{TopicSet: TopicSet{Topic1: &topic}}}
	}
	return e.serve(w, req, &filter)
}

func (e *Events) serve(w http.ResponseWriter, req *http.Request, filter *EventFilter) error {
	start := time.Now()
	fes, err := e.filter(req.Context(), filter)
	if err != nil {
		return err
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		query, _ := json.Marshal(filter)
		e.logger.Info("slow event query", "query", string(query), "elapsed", meter.PrettyDuration(elapsed))
	}
	return utils.WriteJSON(w, fes)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods("POST").HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
	sub.Path("/{name}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(e.handleRecent))
}
