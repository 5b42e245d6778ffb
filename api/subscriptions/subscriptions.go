// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/meterio/meter-auction/api/auction"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/runtime"
	"github.com/pkg/errors"
)

const (
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
	writeWait  = 10 * time.Second
)

type Subscriptions struct {
	rt       *runtime.Runtime
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
	logger   *slog.Logger
}

func New(rt *runtime.Runtime, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		rt: rt,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == strings.ToLower(origin) || allowed == strings.ToLower(u.Host) {
						return true
					}
				}
				return false
			},
		},
		done:   make(chan struct{}),
		logger: slog.Default().With("pkg", "subscriptions"),
	}
}

type receiptFilter struct {
	caller *meter.AccountID
}

func (f *receiptFilter) match(r *runtime.Receipt) bool {
	return f.caller == nil || *f.caller == r.Caller
}

func (s *Subscriptions) handleReceipt(w http.ResponseWriter, req *http.Request) error {
	filter := &receiptFilter{}
	if c := req.URL.Query().Get("caller"); c != "" {
		caller, err := meter.ParseAccountID(c)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "caller"))
		}
		filter.caller = &caller
	}

	receipts := make(chan *runtime.Receipt, 64)
	sub := s.rt.SubscribeReceipts(receipts)
	defer sub.Unsubscribe()

	id := uuid.New().String()
	header := http.Header{}
	header.Set("X-Subscription-Id", id)
	conn, err := s.upgrader.Upgrade(w, req, header)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		s.logger.Debug("upgrade to websocket", "err", err)
		return nil
	}
	s.wg.Add(1)
	defer s.wg.Done()

	logger := s.logger.With("id", id)
	logger.Debug("subscribed", "remote", req.RemoteAddr)
	if err := s.pipe(conn, filter, receipts, sub); err != nil {
		logger.Debug("subscription closed", "err", err)
	}
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, filter *receiptFilter, receipts <-chan *runtime.Receipt, sub event.Subscription) error {
	defer conn.Close()

	closed := make(chan struct{})
	// start read loop to handle close event
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			return nil
		case <-closed:
			return nil
		case err := <-sub.Err():
			return err
		case r := <-receipts:
			if !filter.match(r) {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(auction.ConvertReceipt(r)); err != nil {
				return err
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

// Close closes all subscriptions and waits for them to exit.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/receipt").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(s.handleReceipt))
}
