// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/runtime"
	auctionscript "github.com/meterio/meter-auction/script/auction"
	"github.com/pkg/errors"
)

type Auction struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Auction {
	return &Auction{
		rt,
	}
}

// queryError maps precondition failures of read-only queries.
func queryError(err error) error {
	if kind, ok := auctionscript.ErrorKind(err); ok {
		return utils.Conflict(kind, err)
	}
	return err
}

func callError(err error) error {
	switch errors.Cause(err) {
	case runtime.ErrInsufficientBalance, runtime.ErrInvalidDeposit, runtime.ErrInvalidCallData:
		return utils.BadRequest(err)
	}
	return err
}

func (a *Auction) writeReceipt(w http.ResponseWriter, r *runtime.Receipt) error {
	if r.Reverted {
		kind, ok := auctionscript.ErrorKind(r.VMErr)
		if !ok {
			kind = "Reverted"
		}
		return utils.Conflict(kind, r.VMErr)
	}
	return utils.WriteJSON(w, ConvertReceipt(r))
}

func parseCaller(caller meter.AccountID) error {
	if _, err := meter.ParseAccountID(caller.String()); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "caller"))
	}
	return nil
}

func (a *Auction) handleGetStatus(w http.ResponseWriter, req *http.Request) error {
	status, err := a.rt.Status()
	if err != nil {
		return queryError(err)
	}
	return utils.WriteJSON(w, ConvertStatus(status))
}

func (a *Auction) handleGetHighestBid(w http.ResponseWriter, req *http.Request) error {
	bid, err := a.rt.HighestBid()
	if err != nil {
		return queryError(err)
	}
	return utils.WriteJSON(w, convertBid(bid))
}

func (a *Auction) handleGetEndTime(w http.ResponseWriter, req *http.Request) error {
	endTime, err := a.rt.EndTime()
	if err != nil {
		return queryError(err)
	}
	return utils.WriteJSON(w, &EndTime{endTime})
}

func (a *Auction) handleInitialize(w http.ResponseWriter, req *http.Request) error {
	var body InitializeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := parseCaller(body.Caller); err != nil {
		return err
	}
	r, err := a.rt.Initialize(req.Context(), body.Caller, body.EndTime, body.Beneficiary)
	if err != nil {
		return callError(err)
	}
	return a.writeReceipt(w, r)
}

func (a *Auction) handleBid(w http.ResponseWriter, req *http.Request) error {
	var body BidRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := parseCaller(body.Caller); err != nil {
		return err
	}
	deposit, err := body.amount()
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "deposit"))
	}
	r, err := a.rt.Bid(req.Context(), body.Caller, deposit)
	if err != nil {
		return callError(err)
	}
	return a.writeReceipt(w, r)
}

func (a *Auction) handleClaim(w http.ResponseWriter, req *http.Request) error {
	var body ClaimRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := parseCaller(body.Caller); err != nil {
		return err
	}
	r, err := a.rt.Claim(req.Context(), body.Caller)
	if err != nil {
		return callError(err)
	}
	return a.writeReceipt(w, r)
}

func (a *Auction) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetStatus))
	sub.Path("/highest-bid").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetHighestBid))
	sub.Path("/end-time").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetEndTime))
	sub.Path("/initialize").Methods("POST").HandlerFunc(utils.WrapHandlerFunc(a.handleInitialize))
	sub.Path("/bid").Methods("POST").HandlerFunc(utils.WrapHandlerFunc(a.handleBid))
	sub.Path("/claim").Methods("POST").HandlerFunc(utils.WrapHandlerFunc(a.handleClaim))
}
