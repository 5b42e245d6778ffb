// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/runtime"
	"github.com/pkg/errors"
)

type Accounts struct {
	rt        *runtime.Runtime
	allowMint bool
}

func New(rt *runtime.Runtime, allowMint bool) *Accounts {
	return &Accounts{
		rt,
		allowMint,
	}
}

func parseID(req *http.Request) (meter.AccountID, error) {
	id, err := meter.ParseAccountID(mux.Vars(req)["id"])
	if err != nil {
		return "", utils.BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}
	balance, err := a.rt.Balance(id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertAccount(id, balance))
}

func (a *Accounts) handleMint(w http.ResponseWriter, req *http.Request) error {
	if !a.allowMint {
		return utils.Forbidden(errors.New("mint is only available in dev mode"))
	}
	id, err := parseID(req)
	if err != nil {
		return err
	}
	var body MintRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	var amount *big.Int
	switch {
	case body.Amount != "" && body.NEAR == "":
		amount, err = meter.ParseAmount(body.Amount)
	case body.NEAR != "" && body.Amount == "":
		amount, err = meter.ParseNEAR(body.NEAR)
	default:
		err = errors.New("exactly one of amount and near required")
	}
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "amount"))
	}
	balance, err := a.rt.Mint(id, amount)
	if err != nil {
		return utils.BadRequest(err)
	}
	return utils.WriteJSON(w, convertAccount(id, balance))
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{id}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{id}/mint").Methods("POST").HandlerFunc(utils.WrapHandlerFunc(a.handleMint))
}
