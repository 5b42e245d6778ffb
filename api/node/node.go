// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/runtime"
)

type Node struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Node {
	return &Node{
		rt,
	}
}

func (n *Node) status() (*Status, error) {
	height, err := n.rt.Height()
	if err != nil {
		return nil, err
	}
	pending, err := n.rt.Pending()
	if err != nil {
		return nil, err
	}
	status := &Status{
		Contract:         n.rt.Contract(),
		Height:           height,
		PendingTransfers: pending,
		Modules:          []Module{},
	}
	for _, m := range n.rt.Engine().Modules() {
		status.Modules = append(status.Modules, Module{m.Name(), m.ID()})
	}
	return status, nil
}

func (n *Node) handleStatus(w http.ResponseWriter, req *http.Request) error {
	status, err := n.status()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, status)
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/status").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(n.handleStatus))
}
