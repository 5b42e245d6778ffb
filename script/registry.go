// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"fmt"
	"sort"
	"sync"

	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/pkg/errors"
)

// ModuleHandler runs one module call.
type ModuleHandler func(senv *setypes.ScriptEnv, payload []byte, to meter.AccountID, gas uint64) (*setypes.ScriptEngineOutput, uint64, error)

// Module is a registered script module.
type Module struct {
	modName    string
	modID      uint32
	modHandler ModuleHandler
}

func (m *Module) ToString() string {
	return fmt.Sprintf("Module(%v #%v)", m.modName, m.modID)
}

func (m *Module) Name() string { return m.modName }
func (m *Module) ID() uint32   { return m.modID }

// Registry maps module ids to modules. Ids are never reused.
type Registry struct {
	lock    sync.RWMutex
	modules map[uint32]Module
}

// Register stores p under modID, which becomes the module's ID.
func (r *Registry) Register(modID uint32, p *Module) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.modules == nil {
		r.modules = make(map[uint32]Module)
	}
	if _, ok := r.modules[modID]; ok {
		return errors.Errorf("module %v already registered", modID)
	}
	m := *p
	m.modID = modID
	r.modules[modID] = m
	return nil
}

// Find by ID
func (r *Registry) Find(modID uint32) (*Module, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	m, ok := r.modules[modID]
	if !ok {
		return nil, false
	}
	return &m, true
}

// All returns registered modules ordered by id.
func (r *Registry) All() []Module {
	r.lock.RLock()
	defer r.lock.RUnlock()

	all := make([]Module, 0, len(r.modules))
	for _, m := range r.modules {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].modID < all[j].modID })
	return all
}
