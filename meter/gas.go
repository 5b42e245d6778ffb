// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

const (
	// ClauseGas is charged for every script call.
	ClauseGas uint64 = 16000
	// DefaultCallGasLimit bounds gas a single call may carry.
	DefaultCallGasLimit uint64 = 50000000
)
