// Copyright 2026 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package provider

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/params"
)

// Network identifies the chain behind a provider.
type Network struct {
	Name    string
	ChainID *big.Int
}

// NetworkDetector determines which network a provider is connected to.
type NetworkDetector interface {
	DetectNetwork(ctx context.Context) (Network, error)
}

// CustomNetwork is the name reported for chains without a well-known name.
const CustomNetwork = "Custom"

var networkNames = map[uint64]string{
	params.MainnetChainConfig.ChainID.Uint64(): "Main",
	params.SepoliaChainConfig.ChainID.Uint64(): "Sepolia",
	params.HoleskyChainConfig.ChainID.Uint64(): "Holesky",
	params.HoodiChainConfig.ChainID.Uint64():   "Hoodi",
}

// NetworkName returns the well-known name of a chain id.
func NetworkName(chainID *big.Int) string {
	if chainID == nil || !chainID.IsUint64() {
		return CustomNetwork
	}
	if name, ok := networkNames[chainID.Uint64()]; ok {
		return name
	}
	return CustomNetwork
}
