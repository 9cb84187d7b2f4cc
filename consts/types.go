// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/version"
)

const (
	Name = "boatvm"
	HRP  = "boat"
)

// Address type IDs. The first byte of every [codec.Address] is one of these.
//
// Note: values are assigned explicitly so a reordering can never remap
// existing addresses.
const (
	ED25519ID uint8 = 0
	DerivedID uint8 = 1
)

var (
	ID ids.ID

	Version = &version.Semantic{
		Major: 0,
		Minor: 1,
		Patch: 0,
	}
)

func init() {
	b := make([]byte, ids.IDLen)
	copy(b, []byte(Name))
	vmID, err := ids.ToID(b)
	if err != nil {
		panic(err)
	}
	ID = vmID
}
