// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/consts"
)

// Note: Registry will error during initialization if a duplicate ID is
// assigned. We explicitly assign IDs to avoid accidental remapping.
const (
	ED25519ID = consts.ED25519ID

	ED25519Key = "ed25519"
)

// Register adds every supported auth to [registry].
func Register(registry chain.AuthRegistry) error {
	return registry.Register(&ED25519{}, UnmarshalED25519)
}
