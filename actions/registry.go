// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/solimare/boatvm/chain"
)

// Register adds every registry action to [registry].
func Register(registry chain.ActionRegistry) error {
	errs := &wrappers.Errs{}
	errs.Add(
		registry.Register(&InitializeConfig{}, UnmarshalInitializeConfig),
		registry.Register(&UpdateConfig{}, UnmarshalUpdateConfig),
		registry.Register(&RegisterAsset{}, UnmarshalRegisterAsset),
		registry.Register(&UpdateAssetMetadata{}, UnmarshalUpdateAssetMetadata),
		registry.Register(&TransferAssetOwnership{}, UnmarshalTransferAssetOwnership),
	)
	return errs.Err
}
