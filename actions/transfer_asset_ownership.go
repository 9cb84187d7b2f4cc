// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/state"
	"github.com/solimare/boatvm/storage"
)

var _ chain.Action = (*TransferAssetOwnership)(nil)

// TransferAssetOwnership hands a boat to [To]. It is allowed even while the
// registry is paused and takes the boat off the market.
type TransferAssetOwnership struct {
	Mint codec.Address `json:"mint"`
	To   codec.Address `json:"to"`
}

func (*TransferAssetOwnership) GetTypeID() uint8 {
	return TransferAssetOwnershipID
}

func (t *TransferAssetOwnership) StateKeys(actor codec.Address) state.Keys {
	keys := state.Keys{
		string(storage.UnitInfoKey(t.Mint)):           state.Read,
		string(storage.UnitBalanceKey(t.Mint, actor)): state.Write,
		string(storage.UnitBalanceKey(t.Mint, t.To)):  state.Allocate | state.Write,
	}
	if record, err := recordAddress(t.Mint); err == nil {
		keys.Add(string(storage.AssetKey(record)), state.Write)
	}
	return keys
}

func (t *TransferAssetOwnership) Execute(
	ctx context.Context,
	host chain.Host,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) error {
	addr, rec, err := loadRecord(ctx, mu, t.Mint)
	if err != nil {
		return err
	}
	if rec.Owner != actor {
		return ErrUnauthorized
	}
	bal, err := host.Units().BalanceOf(ctx, mu, t.Mint, actor)
	if err != nil {
		return err
	}
	if bal != 1 {
		return ErrInsufficientFunds
	}
	if t.To == codec.EmptyAddress {
		return ErrInvalidDestination
	}
	if err := host.Units().Transfer(ctx, mu, t.Mint, actor, t.To, 1); err != nil {
		return err
	}
	rec.Owner = t.To
	rec.IsForSale = false
	if err := storage.PutAsset(ctx, mu, addr, rec); err != nil {
		return err
	}
	host.Emit(&OwnershipTransferred{
		Mint: t.Mint,
		From: actor,
		To:   t.To,
	})
	return nil
}

func (*TransferAssetOwnership) Size() int {
	return 2 * codec.AddressLen
}

func (t *TransferAssetOwnership) Marshal(p *codec.Packer) {
	p.PackAddress(t.Mint)
	p.PackAddress(t.To)
}

func UnmarshalTransferAssetOwnership(p *codec.Packer) (chain.Action, error) {
	var transfer TransferAssetOwnership
	p.UnpackAddress(true, &transfer.Mint)
	p.UnpackAddress(false, &transfer.To)
	return &transfer, p.Err()
}
