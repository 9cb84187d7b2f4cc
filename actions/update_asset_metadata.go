// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"strconv"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/consts"
	"github.com/solimare/boatvm/state"
	"github.com/solimare/boatvm/storage"
)

var _ chain.Action = (*UpdateAssetMetadata)(nil)

// UpdateAssetMetadata lets the holder of a boat edit the mutable part of
// its record. Nil fields are left unchanged.
type UpdateAssetMetadata struct {
	Config codec.Address `json:"config"`
	Mint   codec.Address `json:"mint"`

	Description         *string `json:"description,omitempty"`
	LastMaintenanceDate *int64  `json:"lastMaintenanceDate,omitempty"`
	IsForSale           *bool   `json:"isForSale,omitempty"`
}

func (*UpdateAssetMetadata) GetTypeID() uint8 {
	return UpdateAssetMetadataID
}

func (u *UpdateAssetMetadata) StateKeys(actor codec.Address) state.Keys {
	keys := state.Keys{
		string(storage.ConfigKey(u.Config)):             state.Read,
		string(storage.UnitBalanceKey(u.Mint, actor)): state.Read,
	}
	if record, err := recordAddress(u.Mint); err == nil {
		keys.Add(string(storage.AssetKey(record)), state.Write)
	}
	return keys
}

func (u *UpdateAssetMetadata) Execute(
	ctx context.Context,
	host chain.Host,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) error {
	cfg, err := loadConfig(ctx, mu, u.Config)
	if err != nil {
		return err
	}
	if !cfg.AcceptsRegistrations() {
		return ErrConfigInactive
	}
	addr, rec, err := loadRecord(ctx, mu, u.Mint)
	if err != nil {
		return err
	}
	if rec.Owner != actor {
		return ErrUnauthorized
	}
	bal, err := host.Units().BalanceOf(ctx, mu, u.Mint, actor)
	if err != nil {
		return err
	}
	if bal != 1 {
		return ErrInsufficientFunds
	}
	if u.Description != nil && len(*u.Description) > storage.MaxDescriptionLen {
		return ErrDescriptionTooLong
	}

	if u.Description == nil && u.LastMaintenanceDate == nil && u.IsForSale == nil {
		return nil
	}
	if u.Description != nil {
		rec.Description = *u.Description
		host.Emit(&MetadataUpdated{
			Mint:     u.Mint,
			Field:    DescriptionField,
			NewValue: *u.Description,
		})
	}
	if u.LastMaintenanceDate != nil {
		rec.LastMaintenanceDate = *u.LastMaintenanceDate
		host.Emit(&MetadataUpdated{
			Mint:     u.Mint,
			Field:    LastMaintenanceDateField,
			NewValue: strconv.FormatInt(*u.LastMaintenanceDate, 10),
		})
	}
	if u.IsForSale != nil {
		rec.IsForSale = *u.IsForSale
		host.Emit(&MetadataUpdated{
			Mint:     u.Mint,
			Field:    IsForSaleField,
			NewValue: strconv.FormatBool(*u.IsForSale),
		})
	}
	return storage.PutAsset(ctx, mu, addr, rec)
}

func (u *UpdateAssetMetadata) Size() int {
	size := 2*codec.AddressLen + consts.Uint64Len
	if u.Description != nil {
		size += codec.StringLen(*u.Description)
	}
	if u.LastMaintenanceDate != nil {
		size += consts.Int64Len
	}
	if u.IsForSale != nil {
		size += consts.BoolLen
	}
	return size
}

func (u *UpdateAssetMetadata) Marshal(p *codec.Packer) {
	p.PackAddress(u.Config)
	p.PackAddress(u.Mint)
	op := codec.NewOptionalWriter(u.Size(), consts.NetworkSizeLimit)
	op.PackString(u.Description)
	op.PackInt64(u.LastMaintenanceDate)
	op.PackBool(u.IsForSale)
	p.PackOptional(op)
}

func UnmarshalUpdateAssetMetadata(p *codec.Packer) (chain.Action, error) {
	var update UpdateAssetMetadata
	p.UnpackAddress(true, &update.Config)
	p.UnpackAddress(true, &update.Mint)
	op := p.NewOptionalReader()
	update.Description = op.UnpackString(maxStringSize)
	update.LastMaintenanceDate = op.UnpackInt64()
	update.IsForSale = op.UnpackBool()
	return &update, p.Err()
}
