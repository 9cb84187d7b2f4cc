// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/consts"
	"github.com/solimare/boatvm/derive"
	"github.com/solimare/boatvm/fees"
	"github.com/solimare/boatvm/state"
	"github.com/solimare/boatvm/storage"
)

var _ chain.Action = (*RegisterAsset)(nil)

// RegisterAsset issues the ownership unit of a boat to the actor and
// creates its record. A protocol fee proportional to [Price] is paid to
// the treasury; the price itself is only declared.
type RegisterAsset struct {
	Config codec.Address `json:"config"`

	Name               string            `json:"name"`
	AssetType          storage.AssetType `json:"assetType"`
	Description        string            `json:"description"`
	RegistrationNumber string            `json:"registrationNumber"`
	YearBuilt          uint16            `json:"yearBuilt"`
	LengthFeet         uint32            `json:"lengthFeet"`
	Manufacturer       string            `json:"manufacturer"`

	// Price is the declared value the fee is computed from.
	Price uint64 `json:"price"`

	// Treasury must match the treasury of [Config].
	Treasury codec.Address `json:"treasury"`
}

func (*RegisterAsset) GetTypeID() uint8 {
	return RegisterAssetID
}

func (r *RegisterAsset) StateKeys(actor codec.Address) state.Keys {
	keys := state.Keys{
		string(storage.ConfigKey(r.Config)):   state.Read,
		string(storage.BalanceKey(actor)):     state.Write,
		string(storage.BalanceKey(r.Treasury)): state.Allocate | state.Write,
	}
	unit, _, err := derive.Mint(actor, r.RegistrationNumber)
	if err != nil {
		return keys
	}
	keys.Add(string(storage.UnitInfoKey(unit)), state.Allocate)
	keys.Add(string(storage.UnitBalanceKey(unit, actor)), state.Allocate|state.Write)
	if record, err := recordAddress(unit); err == nil {
		keys.Add(string(storage.AssetKey(record)), state.Allocate)
	}
	return keys
}

func (r *RegisterAsset) verify(cfg *storage.ProtocolConfig) error {
	switch {
	case !cfg.AcceptsRegistrations():
		return ErrConfigInactive
	case len(r.Name) > storage.MaxNameLen:
		return ErrNameTooLong
	case len(r.Description) > storage.MaxDescriptionLen:
		return ErrDescriptionTooLong
	case len(r.RegistrationNumber) > storage.MaxRegistrationNumberLen:
		return ErrRegistrationTooLong
	case len(r.Manufacturer) > storage.MaxManufacturerLen:
		return ErrManufacturerTooLong
	case r.YearBuilt <= MinYearBuilt || r.YearBuilt > MaxYearBuilt:
		return ErrInvalidYear
	case r.LengthFeet == 0 || r.LengthFeet > MaxLengthFeet:
		return ErrInvalidLength
	case r.Price == 0:
		return ErrInvalidAmount
	}
	return r.AssetType.Verify()
}

func (r *RegisterAsset) Execute(
	ctx context.Context,
	host chain.Host,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
	_ ids.ID,
) error {
	cfg, err := loadConfig(ctx, mu, r.Config)
	if err != nil {
		return err
	}
	if err := r.verify(cfg); err != nil {
		return err
	}
	fee, err := fees.ProtocolFee(r.Price, cfg.FeeBps)
	if err != nil {
		return err
	}
	if r.Treasury != cfg.Treasury {
		return ErrInvalidTreasury
	}

	unit, _, err := derive.Mint(actor, r.RegistrationNumber)
	if err != nil {
		return err
	}
	if fee > 0 {
		if err := host.Currency().Transfer(ctx, mu, actor, r.Treasury, fee); err != nil {
			return fmt.Errorf("%w: %w", ErrInsufficientFunds, err)
		}
		host.Emit(&FeeCollected{
			Mint:   unit,
			Payer:  actor,
			Amount: fee,
		})
	}
	if err := host.Units().Issue(ctx, mu, unit, actor); err != nil {
		return err
	}

	addr, nonce, err := derive.Boat(unit)
	if err != nil {
		return err
	}
	if err := storage.CreateAsset(ctx, mu, addr, &storage.AssetRecord{
		AddressNonce:        nonce,
		OwnershipUnit:       unit,
		Owner:               actor,
		Name:                r.Name,
		Description:         r.Description,
		RegistrationNumber:  r.RegistrationNumber,
		Manufacturer:        r.Manufacturer,
		AssetType:           r.AssetType,
		YearBuilt:           r.YearBuilt,
		LengthFeet:          r.LengthFeet,
		LastMaintenanceDate: timestamp,
		IsForSale:           false,
		CreatedAt:           timestamp,
	}); err != nil {
		return err
	}
	host.Emit(&BoatMinted{
		Mint:               unit,
		Owner:              actor,
		BoatName:           r.Name,
		AssetType:          r.AssetType,
		RegistrationNumber: r.RegistrationNumber,
		Price:              r.Price,
		Fee:                fee,
	})
	return nil
}

func (r *RegisterAsset) Size() int {
	return codec.AddressLen +
		codec.StringLen(r.Name) +
		r.AssetType.Size() +
		codec.StringLen(r.Description) +
		codec.StringLen(r.RegistrationNumber) +
		consts.Uint16Len + consts.Uint32Len +
		codec.StringLen(r.Manufacturer) +
		consts.Uint64Len + codec.AddressLen
}

func (r *RegisterAsset) Marshal(p *codec.Packer) {
	p.PackAddress(r.Config)
	p.PackString(r.Name)
	r.AssetType.Marshal(p)
	p.PackString(r.Description)
	p.PackString(r.RegistrationNumber)
	p.PackUint16(r.YearBuilt)
	p.PackUint32(r.LengthFeet)
	p.PackString(r.Manufacturer)
	p.PackUint64(r.Price)
	p.PackAddress(r.Treasury)
}

func UnmarshalRegisterAsset(p *codec.Packer) (chain.Action, error) {
	var register RegisterAsset
	p.UnpackAddress(true, &register.Config)
	register.Name = p.UnpackString(maxStringSize, false)
	register.AssetType = storage.UnmarshalAssetType(p)
	register.Description = p.UnpackString(maxStringSize, false)
	register.RegistrationNumber = p.UnpackString(maxStringSize, false)
	register.YearBuilt = p.UnpackUint16()
	register.LengthFeet = p.UnpackUint32()
	register.Manufacturer = p.UnpackString(maxStringSize, false)
	register.Price = p.UnpackUint64(false)
	p.UnpackAddress(false, &register.Treasury)
	return &register, p.Err()
}
