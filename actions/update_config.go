// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/consts"
	"github.com/solimare/boatvm/state"
	"github.com/solimare/boatvm/storage"
)

var _ chain.Action = (*UpdateConfig)(nil)

// UpdateConfig changes the fee schedule or switches of a config. Only its
// authority may do so. Nil fields are left unchanged.
type UpdateConfig struct {
	Config codec.Address `json:"config"`

	FeeBps   *uint16        `json:"feeBps,omitempty"`
	Treasury *codec.Address `json:"treasury,omitempty"`
	IsActive *bool          `json:"isActive,omitempty"`
	IsPaused *bool          `json:"isPaused,omitempty"`
}

func (*UpdateConfig) GetTypeID() uint8 {
	return UpdateConfigID
}

func (u *UpdateConfig) StateKeys(codec.Address) state.Keys {
	return state.Keys{
		string(storage.ConfigKey(u.Config)): state.Write,
	}
}

func (u *UpdateConfig) Execute(
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
	if cfg.Authority != actor {
		return ErrUnauthorized
	}
	if u.FeeBps == nil && u.Treasury == nil && u.IsActive == nil && u.IsPaused == nil {
		return ErrNoChanges
	}
	if u.FeeBps != nil {
		cfg.FeeBps = *u.FeeBps
	}
	if u.Treasury != nil {
		cfg.Treasury = *u.Treasury
	}
	if u.IsActive != nil {
		cfg.IsActive = *u.IsActive
	}
	if u.IsPaused != nil {
		cfg.IsPaused = *u.IsPaused
	}
	if err := storage.PutConfig(ctx, mu, u.Config, cfg); err != nil {
		return err
	}
	host.Emit(&ConfigUpdated{
		Config:   u.Config,
		FeeBps:   cfg.FeeBps,
		Treasury: cfg.Treasury,
		IsActive: cfg.IsActive,
		IsPaused: cfg.IsPaused,
	})
	return nil
}

func (*UpdateConfig) Size() int {
	return codec.AddressLen + consts.Uint64Len + consts.Uint16Len + codec.AddressLen + 2*consts.BoolLen
}

func (u *UpdateConfig) Marshal(p *codec.Packer) {
	p.PackAddress(u.Config)
	op := codec.NewOptionalWriter(u.Size(), u.Size())
	op.PackUint16(u.FeeBps)
	op.PackAddress(u.Treasury)
	op.PackBool(u.IsActive)
	op.PackBool(u.IsPaused)
	p.PackOptional(op)
}

func UnmarshalUpdateConfig(p *codec.Packer) (chain.Action, error) {
	var update UpdateConfig
	p.UnpackAddress(true, &update.Config)
	op := p.NewOptionalReader()
	update.FeeBps = op.UnpackUint16()
	update.Treasury = op.UnpackAddress()
	update.IsActive = op.UnpackBool()
	update.IsPaused = op.UnpackBool()
	return &update, p.Err()
}
