// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/consts"
	"github.com/solimare/boatvm/derive"
	"github.com/solimare/boatvm/state"
	"github.com/solimare/boatvm/storage"
)

var _ chain.Action = (*InitializeConfig)(nil)

// InitializeConfig creates the config owned by the actor. Each actor can
// create exactly one.
type InitializeConfig struct {
	// FeeBps is charged on the declared price of every registration.
	// 250 = 2.5%.
	FeeBps uint16 `json:"feeBps"`

	// Treasury receives the fees.
	Treasury codec.Address `json:"treasury"`
}

func (*InitializeConfig) GetTypeID() uint8 {
	return InitializeConfigID
}

func (*InitializeConfig) StateKeys(actor codec.Address) state.Keys {
	keys := state.Keys{}
	if addr, _, err := derive.Config(actor); err == nil {
		keys.Add(string(storage.ConfigKey(addr)), state.Allocate|state.Write)
	}
	return keys
}

func (i *InitializeConfig) Execute(
	ctx context.Context,
	host chain.Host,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) error {
	addr, nonce, err := derive.Config(actor)
	if err != nil {
		return err
	}
	if err := storage.CreateConfig(ctx, mu, addr, &storage.ProtocolConfig{
		AddressNonce: nonce,
		Authority:    actor,
		IsActive:     true,
		IsPaused:     false,
		FeeBps:       i.FeeBps,
		Treasury:     i.Treasury,
		Version:      storage.ConfigVersion,
	}); err != nil {
		return err
	}
	host.Emit(&ConfigInitialized{
		Config:    addr,
		Authority: actor,
		FeeBps:    i.FeeBps,
		Treasury:  i.Treasury,
	})
	return nil
}

func (*InitializeConfig) Size() int {
	return consts.Uint16Len + codec.AddressLen
}

func (i *InitializeConfig) Marshal(p *codec.Packer) {
	p.PackUint16(i.FeeBps)
	p.PackAddress(i.Treasury)
}

func UnmarshalInitializeConfig(p *codec.Packer) (chain.Action, error) {
	var init InitializeConfig
	init.FeeBps = p.UnpackUint16()
	p.UnpackAddress(false, &init.Treasury)
	return &init, p.Err()
}
