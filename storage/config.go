// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"

	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/consts"
	"github.com/solimare/boatvm/state"
)

const (
	ConfigVersion uint8 = 1

	configSize = consts.Uint8Len + codec.AddressLen + 2*consts.BoolLen +
		consts.Uint16Len + codec.AddressLen + consts.Uint8Len
)

// ProtocolConfig holds the fee schedule and switches of one registry
// authority.
type ProtocolConfig struct {
	AddressNonce uint8         `json:"addressNonce"`
	Authority    codec.Address `json:"authority"`
	IsActive     bool          `json:"isActive"`
	IsPaused     bool          `json:"isPaused"`
	FeeBps       uint16        `json:"feeBps"`
	Treasury     codec.Address `json:"treasury"`
	Version      uint8         `json:"version"`
}

// AcceptsRegistrations reports whether new assets may be registered or
// edited under this config.
func (c *ProtocolConfig) AcceptsRegistrations() bool {
	return c.IsActive && !c.IsPaused
}

func (c *ProtocolConfig) Marshal(p *codec.Packer) {
	p.PackByte(c.AddressNonce)
	p.PackAddress(c.Authority)
	p.PackBool(c.IsActive)
	p.PackBool(c.IsPaused)
	p.PackUint16(c.FeeBps)
	p.PackAddress(c.Treasury)
	p.PackByte(c.Version)
}

func UnmarshalConfig(b []byte) (*ProtocolConfig, error) {
	p := codec.NewReader(b, configSize)
	var c ProtocolConfig
	c.AddressNonce = p.UnpackByte()
	p.UnpackAddress(true, &c.Authority)
	c.IsActive = p.UnpackBool()
	c.IsPaused = p.UnpackBool()
	c.FeeBps = p.UnpackUint16()
	p.UnpackAddress(false, &c.Treasury)
	c.Version = p.UnpackByte()
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, codec.ErrExtraBytes
	}
	return &c, nil
}

// GetConfig loads the config stored at [addr].
func GetConfig(ctx context.Context, im state.Immutable, addr codec.Address) (*ProtocolConfig, error) {
	v, err := im.GetValue(ctx, ConfigKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, err
	}
	return UnmarshalConfig(v)
}

func PutConfig(ctx context.Context, mu state.Mutable, addr codec.Address, c *ProtocolConfig) error {
	p := codec.NewWriter(configSize, configSize)
	c.Marshal(p)
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, ConfigKey(addr), p.Bytes())
}

// CreateConfig stores [c] at [addr] only if nothing lives there yet.
func CreateConfig(ctx context.Context, mu state.Mutable, addr codec.Address, c *ProtocolConfig) error {
	_, err := mu.GetValue(ctx, ConfigKey(addr))
	switch {
	case err == nil:
		return ErrAddressInUse
	case !errors.Is(err, database.ErrNotFound):
		return err
	}
	return PutConfig(ctx, mu, addr, c)
}
