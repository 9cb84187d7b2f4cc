// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/derive"
	"github.com/solimare/boatvm/state"
	"github.com/solimare/boatvm/storage"
)

// maxStringSize bounds strings on the wire. Field limits are enforced
// during execution so oversized values fail with their own error.
const maxStringSize = 1024

// loadConfig reads the config at [addr] and checks that it is the one
// derived for its authority.
func loadConfig(ctx context.Context, im state.Immutable, addr codec.Address) (*storage.ProtocolConfig, error) {
	cfg, err := storage.GetConfig(ctx, im, addr)
	if err != nil {
		return nil, err
	}
	if err := derive.Verify(addr, cfg.AddressNonce, derive.ConfigTag, cfg.Authority[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrConfigNotFound, err)
	}
	return cfg, nil
}

// recordAddress is where the record of [mint] lives. An error means no
// record can exist for it.
func recordAddress(mint codec.Address) (codec.Address, error) {
	addr, _, err := derive.Boat(mint)
	return addr, err
}

// loadRecord reads the record of [mint], mapping every way the record can
// be missing or not belong to [mint] to [ErrInvalidMint].
func loadRecord(ctx context.Context, im state.Immutable, mint codec.Address) (codec.Address, *storage.AssetRecord, error) {
	addr, err := recordAddress(mint)
	if err != nil {
		return codec.EmptyAddress, nil, fmt.Errorf("%w: %w", ErrInvalidMint, err)
	}
	rec, err := storage.GetAsset(ctx, im, addr)
	if errors.Is(err, storage.ErrAssetNotFound) {
		return codec.EmptyAddress, nil, fmt.Errorf("%w: %w", ErrInvalidMint, err)
	}
	if err != nil {
		return codec.EmptyAddress, nil, err
	}
	if rec.OwnershipUnit != mint {
		return codec.EmptyAddress, nil, fmt.Errorf("%w: record belongs to %s", ErrInvalidMint, rec.OwnershipUnit)
	}
	if err := derive.Verify(addr, rec.AddressNonce, derive.BoatTag, mint[:]); err != nil {
		return codec.EmptyAddress, nil, fmt.Errorf("%w: %w", ErrInvalidMint, err)
	}
	return addr, rec, nil
}
