// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/consts"
	"github.com/solimare/boatvm/keys"
	"github.com/solimare/boatvm/state"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// State
// 0x0/ (balance)
//   -> [owner] => balance
// 0x1/ (config)
//   -> [config address] => ProtocolConfig
// 0x2/ (asset)
//   -> [record address] => AssetRecord
// 0x3/ (unit info)
//   -> [unit] => supply
// 0x4/ (unit balance)
//   -> [unit|owner] => balance
// 0x5/ (tx)
//   -> [txID] => timestamp

const (
	balancePrefix byte = iota
	configPrefix
	assetPrefix
	unitInfoPrefix
	unitBalancePrefix
	txPrefix
)

const (
	BalanceChunks     uint16 = 1
	UnitInfoChunks    uint16 = 1
	UnitBalanceChunks uint16 = 1
	TxChunks          uint16 = 1
)

// Variable-size records are budgeted from their largest encoding.
var (
	ConfigChunks = keys.ChunksFor(configSize)
	AssetChunks  = keys.ChunksFor(maxAssetSize)
)

func prefixedKey(prefix byte, chunks uint16, parts ...[]byte) []byte {
	size := 1 + consts.Uint16Len
	for _, p := range parts {
		size += len(p)
	}
	k := make([]byte, 1, size)
	k[0] = prefix
	for _, p := range parts {
		k = append(k, p...)
	}
	return keys.EncodeChunks(k, chunks)
}

// [balancePrefix] + [address]
func BalanceKey(addr codec.Address) []byte {
	return prefixedKey(balancePrefix, BalanceChunks, addr[:])
}

// [configPrefix] + [config address]
func ConfigKey(addr codec.Address) []byte {
	return prefixedKey(configPrefix, ConfigChunks, addr[:])
}

// [assetPrefix] + [record address]
func AssetKey(addr codec.Address) []byte {
	return prefixedKey(assetPrefix, AssetChunks, addr[:])
}

// [unitInfoPrefix] + [unit]
func UnitInfoKey(unit codec.Address) []byte {
	return prefixedKey(unitInfoPrefix, UnitInfoChunks, unit[:])
}

// [unitBalancePrefix] + [unit] + [owner]
func UnitBalanceKey(unit codec.Address, owner codec.Address) []byte {
	return prefixedKey(unitBalancePrefix, UnitBalanceChunks, unit[:], owner[:])
}

// [txPrefix] + [txID]
func TxKey(id ids.ID) []byte {
	return prefixedKey(txPrefix, TxChunks, id[:])
}

func getUint64(ctx context.Context, im state.Immutable, k []byte) (uint64, bool, error) {
	v, err := im.GetValue(ctx, k)
	if errors.Is(err, database.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if len(v) != consts.Uint64Len {
		return 0, false, ErrInvalidEncoding
	}
	return binary.BigEndian.Uint64(v), true, nil
}

// setUint64 stores [v] under [k], removing the key when [v] is zero.
func setUint64(ctx context.Context, mu state.Mutable, k []byte, v uint64) error {
	if v == 0 {
		return mu.Remove(ctx, k)
	}
	b := make([]byte, consts.Uint64Len)
	binary.BigEndian.PutUint64(b, v)
	return mu.Insert(ctx, k, b)
}

func GetBalance(ctx context.Context, im state.Immutable, addr codec.Address) (uint64, error) {
	bal, _, err := getUint64(ctx, im, BalanceKey(addr))
	return bal, err
}

func SetBalance(ctx context.Context, mu state.Mutable, addr codec.Address, balance uint64) error {
	return setUint64(ctx, mu, BalanceKey(addr), balance)
}

func AddBalance(ctx context.Context, mu state.Mutable, addr codec.Address, amount uint64) error {
	bal, err := GetBalance(ctx, mu, addr)
	if err != nil {
		return err
	}
	nbal, err := smath.Add(bal, amount)
	if err != nil {
		return err
	}
	return SetBalance(ctx, mu, addr, nbal)
}

// GetUnitSupply returns the supply of [unit] and whether it was ever issued.
func GetUnitSupply(ctx context.Context, im state.Immutable, unit codec.Address) (uint64, bool, error) {
	return getUint64(ctx, im, UnitInfoKey(unit))
}

func SetUnitSupply(ctx context.Context, mu state.Mutable, unit codec.Address, supply uint64) error {
	b := make([]byte, consts.Uint64Len)
	binary.BigEndian.PutUint64(b, supply)
	return mu.Insert(ctx, UnitInfoKey(unit), b)
}

func GetUnitBalance(ctx context.Context, im state.Immutable, unit codec.Address, owner codec.Address) (uint64, error) {
	bal, _, err := getUint64(ctx, im, UnitBalanceKey(unit, owner))
	return bal, err
}

func SetUnitBalance(ctx context.Context, mu state.Mutable, unit codec.Address, owner codec.Address, balance uint64) error {
	return setUint64(ctx, mu, UnitBalanceKey(unit, owner), balance)
}

// HasTransaction reports whether [id] was already accepted.
func HasTransaction(ctx context.Context, im state.Immutable, id ids.ID) (bool, error) {
	_, ok, err := getUint64(ctx, im, TxKey(id))
	return ok, err
}

// StoreTransaction records [id] as accepted at [timestamp].
func StoreTransaction(ctx context.Context, mu state.Mutable, id ids.ID, timestamp int64) error {
	b := make([]byte, consts.Uint64Len)
	binary.BigEndian.PutUint64(b, uint64(timestamp))
	return mu.Insert(ctx, TxKey(id), b)
}
