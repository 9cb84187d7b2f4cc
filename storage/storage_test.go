// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/consts"
	"github.com/solimare/boatvm/keys"
	"github.com/solimare/boatvm/state"
	"github.com/solimare/boatvm/tstate"
)

func testAddress() codec.Address {
	return codec.CreateAddress(consts.ED25519ID, ids.GenerateTestID())
}

func allKeys(ks ...[]byte) state.Keys {
	s := state.Keys{}
	for _, k := range ks {
		s.Add(string(k), state.All)
	}
	return s
}

func TestKeysCarryChunks(t *testing.T) {
	require := require.New(t)

	addr := testAddress()
	txID := ids.GenerateTestID()
	for k, want := range map[string]uint16{
		string(BalanceKey(addr)):           BalanceChunks,
		string(ConfigKey(addr)):            ConfigChunks,
		string(AssetKey(addr)):             AssetChunks,
		string(UnitInfoKey(addr)):          UnitInfoChunks,
		string(UnitBalanceKey(addr, addr)): UnitBalanceChunks,
		string(TxKey(txID)):                TxChunks,
	} {
		got, ok := keys.MaxChunks([]byte(k))
		require.True(ok)
		require.Equal(want, got)
	}
	require.Equal(keys.ChunksFor(configSize), ConfigChunks)
	require.Equal(keys.ChunksFor(maxAssetSize), AssetChunks)
	require.Less(configSize, int(ConfigChunks)*64+1)
	require.Less(maxAssetSize, int(AssetChunks)*64+1)

	// The suffix is the same one keys.EncodeChunks writes.
	require.Equal(keys.EncodeChunks(append([]byte{assetPrefix}, addr[:]...), AssetChunks), AssetKey(addr))
}

func TestConfigCreateOnce(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	addr := testAddress()
	view := tstate.NewView(allKeys(ConfigKey(addr)), map[string][]byte{})

	_, err := GetConfig(ctx, view, addr)
	require.ErrorIs(err, ErrConfigNotFound)

	cfg := &ProtocolConfig{
		AddressNonce: 254,
		Authority:    testAddress(),
		IsActive:     true,
		FeeBps:       250,
		Treasury:     testAddress(),
		Version:      ConfigVersion,
	}
	require.NoError(CreateConfig(ctx, view, addr, cfg))
	require.ErrorIs(CreateConfig(ctx, view, addr, cfg), ErrAddressInUse)

	got, err := GetConfig(ctx, view, addr)
	require.NoError(err)
	require.Equal(cfg, got)
	require.True(got.AcceptsRegistrations())
	got.IsPaused = true
	require.False(got.AcceptsRegistrations())
}

func TestAssetRoundTrip(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	addr := testAddress()
	view := tstate.NewView(allKeys(AssetKey(addr)), map[string][]byte{})

	_, err := GetAsset(ctx, view, addr)
	require.ErrorIs(err, ErrAssetNotFound)

	// A record with every string at its bound must still fit its key.
	r := &AssetRecord{
		AddressNonce:        255,
		OwnershipUnit:       testAddress(),
		Owner:               testAddress(),
		Name:                strings.Repeat("n", MaxNameLen),
		Description:         strings.Repeat("d", MaxDescriptionLen),
		RegistrationNumber:  strings.Repeat("r", MaxRegistrationNumberLen),
		Manufacturer:        strings.Repeat("m", MaxManufacturerLen),
		AssetType:           OtherType(strings.Repeat("o", MaxAssetTypeLabel)),
		YearBuilt:           2030,
		LengthFeet:          1000,
		LastMaintenanceDate: 1_700_000_000,
		IsForSale:           true,
		CreatedAt:           1_700_000_000,
	}
	require.NoError(CreateAsset(ctx, view, addr, r))
	require.ErrorIs(CreateAsset(ctx, view, addr, r), ErrAddressInUse)

	got, err := GetAsset(ctx, view, addr)
	require.NoError(err)
	require.Equal(r, got)
}

func TestAssetType(t *testing.T) {
	require := require.New(t)

	for _, s := range []string{"sailboat", "motorboat", "yacht", "catamaran", "other:houseboat", "other:"} {
		at, err := ParseAssetType(s)
		require.NoError(err)
		require.Equal(s, at.String())
	}
	at, err := ParseAssetType("Yacht")
	require.NoError(err)
	require.Equal(AssetType{Kind: Yacht}, at)

	_, err = ParseAssetType("submarine")
	require.ErrorIs(err, ErrUnknownAssetType)
	_, err = ParseAssetType("other:" + strings.Repeat("x", MaxAssetTypeLabel+1))
	require.ErrorIs(err, ErrAssetTypeTooLong)
	require.ErrorIs(AssetType{Kind: Yacht, Label: "x"}.Verify(), ErrUnknownAssetType)
	require.ErrorIs(AssetType{Kind: 9}.Verify(), ErrUnknownAssetType)
}

func TestBalances(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	addr := testAddress()
	unit := testAddress()
	view := tstate.NewView(
		allKeys(BalanceKey(addr), UnitInfoKey(unit), UnitBalanceKey(unit, addr)),
		map[string][]byte{},
	)

	bal, err := GetBalance(ctx, view, addr)
	require.NoError(err)
	require.Zero(bal)
	require.NoError(AddBalance(ctx, view, addr, 10))
	require.NoError(AddBalance(ctx, view, addr, 5))
	bal, err = GetBalance(ctx, view, addr)
	require.NoError(err)
	require.Equal(uint64(15), bal)

	// Zero balances are removed from state.
	require.NoError(SetBalance(ctx, view, addr, 0))
	_, err = view.GetValue(ctx, BalanceKey(addr))
	require.Error(err)

	_, ok, err := GetUnitSupply(ctx, view, unit)
	require.NoError(err)
	require.False(ok)
	require.NoError(SetUnitSupply(ctx, view, unit, 1))
	supply, ok, err := GetUnitSupply(ctx, view, unit)
	require.NoError(err)
	require.True(ok)
	require.Equal(uint64(1), supply)

	require.NoError(SetUnitBalance(ctx, view, unit, addr, 1))
	ub, err := GetUnitBalance(ctx, view, unit, addr)
	require.NoError(err)
	require.Equal(uint64(1), ub)
}

func TestTransactions(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	id := ids.GenerateTestID()
	view := tstate.NewView(allKeys(TxKey(id)), map[string][]byte{})
	ok, err := HasTransaction(ctx, view, id)
	require.NoError(err)
	require.False(ok)
	require.NoError(StoreTransaction(ctx, view, id, 1000))
	ok, err = HasTransaction(ctx, view, id)
	require.NoError(err)
	require.True(ok)
}

func TestListAssets(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	alice, bob := testAddress(), testAddress()
	addrs := []codec.Address{testAddress(), testAddress(), testAddress()}
	owners := []codec.Address{alice, bob, alice}
	balance := BalanceKey(alice)

	ks := allKeys(balance)
	for _, addr := range addrs {
		ks.Add(string(AssetKey(addr)), state.All)
	}
	view := tstate.NewView(ks, map[string][]byte{})
	for i, addr := range addrs {
		require.NoError(CreateAsset(ctx, view, addr, &AssetRecord{
			OwnershipUnit: testAddress(),
			Owner:         owners[i],
			Name:          "boat",
			CreatedAt:     int64(i),
		}))
	}
	// Other prefixes are not walked.
	require.NoError(SetBalance(ctx, view, alice, 10))

	db := memdb.New()
	batch := db.NewBatch()
	require.NoError(view.WriteTo(batch))
	require.NoError(batch.Write())

	all, err := ListAssets(db, nil)
	require.NoError(err)
	require.Len(all, 3)

	owned, err := ListAssets(db, &alice)
	require.NoError(err)
	require.Len(owned, 2)
	for _, e := range owned {
		require.Equal(alice, e.Record.Owner)
		r, err := GetAsset(ctx, state.NewReader(db), e.Address)
		require.NoError(err)
		require.Equal(e.Record, r)
	}
}
