// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/chaintesting"
	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/consts"
	"github.com/solimare/boatvm/derive"
	"github.com/solimare/boatvm/state"
	"github.com/solimare/boatvm/storage"
)

const (
	testTimestamp = int64(1_700_000_000)
	testFunds     = uint64(100_000_000_000)
	testPrice     = uint64(1_000_000_000)
)

var testTxID = ids.GenerateTestID()

func testAddress() codec.Address {
	return codec.CreateAddress(consts.ED25519ID, ids.GenerateTestID())
}

type fixture struct {
	store     *chaintesting.InMemoryStore
	authority codec.Address
	treasury  codec.Address
	config    codec.Address
	alice     codec.Address
	bob       codec.Address
}

// newFixture creates a config charging [feeBps] and funds alice.
func newFixture(t *testing.T, feeBps uint16) *fixture {
	require := require.New(t)
	ctx := context.Background()

	f := &fixture{
		store:     chaintesting.NewInMemoryStore(),
		authority: testAddress(),
		treasury:  testAddress(),
		alice:     testAddress(),
		bob:       testAddress(),
	}
	config, _, err := derive.Config(f.authority)
	require.NoError(err)
	f.config = config

	host := chaintesting.NewHost()
	require.NoError((&InitializeConfig{
		FeeBps:   feeBps,
		Treasury: f.treasury,
	}).Execute(ctx, host, f.store, testTimestamp, f.authority, ids.Empty))
	require.NoError(storage.SetBalance(ctx, f.store, f.alice, testFunds))
	return f
}

func (f *fixture) register(registrationNumber string) *RegisterAsset {
	return &RegisterAsset{
		Config:             f.config,
		Name:               "Sea Breeze",
		AssetType:          storage.AssetType{Kind: storage.Sailboat},
		Description:        "Classic 1960s sloop",
		RegistrationNumber: registrationNumber,
		YearBuilt:          1965,
		LengthFeet:         32,
		Manufacturer:       "Hinckley",
		Price:              testPrice,
		Treasury:           f.treasury,
	}
}

func (f *fixture) mint(t *testing.T, owner codec.Address, registrationNumber string) codec.Address {
	unit, _, err := derive.Mint(owner, registrationNumber)
	require.NoError(t, err)
	return unit
}

// mustRegister registers a boat for alice and returns its mint.
func (f *fixture) mustRegister(t *testing.T, registrationNumber string) codec.Address {
	require := require.New(t)
	ctx := context.Background()

	action := f.register(registrationNumber)
	require.NoError(action.Execute(ctx, chaintesting.NewHost(), f.store, testTimestamp, f.alice, ids.Empty))
	return f.mint(t, f.alice, registrationNumber)
}

func (f *fixture) record(t *testing.T, mint codec.Address) *storage.AssetRecord {
	_, rec, err := loadRecord(context.Background(), f.store, mint)
	require.NoError(t, err)
	return rec
}

func balance(t *testing.T, im state.Immutable, addr codec.Address) uint64 {
	bal, err := storage.GetBalance(context.Background(), im, addr)
	require.NoError(t, err)
	return bal
}

func unitBalance(t *testing.T, im state.Immutable, unit codec.Address, owner codec.Address) uint64 {
	bal, err := storage.GetUnitBalance(context.Background(), im, unit, owner)
	require.NoError(t, err)
	return bal
}

func TestRegistryCoversAllActions(t *testing.T) {
	require := require.New(t)

	registry := codec.NewTypeParser[chain.Action]()
	require.NoError(Register(registry))
	for _, id := range []uint8{
		InitializeConfigID,
		UpdateConfigID,
		RegisterAssetID,
		UpdateAssetMetadataID,
		TransferAssetOwnershipID,
	} {
		_, ok := registry.LookupIndex(id)
		require.True(ok, "action %d", id)
	}
	require.Error(Register(registry))
}

func TestActionCodec(t *testing.T) {
	require := require.New(t)

	registry := codec.NewTypeParser[chain.Action]()
	require.NoError(Register(registry))

	desc := "Freshly painted"
	forSale := true
	for _, action := range []chain.Action{
		&InitializeConfig{FeeBps: 250, Treasury: testAddress()},
		&UpdateConfig{Config: testAddress(), IsPaused: &forSale},
		(&fixture{config: testAddress(), treasury: testAddress()}).register("WA-1234"),
		&RegisterAsset{
			Config:    testAddress(),
			Name:      "Skiff",
			AssetType: storage.OtherType("Houseboat"),
			Price:     1,
			Treasury:  testAddress(),
		},
		&UpdateAssetMetadata{Config: testAddress(), Mint: testAddress(), Description: &desc, IsForSale: &forSale},
		&UpdateAssetMetadata{Config: testAddress(), Mint: testAddress()},
		&TransferAssetOwnership{Mint: testAddress(), To: testAddress()},
	} {
		p := codec.NewWriter(action.Size(), consts.NetworkSizeLimit)
		p.PackByte(action.GetTypeID())
		action.Marshal(p)
		require.NoError(p.Err())

		parsed, err := registry.Unmarshal(codec.NewReader(p.Bytes(), consts.NetworkSizeLimit))
		require.NoError(err)
		require.Equal(action, parsed)
	}
}
