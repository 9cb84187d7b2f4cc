// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/chaintesting"
	"github.com/solimare/boatvm/derive"
	"github.com/solimare/boatvm/ledger"
	"github.com/solimare/boatvm/ledger/ledgermock"
	"github.com/solimare/boatvm/state"
	"github.com/solimare/boatvm/storage"
)

func TestRegisterAsset(t *testing.T) {
	f := newFixture(t, 250)
	mint := f.mint(t, f.alice, "WA-1234")
	fee := uint64(25_000_000)

	chaintesting.ActionTests(context.Background(), t, []*chaintesting.ActionTest{
		{
			Name:      "ChargesFee",
			Action:    f.register("WA-1234"),
			State:     f.store,
			Timestamp: testTimestamp,
			Actor:     f.alice,
			ExpectedEvents: []chain.Event{
				&FeeCollected{Mint: mint, Payer: f.alice, Amount: fee},
				&BoatMinted{
					Mint:               mint,
					Owner:              f.alice,
					BoatName:           "Sea Breeze",
					AssetType:          storage.AssetType{Kind: storage.Sailboat},
					RegistrationNumber: "WA-1234",
					Price:              testPrice,
					Fee:                fee,
				},
			},
			Assertion: func(ctx context.Context, t *testing.T, im state.Mutable) {
				require := require.New(t)
				require.Equal(fee, balance(t, im, f.treasury))
				require.Equal(testFunds-fee, balance(t, im, f.alice))
				require.Equal(uint64(1), unitBalance(t, im, mint, f.alice))
				require.Zero(unitBalance(t, im, mint, f.bob))

				rec := f.record(t, mint)
				require.Equal(f.alice, rec.Owner)
				require.Equal(mint, rec.OwnershipUnit)
				require.Equal("Hinckley", rec.Manufacturer)
				require.Equal(uint16(1965), rec.YearBuilt)
				require.Equal(uint32(32), rec.LengthFeet)
				require.False(rec.IsForSale)
				require.Equal(testTimestamp, rec.CreatedAt)
				require.Equal(testTimestamp, rec.LastMaintenanceDate)
			},
		},
		{
			Name:        "Duplicate",
			Action:      f.register("WA-1234"),
			State:       f.store,
			Timestamp:   testTimestamp,
			Actor:       f.alice,
			ExpectedErr: ledger.ErrUnitExists,
			Assertion: func(_ context.Context, t *testing.T, im state.Mutable) {
				// The fee of the failed attempt is not kept.
				require.Equal(t, fee, balance(t, im, f.treasury))
				require.Equal(t, testFunds-fee, balance(t, im, f.alice))
			},
		},
		{
			// The same registration number belongs to a different unit for
			// a different owner.
			Name:        "NoFunds",
			Action:      f.register("WA-1234"),
			State:       f.store,
			Timestamp:   testTimestamp,
			Actor:       f.bob,
			ExpectedErr: ErrInsufficientFunds,
		},
		{
			Name:        "WrongTreasury",
			Action:      (&fixture{config: f.config, treasury: f.bob}).register("WA-9999"),
			State:       f.store,
			Timestamp:   testTimestamp,
			Actor:       f.alice,
			ExpectedErr: ErrInvalidTreasury,
		},
	})
}

func TestRegisterAssetZeroFee(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, 0)
	mint := f.mint(t, f.bob, "CA-42")

	// Bob holds no currency and the currency ledger must never be called.
	chaintesting.ActionTests(context.Background(), t, []*chaintesting.ActionTest{
		{
			Name:      "NoTransfer",
			Action:    f.register("CA-42"),
			State:     f.store,
			Timestamp: testTimestamp,
			Actor:     f.bob,
			Currency:  ledgermock.NewMockCurrency(ctrl),
			ExpectedEvents: []chain.Event{&BoatMinted{
				Mint:               mint,
				Owner:              f.bob,
				BoatName:           "Sea Breeze",
				AssetType:          storage.AssetType{Kind: storage.Sailboat},
				RegistrationNumber: "CA-42",
				Price:              testPrice,
			}},
			Assertion: func(_ context.Context, t *testing.T, im state.Mutable) {
				require.Zero(t, balance(t, im, f.treasury))
				require.Equal(t, uint64(1), unitBalance(t, im, mint, f.bob))
			},
		},
	})
}

func TestRegisterAssetTruncatesFee(t *testing.T) {
	f := newFixture(t, 1)
	action := f.register("TX-1")
	action.Price = 9_999
	mint := f.mint(t, f.alice, "TX-1")

	chaintesting.ActionTests(context.Background(), t, []*chaintesting.ActionTest{
		{
			Name:      "RoundsToZero",
			Action:    action,
			State:     f.store,
			Timestamp: testTimestamp,
			Actor:     f.alice,
			ExpectedEvents: []chain.Event{&BoatMinted{
				Mint:               mint,
				Owner:              f.alice,
				BoatName:           "Sea Breeze",
				AssetType:          storage.AssetType{Kind: storage.Sailboat},
				RegistrationNumber: "TX-1",
				Price:              9_999,
			}},
		},
	})
}

func TestRegisterAssetValidation(t *testing.T) {
	f := newFixture(t, 250)
	edit := func(regNum string, change func(*RegisterAsset)) *RegisterAsset {
		action := f.register(regNum)
		change(action)
		return action
	}
	tests := []struct {
		name   string
		action *RegisterAsset
		err    error
	}{
		{"Year1900", edit("Y1", func(r *RegisterAsset) { r.YearBuilt = 1900 }), ErrInvalidYear},
		{"Year1901", edit("Y2", func(r *RegisterAsset) { r.YearBuilt = 1901 }), nil},
		{"Year2030", edit("Y3", func(r *RegisterAsset) { r.YearBuilt = 2030 }), nil},
		{"Year2031", edit("Y4", func(r *RegisterAsset) { r.YearBuilt = 2031 }), ErrInvalidYear},
		{"Length0", edit("L1", func(r *RegisterAsset) { r.LengthFeet = 0 }), ErrInvalidLength},
		{"Length1", edit("L2", func(r *RegisterAsset) { r.LengthFeet = 1 }), nil},
		{"Length1000", edit("L3", func(r *RegisterAsset) { r.LengthFeet = 1000 }), nil},
		{"Length1001", edit("L4", func(r *RegisterAsset) { r.LengthFeet = 1001 }), ErrInvalidLength},
		{"Name50", edit("N1", func(r *RegisterAsset) { r.Name = strings.Repeat("n", 50) }), nil},
		{"Name51", edit("N2", func(r *RegisterAsset) { r.Name = strings.Repeat("n", 51) }), ErrNameTooLong},
		{"Description201", edit("D1", func(r *RegisterAsset) { r.Description = strings.Repeat("d", 201) }), ErrDescriptionTooLong},
		{"Registration31", edit(strings.Repeat("r", 31), func(*RegisterAsset) {}), ErrRegistrationTooLong},
		{"Manufacturer51", edit("M1", func(r *RegisterAsset) { r.Manufacturer = strings.Repeat("m", 51) }), ErrManufacturerTooLong},
		{"ZeroPrice", edit("P1", func(r *RegisterAsset) { r.Price = 0 }), ErrInvalidAmount},
		{"OtherType", edit("T1", func(r *RegisterAsset) { r.AssetType = storage.OtherType("Houseboat") }), nil},
		{"OtherTooLong", edit("T2", func(r *RegisterAsset) { r.AssetType = storage.OtherType(strings.Repeat("h", 31)) }), storage.ErrAssetTypeTooLong},
	}

	actionTests := make([]*chaintesting.ActionTest, 0, len(tests))
	for _, tt := range tests {
		tt := tt
		actionTests = append(actionTests, &chaintesting.ActionTest{
			Name:        tt.name,
			Action:      tt.action,
			State:       f.store,
			Timestamp:   testTimestamp,
			Actor:       f.alice,
			ExpectedEvents: func() []chain.Event {
				if tt.err != nil {
					return nil
				}
				mint := f.mint(t, f.alice, tt.action.RegistrationNumber)
				return []chain.Event{
					&FeeCollected{Mint: mint, Payer: f.alice, Amount: 25_000_000},
					&BoatMinted{
						Mint:               mint,
						Owner:              f.alice,
						BoatName:           tt.action.Name,
						AssetType:          tt.action.AssetType,
						RegistrationNumber: tt.action.RegistrationNumber,
						Price:              testPrice,
						Fee:                25_000_000,
					},
				}
			}(),
			ExpectedErr: tt.err,
		})
	}
	chaintesting.ActionTests(context.Background(), t, actionTests)
}

// A failure after the fee was moved leaves every balance as it was.
func TestRegisterAssetRollback(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, 250)
	errIssue := errors.New("issue failed")

	units := ledgermock.NewMockUnits(ctrl)
	units.EXPECT().Issue(gomock.Any(), gomock.Any(), f.mint(t, f.alice, "OR-7"), f.alice).Return(errIssue)

	chaintesting.ActionTests(context.Background(), t, []*chaintesting.ActionTest{
		{
			Name:        "IssueFails",
			Action:      f.register("OR-7"),
			State:       f.store,
			Timestamp:   testTimestamp,
			Actor:       f.alice,
			Units:       units,
			ExpectedErr: errIssue,
			Assertion: func(ctx context.Context, t *testing.T, im state.Mutable) {
				require := require.New(t)
				require.Equal(testFunds, balance(t, im, f.alice))
				require.Zero(balance(t, im, f.treasury))

				record, _, err := derive.Boat(f.mint(t, f.alice, "OR-7"))
				require.NoError(err)
				_, err = storage.GetAsset(ctx, im, record)
				require.ErrorIs(err, storage.ErrAssetNotFound)
			},
		},
	})
}
