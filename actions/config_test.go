// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/chaintesting"
	"github.com/solimare/boatvm/derive"
	"github.com/solimare/boatvm/state"
	"github.com/solimare/boatvm/storage"
	"github.com/solimare/boatvm/tstate"
)

func TestInitializeConfig(t *testing.T) {
	authority := testAddress()
	treasury := testAddress()
	config, nonce, err := derive.Config(authority)
	require.NoError(t, err)
	store := chaintesting.NewInMemoryStore()

	chaintesting.ActionTests(context.Background(), t, []*chaintesting.ActionTest{
		{
			Name:      "Creates",
			Action:    &InitializeConfig{FeeBps: 250, Treasury: treasury},
			State:     store,
			Timestamp: testTimestamp,
			Actor:     authority,
			ExpectedEvents: []chain.Event{&ConfigInitialized{
				Config:    config,
				Authority: authority,
				FeeBps:    250,
				Treasury:  treasury,
			}},
			Assertion: func(ctx context.Context, t *testing.T, im state.Mutable) {
				require := require.New(t)
				cfg, err := storage.GetConfig(ctx, im, config)
				require.NoError(err)
				require.Equal(&storage.ProtocolConfig{
					AddressNonce: nonce,
					Authority:    authority,
					IsActive:     true,
					FeeBps:       250,
					Treasury:     treasury,
					Version:      storage.ConfigVersion,
				}, cfg)
			},
		},
		{
			Name:        "OnlyOnce",
			Action:      &InitializeConfig{FeeBps: 100, Treasury: treasury},
			State:       store,
			Timestamp:   testTimestamp,
			Actor:       authority,
			ExpectedErr: storage.ErrAddressInUse,
			Assertion: func(ctx context.Context, t *testing.T, im state.Mutable) {
				cfg, err := storage.GetConfig(ctx, im, config)
				require.NoError(t, err)
				require.Equal(t, uint16(250), cfg.FeeBps)
			},
		},
	})
}

func TestUpdateConfig(t *testing.T) {
	f := newFixture(t, 250)
	newTreasury := testAddress()
	feeBps := uint16(500)
	paused := true
	active := false

	chaintesting.ActionTests(context.Background(), t, []*chaintesting.ActionTest{
		{
			Name:        "NotAuthority",
			Action:      &UpdateConfig{Config: f.config, FeeBps: &feeBps},
			State:       f.store,
			Actor:       f.alice,
			ExpectedErr: ErrUnauthorized,
		},
		{
			Name:        "NoChanges",
			Action:      &UpdateConfig{Config: f.config},
			State:       f.store,
			Actor:       f.authority,
			ExpectedErr: ErrNoChanges,
		},
		{
			Name:        "UnknownConfig",
			Action:      &UpdateConfig{Config: testAddress(), FeeBps: &feeBps},
			State:       f.store,
			Actor:       f.authority,
			ExpectedErr: storage.ErrConfigNotFound,
		},
		{
			Name:   "FeeAndTreasury",
			Action: &UpdateConfig{Config: f.config, FeeBps: &feeBps, Treasury: &newTreasury},
			State:  f.store,
			Actor:  f.authority,
			ExpectedEvents: []chain.Event{&ConfigUpdated{
				Config:   f.config,
				FeeBps:   500,
				Treasury: newTreasury,
				IsActive: true,
			}},
		},
		{
			Name:   "Pause",
			Action: &UpdateConfig{Config: f.config, IsPaused: &paused},
			State:  f.store,
			Actor:  f.authority,
			ExpectedEvents: []chain.Event{&ConfigUpdated{
				Config:   f.config,
				FeeBps:   500,
				Treasury: newTreasury,
				IsActive: true,
				IsPaused: true,
			}},
		},
		{
			Name:        "PausedRejectsRegistration",
			Action:      f.register("FL-0001"),
			State:       f.store,
			Actor:       f.alice,
			ExpectedErr: ErrConfigInactive,
		},
		{
			Name:   "Deactivate",
			Action: &UpdateConfig{Config: f.config, IsActive: &active},
			State:  f.store,
			Actor:  f.authority,
			ExpectedEvents: []chain.Event{&ConfigUpdated{
				Config:   f.config,
				FeeBps:   500,
				Treasury: newTreasury,
				IsPaused: true,
			}},
			Assertion: func(ctx context.Context, t *testing.T, im state.Mutable) {
				cfg, err := storage.GetConfig(ctx, im, f.config)
				require.NoError(t, err)
				require.False(t, cfg.AcceptsRegistrations())
			},
		},
	})
}

// A config stored at an address that is not derived from its authority is
// not a config.
func TestSpoofedConfig(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	f := newFixture(t, 250)
	spoof := testAddress()
	cfg, err := storage.GetConfig(ctx, f.store, f.config)
	require.NoError(err)
	require.NoError(storage.PutConfig(ctx, f.store, spoof, cfg))

	action := f.register("FL-0002")
	action.Config = spoof
	view := tstate.NewView(action.StateKeys(f.alice), f.store.Storage)
	err = action.Execute(ctx, chaintesting.NewHost(), view, testTimestamp, f.alice, testTxID)
	require.ErrorIs(err, storage.ErrConfigNotFound)
}
