// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/solimare/boatvm/actions"
	"github.com/solimare/boatvm/auth"
	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/crypto"
	"github.com/solimare/boatvm/crypto/ed25519"
	"github.com/solimare/boatvm/derive"
	"github.com/solimare/boatvm/event"
	"github.com/solimare/boatvm/ledger"
	"github.com/solimare/boatvm/state"
	"github.com/solimare/boatvm/storage"
	"github.com/solimare/boatvm/trace"
	"github.com/solimare/boatvm/tstate"
)

const validityWindow = int64(60_000)

var (
	chainID = ids.GenerateTestID()
	now     = time.Unix(1_700_000_000, 0)
)

type testChain struct {
	processor *chain.Processor
	db        database.Database
	actions   chain.ActionRegistry
	auths     chain.AuthRegistry
}

func newTestChain(t *testing.T) *testChain {
	require := require.New(t)

	actionRegistry := codec.NewTypeParser[chain.Action]()
	require.NoError(actions.Register(actionRegistry))
	authRegistry := codec.NewTypeParser[chain.Auth]()
	require.NoError(auth.Register(authRegistry))

	db := memdb.New()
	p, err := chain.NewProcessor(
		chain.Config{ChainID: chainID, ValidityWindow: validityWindow},
		logging.NoLog{},
		trace.Noop(),
		prometheus.NewRegistry(),
		db,
		ledger.StateUnits{},
		ledger.StateCurrency{},
		event.NewLog[*chain.EventRecord](),
	)
	require.NoError(err)
	p.Clock().Set(now)
	return &testChain{
		processor: p,
		db:        db,
		actions:   actionRegistry,
		auths:     authRegistry,
	}
}

func newFactory(t *testing.T) *auth.ED25519Factory {
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	return auth.NewED25519Factory(priv)
}

func (c *testChain) fund(t *testing.T, addr codec.Address, amount uint64) {
	require := require.New(t)
	ctx := context.Background()

	k := string(storage.BalanceKey(addr))
	view := tstate.NewView(state.Keys{k: state.All}, map[string][]byte{})
	require.NoError(storage.SetBalance(ctx, view, addr, amount))
	require.NoError(view.WriteTo(c.db))
}

func (c *testChain) sign(t *testing.T, factory chain.AuthFactory, action chain.Action, expiry int64) *chain.Transaction {
	tx, err := chain.NewTx(&chain.Base{
		Timestamp: expiry,
		ChainID:   chainID,
	}, action).Sign(factory, c.actions, c.auths)
	require.NoError(t, err)
	return tx
}

func (c *testChain) signNow(t *testing.T, factory chain.AuthFactory, action chain.Action) *chain.Transaction {
	return c.sign(t, factory, action, now.UnixMilli()+10_000)
}

func boat(config codec.Address, treasury codec.Address, registrationNumber string) *actions.RegisterAsset {
	return &actions.RegisterAsset{
		Config:             config,
		Name:               "Sea Breeze",
		AssetType:          storage.AssetType{Kind: storage.Yacht},
		RegistrationNumber: registrationNumber,
		YearBuilt:          2001,
		LengthFeet:         48,
		Price:              1_000_000_000,
		Treasury:           treasury,
	}
}

func eventNames(records []event.Record[*chain.EventRecord]) []string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Value.Name
	}
	return names
}

func TestProcessorRegistersBoat(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	c := newTestChain(t)
	authority := newFactory(t)
	alice := newFactory(t)
	treasury := newFactory(t).Address()
	c.fund(t, alice.Address(), 10_000_000_000)

	var accepted []ids.ID
	c.processor.OnAccepted(func(tx *chain.Transaction, _ *chain.Result) {
		accepted = append(accepted, tx.ID())
	})

	initTx := c.signNow(t, authority, &actions.InitializeConfig{FeeBps: 250, Treasury: treasury})
	result, err := c.processor.Execute(ctx, initTx)
	require.NoError(err)
	require.Len(result.Events, 1)
	config, _, err := derive.Config(authority.Address())
	require.NoError(err)

	registerTx := c.signNow(t, alice, boat(config, treasury, "WA-1234"))
	result, err = c.processor.Execute(ctx, registerTx)
	require.NoError(err)
	require.Equal(registerTx.ID(), result.TxID)
	require.Len(result.Events, 2)
	for i, r := range result.Events {
		require.Equal(registerTx.ID(), r.TxID)
		require.Equal(now.Unix(), r.Timestamp)
		require.Equal(i, r.Index)

		decoded, err := actions.DecodeEvent(r.Data)
		require.NoError(err)
		require.Equal(r.Event, decoded)
	}
	require.Equal([]ids.ID{initTx.ID(), registerTx.ID()}, accepted)

	im := c.processor.State()
	bal, err := storage.GetBalance(ctx, im, treasury)
	require.NoError(err)
	require.Equal(uint64(25_000_000), bal)
	mint, _, err := derive.Mint(alice.Address(), "WA-1234")
	require.NoError(err)
	units, err := storage.GetUnitBalance(ctx, im, mint, alice.Address())
	require.NoError(err)
	require.Equal(uint64(1), units)

	records := c.processor.Events().Since(0)
	require.Equal([]string{"ConfigInitialized", "FeeCollected", "BoatMinted"}, eventNames(records))

	// Replaying the same transaction is rejected and publishes nothing.
	_, err = c.processor.Execute(ctx, registerTx)
	require.ErrorIs(err, chain.ErrDuplicateTx)
	require.Equal(uint64(3), c.processor.Events().Last())
}

func TestProcessorFailureCommitsNothing(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	c := newTestChain(t)
	authority := newFactory(t)
	bob := newFactory(t)
	treasury := newFactory(t).Address()

	_, err := c.processor.Execute(ctx, c.signNow(t, authority, &actions.InitializeConfig{FeeBps: 250, Treasury: treasury}))
	require.NoError(err)
	config, _, err := derive.Config(authority.Address())
	require.NoError(err)

	tx := c.signNow(t, bob, boat(config, treasury, "WA-1234"))
	_, err = c.processor.Execute(ctx, tx)
	require.ErrorIs(err, actions.ErrInsufficientFunds)
	require.Equal(uint64(1), c.processor.Events().Last())

	// The failed transaction was not recorded, so it can be retried once
	// bob is funded.
	c.fund(t, bob.Address(), 25_000_000)
	_, err = c.processor.Execute(ctx, tx)
	require.NoError(err)
	bal, err := storage.GetBalance(ctx, c.processor.State(), bob.Address())
	require.NoError(err)
	require.Zero(bal)
}

func TestProcessorRejects(t *testing.T) {
	c := newTestChain(t)
	alice := newFactory(t)
	action := &actions.InitializeConfig{Treasury: alice.Address()}

	tests := []struct {
		name string
		tx   func(t *testing.T) *chain.Transaction
		err  error
	}{
		{
			name: "Expired",
			tx: func(t *testing.T) *chain.Transaction {
				return c.sign(t, alice, action, now.UnixMilli()-1_000)
			},
			err: chain.ErrExpired,
		},
		{
			name: "TooEarly",
			tx: func(t *testing.T) *chain.Transaction {
				return c.sign(t, alice, action, now.UnixMilli()+validityWindow+1_000)
			},
			err: chain.ErrTimestampTooEarly,
		},
		{
			name: "WrongChain",
			tx: func(t *testing.T) *chain.Transaction {
				tx, err := chain.NewTx(&chain.Base{
					Timestamp: now.UnixMilli(),
					ChainID:   ids.GenerateTestID(),
				}, action).Sign(alice, c.actions, c.auths)
				require.NoError(t, err)
				return tx
			},
			err: chain.ErrInvalidChainID,
		},
		{
			name: "ForgedSigner",
			tx: func(t *testing.T) *chain.Transaction {
				tx := c.signNow(t, alice, action)
				priv, err := ed25519.GeneratePrivateKey()
				require.NoError(t, err)
				tx.Auth.(*auth.ED25519).Signer = priv.PublicKey()
				return tx
			},
			err: crypto.ErrInvalidSignature,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.processor.Execute(context.Background(), tt.tx(t))
			require.ErrorIs(t, err, tt.err)
		})
	}
	require.Zero(t, c.processor.Events().Last())
}

func TestProcessorConcurrentRegistrations(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	c := newTestChain(t)
	authority := newFactory(t)
	treasury := newFactory(t).Address()
	_, err := c.processor.Execute(ctx, c.signNow(t, authority, &actions.InitializeConfig{FeeBps: 250, Treasury: treasury}))
	require.NoError(err)
	config, _, err := derive.Config(authority.Address())
	require.NoError(err)

	const owners = 16
	txs := make([]*chain.Transaction, owners)
	for i := range txs {
		owner := newFactory(t)
		c.fund(t, owner.Address(), 25_000_000)
		txs[i] = c.signNow(t, owner, boat(config, treasury, fmt.Sprintf("WA-%d", i)))
	}

	var wg sync.WaitGroup
	errs := make(chan error, owners)
	for _, tx := range txs {
		wg.Add(1)
		go func(tx *chain.Transaction) {
			defer wg.Done()
			_, err := c.processor.Execute(ctx, tx)
			errs <- err
		}(tx)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(err)
	}

	bal, err := storage.GetBalance(ctx, c.processor.State(), treasury)
	require.NoError(err)
	require.Equal(uint64(owners*25_000_000), bal)
	require.Equal(uint64(1+2*owners), c.processor.Events().Last())
}

func TestProcessorClosed(t *testing.T) {
	require := require.New(t)

	c := newTestChain(t)
	alice := newFactory(t)
	require.NoError(c.processor.Close())
	require.NoError(c.processor.Close())

	_, err := c.processor.Execute(context.Background(), c.signNow(t, alice, &actions.InitializeConfig{}))
	require.ErrorIs(err, chain.ErrProcessorClosed)
}
