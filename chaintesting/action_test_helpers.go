// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chaintesting

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/ledger"
	"github.com/solimare/boatvm/state"
	"github.com/solimare/boatvm/tstate"
)

var (
	_ state.Mutable = (*InMemoryStore)(nil)
	_ chain.Host    = (*Host)(nil)
)

// InMemoryStore is an in-memory implementation of `state.Mutable`
type InMemoryStore struct {
	Storage map[string][]byte
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		Storage: make(map[string][]byte),
	}
}

func (i *InMemoryStore) GetValue(_ context.Context, key []byte) ([]byte, error) {
	val, ok := i.Storage[string(key)]
	if !ok {
		return nil, database.ErrNotFound
	}
	return val, nil
}

func (i *InMemoryStore) Insert(_ context.Context, key []byte, value []byte) error {
	i.Storage[string(key)] = value
	return nil
}

func (i *InMemoryStore) Remove(_ context.Context, key []byte) error {
	delete(i.Storage, string(key))
	return nil
}

// Put writes every pending change of [view] into the store.
func (i *InMemoryStore) Put(view *tstate.TStateView) error {
	return view.WriteTo(&storeWriter{i})
}

type storeWriter struct{ s *InMemoryStore }

func (w *storeWriter) Put(key []byte, value []byte) error {
	w.s.Storage[string(key)] = value
	return nil
}

func (w *storeWriter) Delete(key []byte) error {
	delete(w.s.Storage, string(key))
	return nil
}

// Host records emitted events. Units and Currency default to the state
// backed ledgers.
type Host struct {
	UnitLedger     ledger.Units
	CurrencyLedger ledger.Currency
	Events         []chain.Event
}

func NewHost() *Host {
	return &Host{
		UnitLedger:     ledger.StateUnits{},
		CurrencyLedger: ledger.StateCurrency{},
	}
}

func (h *Host) Units() ledger.Units { return h.UnitLedger }

func (h *Host) Currency() ledger.Currency { return h.CurrencyLedger }

func (h *Host) Emit(e chain.Event) {
	h.Events = append(h.Events, e)
}

// ActionTest is a single parameterized test. It runs the action inside a
// view scoped to the action's state keys, so an undeclared key fails the
// test the same way it would fail on chain. The view is written back to
// [State] only when the action succeeds.
type ActionTest struct {
	Name string

	Action chain.Action

	State     *InMemoryStore
	Timestamp int64
	Actor     codec.Address
	TxID      ids.ID

	// Units and Currency replace the state backed ledgers when set.
	Units    ledger.Units
	Currency ledger.Currency

	ExpectedEvents []chain.Event
	ExpectedErr    error

	Assertion func(context.Context, *testing.T, state.Mutable)
}

// Run executes the [ActionTest] and make sure all assertions pass.
func (test *ActionTest) Run(ctx context.Context, t *testing.T) {
	t.Run(test.Name, func(t *testing.T) {
		require := require.New(t)

		if test.State == nil {
			test.State = NewInMemoryStore()
		}
		host := NewHost()
		if test.Units != nil {
			host.UnitLedger = test.Units
		}
		if test.Currency != nil {
			host.CurrencyLedger = test.Currency
		}

		scope := test.Action.StateKeys(test.Actor)
		values := make(map[string][]byte, len(scope))
		for k := range scope {
			if v, ok := test.State.Storage[k]; ok {
				values[k] = v
			}
		}
		view := tstate.NewView(scope, values)

		err := test.Action.Execute(ctx, host, view, test.Timestamp, test.Actor, test.TxID)
		require.ErrorIs(err, test.ExpectedErr)
		if err == nil {
			require.NoError(test.State.Put(view))
			require.Equal(test.ExpectedEvents, host.Events)
		}

		if test.Assertion != nil {
			test.Assertion(ctx, t, test.State)
		}
	})
}

// ActionTests runs [tests] in order against shared state.
func ActionTests(ctx context.Context, t *testing.T, tests []*ActionTest) {
	for _, test := range tests {
		test.Run(ctx, t)
	}
}
