// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package tstate holds the pending writes of a single transaction. Nothing
// reaches the database until the view is written out, so a failed
// transaction is undone by dropping its view.
package tstate

import (
	"context"
	"sort"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"

	"github.com/solimare/boatvm/keys"
	"github.com/solimare/boatvm/state"
)

const defaultOps = 4

var _ state.Mutable = (*TStateView)(nil)

type op struct {
	k string

	pastExists  bool
	pastV       []byte
	pastChanged bool
}

type TStateView struct {
	pendingChangedKeys map[string]maybe.Maybe[[]byte]

	// ops is a record of all operations performed on the view. Tracking
	// operations allows for reverting state to a certain point-in-time.
	ops []*op

	scope        state.Keys
	scopeStorage map[string][]byte

	canAllocate bool
}

// NewView returns a view that may only touch [scope]. [storage] holds the
// values of the scoped keys as they were when the view was created; keys
// absent from [storage] do not exist.
func NewView(scope state.Keys, storage map[string][]byte) *TStateView {
	return &TStateView{
		pendingChangedKeys: make(map[string]maybe.Maybe[[]byte], len(scope)),

		ops: make([]*op, 0, defaultOps),

		scope:        scope,
		scopeStorage: storage,

		canAllocate: true,
	}
}

// Rollback restores the view to the state it had after [restorePoint]
// operations.
func (ts *TStateView) Rollback(_ context.Context, restorePoint int) {
	for i := len(ts.ops) - 1; i >= restorePoint; i-- {
		op := ts.ops[i]

		if !op.pastChanged {
			delete(ts.pendingChangedKeys, op.k)
			continue
		}
		if !op.pastExists {
			ts.pendingChangedKeys[op.k] = maybe.Nothing[[]byte]()
			continue
		}
		ts.pendingChangedKeys[op.k] = maybe.Some(op.pastV)
	}
	ts.ops = ts.ops[:restorePoint]
}

// OpIndex returns the number of operations done on ts.
func (ts *TStateView) OpIndex() int {
	return len(ts.ops)
}

// DisableAllocation causes [Insert] to return an error if
// it would create a new key.
func (ts *TStateView) DisableAllocation() {
	ts.canAllocate = false
}

// EnableAllocation removes the forcer error case in [Insert]
// if a new key is created.
func (ts *TStateView) EnableAllocation() {
	ts.canAllocate = true
}

func (ts *TStateView) checkScope(k string, require state.Permissions) bool {
	return ts.scope[k].Has(require)
}

// GetValue returns the current value of [key].
func (ts *TStateView) GetValue(_ context.Context, key []byte) ([]byte, error) {
	k := string(key)
	if !ts.checkScope(k, state.Read) {
		return nil, ErrInvalidKeyOrPermission
	}
	v, _, exists := ts.getValue(k)
	if !exists {
		return nil, database.ErrNotFound
	}
	return v, nil
}

func (ts *TStateView) getValue(key string) ([]byte, bool, bool) {
	if v, ok := ts.pendingChangedKeys[key]; ok {
		if v.IsNothing() {
			return nil, true, false
		}
		return v.Value(), true, true
	}
	if v, ok := ts.scopeStorage[key]; ok {
		return v, false, true
	}
	return nil, false, false
}

// Insert sets or updates [key]. Creating a key needs [state.Allocate],
// overwriting one needs [state.Write].
//
// Any bytes passed into [Insert] will be consumed by the view and should
// not be modified/referenced after this call.
func (ts *TStateView) Insert(_ context.Context, key []byte, value []byte) error {
	k := string(key)
	if !keys.VerifyValue(key, value) {
		return ErrInvalidKeyValue
	}
	past, changed, exists := ts.getValue(k)
	if exists {
		if !ts.checkScope(k, state.Write) {
			return ErrInvalidKeyOrPermission
		}
	} else {
		if !ts.checkScope(k, state.Allocate) {
			return ErrInvalidKeyOrPermission
		}
		if !ts.canAllocate {
			return ErrAllocationDisabled
		}
	}
	ts.pendingChangedKeys[k] = maybe.Some(value)
	ts.ops = append(ts.ops, &op{
		k:           k,
		pastExists:  exists,
		pastV:       past,
		pastChanged: changed,
	})
	return nil
}

// Remove deletes [key] if it exists.
func (ts *TStateView) Remove(_ context.Context, key []byte) error {
	k := string(key)
	if !ts.checkScope(k, state.Write) {
		return ErrInvalidKeyOrPermission
	}
	past, changed, exists := ts.getValue(k)
	if !exists {
		return nil
	}
	ts.pendingChangedKeys[k] = maybe.Nothing[[]byte]()
	ts.ops = append(ts.ops, &op{
		k:           k,
		pastExists:  true,
		pastV:       past,
		pastChanged: changed,
	})
	return nil
}

// PendingChanges returns the number of keys the view would write.
func (ts *TStateView) PendingChanges() int {
	return len(ts.pendingChangedKeys)
}

// WriteTo applies every pending change to [w] in key order.
func (ts *TStateView) WriteTo(w database.KeyValueWriterDeleter) error {
	changed := make([]string, 0, len(ts.pendingChangedKeys))
	for k := range ts.pendingChangedKeys {
		changed = append(changed, k)
	}
	sort.Strings(changed)
	for _, k := range changed {
		v := ts.pendingChangedKeys[k]
		if v.IsNothing() {
			if err := w.Delete([]byte(k)); err != nil {
				return err
			}
			continue
		}
		if err := w.Put([]byte(k), v.Value()); err != nil {
			return err
		}
	}
	return nil
}
