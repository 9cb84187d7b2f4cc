// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/solimare/boatvm/keys"
	"github.com/solimare/boatvm/state"
)

var (
	testVal = []byte("value")

	key1    = keys.EncodeChunks([]byte("key1"), 1)
	key1str = string(key1)
	key2    = keys.EncodeChunks([]byte("key2"), 2)
	key2str = string(key2)
)

func TestScope(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()

	tsv := NewView(state.Keys{}, map[string][]byte{})
	val, err := tsv.GetValue(ctx, key1)
	require.ErrorIs(err, ErrInvalidKeyOrPermission)
	require.Nil(val)
	require.ErrorIs(tsv.Insert(ctx, key1, testVal), ErrInvalidKeyOrPermission)
	require.ErrorIs(tsv.Remove(ctx, key1), ErrInvalidKeyOrPermission)
}

func TestGetValue(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()

	tsv := NewView(state.Keys{key1str: state.Read}, map[string][]byte{key1str: testVal})
	val, err := tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal(testVal, val)

	_, err = NewView(state.Keys{key1str: state.Read}, map[string][]byte{}).GetValue(ctx, key1)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestInsertPermissions(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()

	// Write without Allocate cannot create a key.
	tsv := NewView(state.Keys{key1str: state.Write}, map[string][]byte{})
	require.ErrorIs(tsv.Insert(ctx, key1, testVal), ErrInvalidKeyOrPermission)

	// Allocate without Write cannot overwrite an existing key.
	tsv = NewView(state.Keys{key1str: state.Allocate}, map[string][]byte{key1str: testVal})
	require.ErrorIs(tsv.Insert(ctx, key1, []byte("new")), ErrInvalidKeyOrPermission)

	tsv = NewView(state.Keys{key1str: state.All}, map[string][]byte{})
	tsv.DisableAllocation()
	require.ErrorIs(tsv.Insert(ctx, key1, testVal), ErrAllocationDisabled)
	tsv.EnableAllocation()
	require.NoError(tsv.Insert(ctx, key1, testVal))
	require.Equal(1, tsv.OpIndex())
}

func TestInsertInvalid(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()

	key := keys.EncodeChunks([]byte("hello"), 0)
	tsv := NewView(state.Keys{string(key): state.All}, map[string][]byte{})
	require.ErrorIs(tsv.Insert(ctx, key, []byte("cool")), ErrInvalidKeyValue)

	_, err := tsv.GetValue(ctx, key)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestRollback(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()

	tsv := NewView(
		state.Keys{key1str: state.All, key2str: state.All},
		map[string][]byte{key1str: testVal},
	)

	require.NoError(tsv.Insert(ctx, key1, []byte("changed")))
	require.NoError(tsv.Insert(ctx, key2, testVal))
	require.NoError(tsv.Remove(ctx, key1))
	require.Equal(3, tsv.OpIndex())

	_, err := tsv.GetValue(ctx, key1)
	require.ErrorIs(err, database.ErrNotFound)

	// Undo the remove
	tsv.Rollback(ctx, 2)
	val, err := tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal([]byte("changed"), val)

	// Undo everything
	tsv.Rollback(ctx, 0)
	val, err = tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal(testVal, val)
	_, err = tsv.GetValue(ctx, key2)
	require.ErrorIs(err, database.ErrNotFound)
	require.Zero(tsv.PendingChanges())
}

func TestWriteTo(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()

	db := memdb.New()
	require.NoError(db.Put(key1, testVal))

	tsv := NewView(
		state.Keys{key1str: state.All, key2str: state.All},
		map[string][]byte{key1str: testVal},
	)
	require.NoError(tsv.Remove(ctx, key1))
	require.NoError(tsv.Insert(ctx, key2, []byte("new")))

	batch := db.NewBatch()
	require.NoError(tsv.WriteTo(batch))

	// Nothing is visible until the batch is written.
	has, err := db.Has(key1)
	require.NoError(err)
	require.True(has)

	require.NoError(batch.Write())
	has, err = db.Has(key1)
	require.NoError(err)
	require.False(has)
	v, err := db.Get(key2)
	require.NoError(err)
	require.Equal([]byte("new"), v)
}
