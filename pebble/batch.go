// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"slices"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
)

var _ database.Batch = (*batch)(nil)

type batchOp struct {
	key    []byte
	value  []byte
	delete bool
}

type batch struct {
	db    *Database
	batch *pebble.Batch
	ops   []batchOp
	size  int
}

func (b *batch) Put(key []byte, value []byte) error {
	b.ops = append(b.ops, batchOp{key: slices.Clone(key), value: slices.Clone(value)})
	b.size += len(key) + len(value)
	return b.batch.Set(key, value, nil)
}

func (b *batch) Delete(key []byte) error {
	b.ops = append(b.ops, batchOp{key: slices.Clone(key), delete: true})
	b.size += len(key)
	return b.batch.Delete(key, nil)
}

func (b *batch) Size() int {
	return b.size
}

// Write commits every op of the batch at once.
func (b *batch) Write() error {
	b.db.l.RLock()
	defer b.db.l.RUnlock()
	if b.db.closed {
		return database.ErrClosed
	}
	return updateError(b.batch.Commit(b.db.wo))
}

func (b *batch) Reset() {
	b.batch.Reset()
	b.ops = b.ops[:0]
	b.size = 0
}

func (b *batch) Replay(w database.KeyValueWriterDeleter) error {
	for _, op := range b.ops {
		if op.delete {
			if err := w.Delete(op.key); err != nil {
				return err
			}
			continue
		}
		if err := w.Put(op.key, op.value); err != nil {
			return err
		}
	}
	return nil
}

func (b *batch) Inner() database.Batch {
	return b
}
