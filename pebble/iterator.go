// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"slices"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
)

var _ database.Iterator = (*iterator)(nil)

type iterator struct {
	it      *pebble.Iterator
	started bool
	valid   bool
	key     []byte
	value   []byte
	err     error
}

func (db *Database) NewIterator() database.Iterator {
	return db.NewIteratorWithStartAndPrefix(nil, nil)
}

func (db *Database) NewIteratorWithStart(start []byte) database.Iterator {
	return db.NewIteratorWithStartAndPrefix(start, nil)
}

func (db *Database) NewIteratorWithPrefix(prefix []byte) database.Iterator {
	return db.NewIteratorWithStartAndPrefix(nil, prefix)
}

// NewIteratorWithStartAndPrefix iterates keys that begin with [prefix] and
// are not smaller than [start], in key order.
func (db *Database) NewIteratorWithStartAndPrefix(start, prefix []byte) database.Iterator {
	db.l.RLock()
	defer db.l.RUnlock()
	if db.closed {
		return &database.IteratorError{Err: database.ErrClosed}
	}

	opts := &pebble.IterOptions{LowerBound: prefix, UpperBound: prefixEnd(prefix)}
	if slices.Compare(start, prefix) > 0 {
		opts.LowerBound = start
	}
	it, err := db.db.NewIter(opts)
	if err != nil {
		return &database.IteratorError{Err: updateError(err)}
	}
	return &iterator{it: it}
}

// prefixEnd is the smallest key greater than every key starting with
// [prefix], or nil when there is none.
func prefixEnd(prefix []byte) []byte {
	end := slices.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] != 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

func (i *iterator) Next() bool {
	if i.err != nil {
		return false
	}
	if !i.started {
		i.valid = i.it.First()
		i.started = true
	} else {
		i.valid = i.it.Next()
	}
	if !i.valid {
		i.key, i.value = nil, nil
		i.err = updateError(i.it.Error())
		return false
	}
	i.key = slices.Clone(i.it.Key())
	i.value = slices.Clone(i.it.Value())
	return true
}

func (i *iterator) Error() error {
	return i.err
}

func (i *iterator) Key() []byte {
	return i.key
}

func (i *iterator) Value() []byte {
	return i.value
}

func (i *iterator) Release() {
	_ = i.it.Close()
}
