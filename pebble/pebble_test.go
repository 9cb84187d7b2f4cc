// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"
)

const batchSize = 100_000

func randBytes() []byte {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return b
}

func newTestDB(t *testing.T) *Database {
	cfg := NewDefaultConfig()
	cfg.Sync = false
	db, registry, err := New(t.TempDir(), cfg)
	require.NoError(t, err)
	require.NotNil(t, registry)
	return db
}

func TestGetPutDelete(t *testing.T) {
	require := require.New(t)

	db := newTestDB(t)
	_, err := db.Get([]byte("boat"))
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(db.Put([]byte("boat"), []byte("yacht")))
	v, err := db.Get([]byte("boat"))
	require.NoError(err)
	require.Equal([]byte("yacht"), v)
	has, err := db.Has([]byte("boat"))
	require.NoError(err)
	require.True(has)

	require.NoError(db.Delete([]byte("boat")))
	has, err = db.Has([]byte("boat"))
	require.NoError(err)
	require.False(has)

	require.NoError(db.Close())
	_, err = db.Get([]byte("boat"))
	require.ErrorIs(err, database.ErrClosed)
	require.ErrorIs(db.Close(), database.ErrClosed)
}

func TestBatchReplay(t *testing.T) {
	require := require.New(t)

	db := newTestDB(t)
	defer db.Close()
	require.NoError(db.Put([]byte("gone"), []byte{1}))

	batch := db.NewBatch()
	require.NoError(batch.Put([]byte("a"), []byte{2}))
	require.NoError(batch.Delete([]byte("gone")))
	require.Equal(len("a")+1+len("gone"), batch.Size())

	// Nothing is visible before Write.
	has, err := db.Has([]byte("a"))
	require.NoError(err)
	require.False(has)

	require.NoError(batch.Write())
	v, err := db.Get([]byte("a"))
	require.NoError(err)
	require.Equal([]byte{2}, v)

	mem := memdb.New()
	require.NoError(mem.Put([]byte("gone"), []byte{1}))
	require.NoError(batch.Replay(mem))
	has, err = mem.Has([]byte("gone"))
	require.NoError(err)
	require.False(has)

	batch.Reset()
	require.Zero(batch.Size())
}

func TestIteratorPrefix(t *testing.T) {
	require := require.New(t)

	db := newTestDB(t)
	defer db.Close()
	for _, k := range []string{"a1", "b1", "b2", "b3", "c1"} {
		require.NoError(db.Put([]byte(k), []byte(k)))
	}

	collect := func(it database.Iterator) []string {
		defer it.Release()
		var out []string
		for it.Next() {
			require.Equal(it.Key(), it.Value())
			out = append(out, string(it.Key()))
		}
		require.NoError(it.Error())
		return out
	}
	require.Equal([]string{"b1", "b2", "b3"}, collect(db.NewIteratorWithPrefix([]byte("b"))))
	require.Equal([]string{"b2", "b3"}, collect(db.NewIteratorWithStartAndPrefix([]byte("b2"), []byte("b"))))
	require.Equal([]string{"b3", "c1"}, collect(db.NewIteratorWithStart([]byte("b3"))))
	require.Len(collect(db.NewIterator()), 5)
}

func TestPrefixEnd(t *testing.T) {
	require := require.New(t)

	require.Equal([]byte{1, 3}, prefixEnd([]byte{1, 2}))
	require.Equal([]byte{2}, prefixEnd([]byte{1, 0xff}))
	require.Nil(prefixEnd([]byte{0xff, 0xff}))
	require.Nil(prefixEnd(nil))
}

func BenchmarkBatchInsertion(b *testing.B) {
	for _, sync := range []bool{false, true} {
		b.Run(fmt.Sprintf("sync=%t", sync), func(b *testing.B) {
			// Setup DB
			b.StopTimer()
			cfg := NewDefaultConfig()
			cfg.Sync = sync
			db, _, err := New(b.TempDir(), cfg)
			if err != nil {
				b.Fatal(err)
			}

			// Setup keys
			keys := make([][]byte, batchSize)
			for i := 0; i < batchSize; i++ {
				keys[i] = randBytes()
			}

			b.StartTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				batch := db.NewBatch()
				for j := 0; j < batchSize; j++ {
					if err := batch.Put(keys[j], randBytes()); err != nil {
						b.Fatal(err)
					}
				}
				if err := batch.Write(); err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()

			if err := db.Close(); err != nil {
				b.Fatal(err)
			}
		})
	}
}
