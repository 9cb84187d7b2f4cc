// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pebble stores chain state on disk behind the avalanchego
// database interface.
package pebble

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

var _ database.Database = (*Database)(nil)

type Config struct {
	CacheSize                   int64  `json:"cacheSize"                   yaml:"cacheSize"`
	BytesPerSync                int    `json:"bytesPerSync"                yaml:"bytesPerSync"`
	WALBytesPerSync             int    `json:"walBytesPerSync"             yaml:"walBytesPerSync"`
	MemTableStopWritesThreshold int    `json:"memTableStopWritesThreshold" yaml:"memTableStopWritesThreshold"`
	MemTableSize                uint64 `json:"memTableSize"                yaml:"memTableSize"`
	MaxOpenFiles                int    `json:"maxOpenFiles"                yaml:"maxOpenFiles"`
	ConcurrentCompactions       int    `json:"concurrentCompactions"       yaml:"concurrentCompactions"`
	Sync                        bool   `json:"sync"                        yaml:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:                   128 * units.MiB,
		BytesPerSync:                units.MiB,
		WALBytesPerSync:             units.MiB,
		MemTableStopWritesThreshold: 8,
		MemTableSize:                16 * units.MiB,
		MaxOpenFiles:                4_096,
		ConcurrentCompactions:       1,
		Sync:                        true,
	}
}

type Database struct {
	db      *pebble.DB
	metrics *metrics
	wo      *pebble.WriteOptions

	l       sync.RWMutex
	closed  bool
	closing chan struct{}
	done    sync.WaitGroup
}

// New opens (or creates) the database in [file]. The returned registry holds
// the database metrics.
func New(file string, cfg Config) (*Database, *prometheus.Registry, error) {
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	db := &Database{
		metrics: metrics,
		closing: make(chan struct{}),
		wo:      &pebble.WriteOptions{Sync: cfg.Sync},
	}
	opts := &pebble.Options{
		Cache:                       pebble.NewCache(cfg.CacheSize),
		BytesPerSync:                cfg.BytesPerSync,
		WALBytesPerSync:             cfg.WALBytesPerSync,
		MemTableStopWritesThreshold: cfg.MemTableStopWritesThreshold,
		MemTableSize:                cfg.MemTableSize,
		MaxOpenFiles:                cfg.MaxOpenFiles,
		MaxConcurrentCompactions:    func() int { return cfg.ConcurrentCompactions },
		EventListener: &pebble.EventListener{
			CompactionBegin: db.onCompactionBegin,
			CompactionEnd:   db.onCompactionEnd,
			WriteStallBegin: db.onWriteStallBegin,
			WriteStallEnd:   db.onWriteStallEnd,
		},
	}
	defer opts.Cache.Unref()
	pdb, err := pebble.Open(file, opts)
	if err != nil {
		return nil, nil, err
	}
	db.db = pdb

	db.done.Add(1)
	go func() {
		defer db.done.Done()
		db.collectMetrics()
	}()
	return db, registry, nil
}

func updateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pebble.ErrNotFound):
		return database.ErrNotFound
	case errors.Is(err, pebble.ErrClosed):
		return database.ErrClosed
	default:
		return err
	}
}

func (db *Database) Get(key []byte) ([]byte, error) {
	db.l.RLock()
	defer db.l.RUnlock()
	if db.closed {
		return nil, database.ErrClosed
	}

	start := time.Now()
	data, closer, err := db.db.Get(key)
	db.metrics.getLatency.Observe(float64(time.Since(start)))
	if err != nil {
		return nil, updateError(err)
	}
	defer closer.Close()
	return slices.Clone(data), nil
}

func (db *Database) Has(key []byte) (bool, error) {
	_, err := db.Get(key)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (db *Database) Put(key []byte, value []byte) error {
	db.l.RLock()
	defer db.l.RUnlock()
	if db.closed {
		return database.ErrClosed
	}
	return updateError(db.db.Set(key, value, db.wo))
}

func (db *Database) Delete(key []byte) error {
	db.l.RLock()
	defer db.l.RUnlock()
	if db.closed {
		return database.ErrClosed
	}
	return updateError(db.db.Delete(key, db.wo))
}

func (db *Database) NewBatch() database.Batch {
	return &batch{db: db, batch: db.db.NewBatch()}
}

// Compact compacts [start, limit). A nil limit compacts to the end of the
// keyspace.
func (db *Database) Compact(start []byte, limit []byte) error {
	db.l.RLock()
	defer db.l.RUnlock()
	if db.closed {
		return database.ErrClosed
	}
	if limit == nil {
		it, err := db.db.NewIter(&pebble.IterOptions{})
		if err != nil {
			return updateError(err)
		}
		if it.Last() {
			limit = append(slices.Clone(it.Key()), 0)
		}
		if err := it.Close(); err != nil {
			return updateError(err)
		}
		if limit == nil {
			return nil
		}
	}
	if bytes.Compare(start, limit) >= 0 {
		return nil
	}
	return updateError(db.db.Compact(start, limit, true))
}

func (db *Database) HealthCheck(context.Context) (interface{}, error) {
	db.l.RLock()
	defer db.l.RUnlock()
	if db.closed {
		return nil, database.ErrClosed
	}
	return nil, nil
}

func (db *Database) Close() error {
	db.l.Lock()
	if db.closed {
		db.l.Unlock()
		return database.ErrClosed
	}
	db.closed = true
	close(db.closing)
	db.l.Unlock()

	db.done.Wait()
	return updateError(db.db.Close())
}
