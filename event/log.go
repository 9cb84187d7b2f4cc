// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/atomic"
)

var ErrClosed = errors.New("log closed")

// Log is an append-only, in-memory record of everything the node has
// emitted. Sequence numbers start at 1 and never repeat.
type Log[T any] struct {
	l       sync.RWMutex
	records []Record[T]
	subs    map[uint64]Subscription[Record[T]]
	closed  bool

	seq   atomic.Uint64
	subID atomic.Uint64
}

func NewLog[T any]() *Log[T] {
	return &Log[T]{
		subs: map[uint64]Subscription[Record[T]]{},
	}
}

// Append records [values] in order and hands each record to every
// subscriber. Subscriber errors are returned after all values are recorded.
func (g *Log[T]) Append(ctx context.Context, values ...T) error {
	g.l.Lock()
	if g.closed {
		g.l.Unlock()
		return ErrClosed
	}
	added := make([]Record[T], 0, len(values))
	for _, v := range values {
		r := Record[T]{Seq: g.seq.Inc(), Value: v}
		g.records = append(g.records, r)
		added = append(added, r)
	}
	subs := make([]Subscription[Record[T]], 0, len(g.subs))
	for _, s := range g.subs {
		subs = append(subs, s)
	}
	g.l.Unlock()

	var errs []error
	for _, r := range added {
		if err := notify(ctx, r, subs); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Since returns every record with a sequence number greater than [seq].
func (g *Log[T]) Since(seq uint64) []Record[T] {
	g.l.RLock()
	defer g.l.RUnlock()

	// Records are dense, so the record with sequence n lives at index n-1.
	if seq >= uint64(len(g.records)) {
		return nil
	}
	out := make([]Record[T], len(g.records)-int(seq))
	copy(out, g.records[seq:])
	return out
}

// Last returns the sequence number of the newest record.
func (g *Log[T]) Last() uint64 {
	return g.seq.Load()
}

// Subscribe registers [s] for every future record. The returned func
// removes and closes the subscription.
func (g *Log[T]) Subscribe(s Subscription[Record[T]]) (func() error, error) {
	g.l.Lock()
	defer g.l.Unlock()

	if g.closed {
		return nil, ErrClosed
	}
	id := g.subID.Inc()
	g.subs[id] = s
	return func() error {
		g.l.Lock()
		_, ok := g.subs[id]
		delete(g.subs, id)
		g.l.Unlock()
		if !ok {
			return nil
		}
		return s.Close()
	}, nil
}

// Close closes every subscription. Later appends fail with [ErrClosed].
func (g *Log[T]) Close() error {
	g.l.Lock()
	defer g.l.Unlock()

	if g.closed {
		return nil
	}
	g.closed = true
	var errs []error
	for id, s := range g.subs {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(g.subs, id)
	}
	return errors.Join(errs...)
}
