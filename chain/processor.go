// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/solimare/boatvm/event"
	"github.com/solimare/boatvm/ledger"
	"github.com/solimare/boatvm/lockmap"
	"github.com/solimare/boatvm/state"
	"github.com/solimare/boatvm/storage"
	"github.com/solimare/boatvm/tstate"

	oteltrace "go.opentelemetry.io/otel/trace"
)

type Config struct {
	ChainID ids.ID
	// ValidityWindow is how far in the future (ms) a transaction may expire.
	ValidityWindow int64
}

// AcceptedFunc is called after a transaction is committed.
type AcceptedFunc func(tx *Transaction, result *Result)

// Processor runs transactions one action at a time. Transactions touching
// disjoint keys run in parallel; conflicting ones wait on each other's key
// locks.
type Processor struct {
	config   Config
	log      logging.Logger
	tracer   trace.Tracer
	metrics  *metrics
	clock    mockable.Clock
	db       database.Database
	locks    *lockmap.Lockmap
	units    ledger.Units
	currency ledger.Currency
	events   *event.Log[*EventRecord]

	l         sync.RWMutex
	closed    bool
	listeners []AcceptedFunc
}

func NewProcessor(
	config Config,
	log logging.Logger,
	tracer trace.Tracer,
	registerer prometheus.Registerer,
	db database.Database,
	units ledger.Units,
	currency ledger.Currency,
	events *event.Log[*EventRecord],
) (*Processor, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &Processor{
		config:   config,
		log:      log,
		tracer:   tracer,
		metrics:  m,
		db:       db,
		locks:    lockmap.New(128),
		units:    units,
		currency: currency,
		events:   events,
	}, nil
}

// Clock is the time source used for validity checks and block time.
func (p *Processor) Clock() *mockable.Clock {
	return &p.clock
}

// OnAccepted registers [f] for every committed transaction.
func (p *Processor) OnAccepted(f AcceptedFunc) {
	p.l.Lock()
	defer p.l.Unlock()

	p.listeners = append(p.listeners, f)
}

// State is a read-only view of committed state.
func (p *Processor) State() state.Immutable {
	return state.NewReader(p.db)
}

// Events is the log committed events are published to.
func (p *Processor) Events() *event.Log[*EventRecord] {
	return p.events
}

// Execute verifies [tx], runs its action and commits the result. On any
// error nothing is written and no event is published.
func (p *Processor) Execute(ctx context.Context, tx *Transaction) (*Result, error) {
	ctx, span := p.tracer.Start(ctx, "Processor.Execute", oteltrace.WithAttributes(
		attribute.String("txID", tx.ID().String()),
		attribute.Int("action", int(tx.Action.GetTypeID())),
	))
	defer span.End()

	p.l.RLock()
	defer p.l.RUnlock()
	if p.closed {
		return nil, ErrProcessorClosed
	}

	now := p.clock.Time()
	if err := p.verify(ctx, tx, now.UnixMilli()); err != nil {
		p.metrics.txsRejected.Inc()
		return nil, err
	}
	stateKeys, err := tx.StateKeys()
	if err != nil {
		p.metrics.txsRejected.Inc()
		return nil, err
	}

	unlock := p.lock(stateKeys)
	defer unlock()

	start := time.Now()
	result, err := p.execute(ctx, tx, stateKeys, now.Unix())
	if err != nil {
		p.metrics.txsFailed.Inc()
		p.log.Debug("transaction failed",
			zap.Stringer("txID", tx.ID()),
			zap.Uint8("action", tx.Action.GetTypeID()),
			zap.Error(err),
		)
		return nil, err
	}
	p.metrics.executeTime.Observe(time.Since(start).Seconds())
	p.metrics.txsAccepted.Inc()
	p.metrics.eventsEmitted.Add(float64(len(result.Events)))

	// Publishing while the keys are still locked keeps events of conflicting
	// transactions in commit order.
	if len(result.Events) > 0 {
		if err := p.events.Append(ctx, result.Events...); err != nil {
			p.log.Warn("event subscriber failed",
				zap.Stringer("txID", tx.ID()),
				zap.Error(err),
			)
		}
	}
	for _, f := range p.listeners {
		f(tx, result)
	}
	return result, nil
}

func (p *Processor) verify(ctx context.Context, tx *Transaction, now int64) error {
	_, span := p.tracer.Start(ctx, "Processor.verify")
	defer span.End()

	if err := tx.Base.Execute(p.config.ChainID, p.config.ValidityWindow, now); err != nil {
		return err
	}
	return tx.Verify(ctx)
}

// lock takes every key of [stateKeys] in sorted order and returns the func
// releasing them.
func (p *Processor) lock(stateKeys state.Keys) func() {
	sorted := stateKeys.Sorted()
	for _, k := range sorted {
		if stateKeys[k].Mutates() {
			p.locks.Lock(k)
		} else {
			p.locks.RLock(k)
		}
	}
	return func() {
		for i := len(sorted) - 1; i >= 0; i-- {
			k := sorted[i]
			if stateKeys[k].Mutates() {
				p.locks.Unlock(k)
			} else {
				p.locks.RUnlock(k)
			}
		}
	}
}

func (p *Processor) execute(ctx context.Context, tx *Transaction, stateKeys state.Keys, blockTime int64) (*Result, error) {
	ctx, span := p.tracer.Start(ctx, "Processor.execute")
	defer span.End()

	values := make(map[string][]byte, len(stateKeys))
	for k := range stateKeys {
		v, err := p.db.Get([]byte(k))
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		values[k] = v
	}
	view := tstate.NewView(stateKeys, values)

	txID := tx.ID()
	seen, err := storage.HasTransaction(ctx, view, txID)
	if err != nil {
		return nil, err
	}
	if seen {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTx, txID)
	}

	host := &txHost{units: p.units, currency: p.currency}
	if err := tx.Action.Execute(ctx, host, view, blockTime, tx.Actor(), txID); err != nil {
		return nil, err
	}
	if err := storage.StoreTransaction(ctx, view, txID, tx.Base.Timestamp); err != nil {
		return nil, err
	}
	records, err := newEventRecords(txID, blockTime, host.events)
	if err != nil {
		return nil, err
	}

	batch := p.db.NewBatch()
	if err := view.WriteTo(batch); err != nil {
		return nil, err
	}
	if err := batch.Write(); err != nil {
		return nil, err
	}
	return &Result{TxID: txID, Events: records}, nil
}

// Close stops accepting transactions and closes the event log.
func (p *Processor) Close() error {
	p.l.Lock()
	defer p.l.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.events.Close()
}
