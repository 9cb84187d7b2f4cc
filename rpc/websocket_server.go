// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"

	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/event"
	"github.com/solimare/boatvm/pubsub"
)

type txWrapper struct {
	msg []byte
	c   *pubsub.Connection
}

// WebSocketServer streams committed events to subscribed connections and
// executes transactions sent over the socket.
type WebSocketServer struct {
	c Controller
	s *pubsub.Server

	l sync.Mutex
	// listeners maps each subscriber to the newest sequence number it was
	// sent while backfilling.
	listeners   map[*pubsub.Connection]uint64
	unsubscribe func() error

	incomingTransactions chan *txWrapper
	stop                 chan struct{}
	workers              sync.WaitGroup
	stopOnce             sync.Once
}

func NewWebSocketServer(
	c Controller,
	config pubsub.ServerConfig,
	cores int,
	backlog int,
) (*WebSocketServer, *pubsub.Server, error) {
	w := &WebSocketServer{
		c:                    c,
		listeners:            map[*pubsub.Connection]uint64{},
		incomingTransactions: make(chan *txWrapper, backlog),
		stop:                 make(chan struct{}),
	}
	w.s = pubsub.New(c.Logger(), config, w.MessageCallback())
	unsubscribe, err := c.Events().Subscribe(event.SubscriptionFunc[event.Record[*chain.EventRecord]]{
		AcceptF: w.accept,
		CloseF:  w.dropListeners,
	})
	if err != nil {
		return nil, nil, err
	}
	w.unsubscribe = unsubscribe
	for i := 0; i < cores; i++ {
		w.workers.Add(1)
		go w.startWorker()
	}
	return w, w.s, nil
}

func (w *WebSocketServer) startWorker() {
	defer w.workers.Done()

	log := w.c.Logger()
	for {
		select {
		case txw := <-w.incomingTransactions:
			ctx := context.TODO()
			tx, err := chain.UnmarshalTx(txw.msg, w.c.ActionRegistry(), w.c.AuthRegistry())
			if err != nil {
				log.Debug("failed to unmarshal tx",
					zap.Int("len", len(txw.msg)),
					zap.Error(err),
				)
				w.reply(txw.c, ids.Empty, err)
				continue
			}
			_, err = w.c.Submit(ctx, tx)
			if err != nil {
				log.Debug("failed to submit tx",
					zap.Stringer("txID", tx.ID()),
					zap.Error(err),
				)
			}
			w.reply(txw.c, tx.ID(), err)
		case <-w.stop:
			return
		}
	}
}

func (w *WebSocketServer) reply(c *pubsub.Connection, txID ids.ID, txErr error) {
	msg, err := PackTxMessage(txID, txErr)
	if err != nil {
		w.c.Logger().Error("failed to pack tx message", zap.Error(err))
		return
	}
	c.Send(msg)
}

// subscribe backfills [c] with every event after [since] and registers it
// for new ones.
func (w *WebSocketServer) subscribe(c *pubsub.Connection, since uint64) {
	w.l.Lock()
	defer w.l.Unlock()

	records := w.c.Events().Since(since)
	last := since
	for _, r := range records {
		msg, err := PackEventMessage(r.Seq, r.Value)
		if err != nil {
			w.c.Logger().Error("failed to pack event", zap.Error(err))
			return
		}
		if !c.Send(msg) {
			return
		}
		last = r.Seq
	}
	w.listeners[c] = last
}

// accept publishes [r] to every listener whose backfill did not already
// include it.
func (w *WebSocketServer) accept(_ context.Context, r event.Record[*chain.EventRecord]) error {
	w.l.Lock()
	defer w.l.Unlock()

	if len(w.listeners) == 0 {
		return nil
	}
	msg, err := PackEventMessage(r.Seq, r.Value)
	if err != nil {
		return err
	}
	toConns := pubsub.NewConnections()
	for c, last := range w.listeners {
		if last < r.Seq {
			toConns.Add(c)
		}
	}
	for _, c := range w.s.Publish(msg, toConns) {
		delete(w.listeners, c)
	}
	return nil
}

// dropListeners forgets every subscriber once no more events can arrive.
func (w *WebSocketServer) dropListeners() error {
	w.l.Lock()
	defer w.l.Unlock()

	clear(w.listeners)
	return nil
}

// MessageCallback routes subscribe requests and transactions sent by
// connections.
func (w *WebSocketServer) MessageCallback() pubsub.Callback {
	log := w.c.Logger()

	return func(msgBytes []byte, c *pubsub.Connection) {
		if len(msgBytes) == 0 {
			log.Debug("failed to unmarshal msg",
				zap.Int("len", len(msgBytes)),
			)
			return
		}

		switch msgBytes[0] {
		case SubscribeMode:
			since, err := UnpackSubscribeMessage(msgBytes)
			if err != nil {
				log.Debug("failed to unmarshal subscribe msg", zap.Error(err))
				return
			}
			w.subscribe(c, since)
		case TxMode:
			select {
			case w.incomingTransactions <- &txWrapper{msg: msgBytes[1:], c: c}:
			default:
				log.Debug("dropping pending tx", zap.Int("backlog", cap(w.incomingTransactions)))
				w.reply(c, ids.Empty, ErrBacklogFull)
			}
		default:
			log.Debug("unexpected message mode",
				zap.Uint8("mode", msgBytes[0]),
			)
		}
	}
}

// Listeners is the number of subscribed connections.
func (w *WebSocketServer) Listeners() int {
	w.l.Lock()
	defer w.l.Unlock()

	return len(w.listeners)
}

// Close stops the workers and drops the event subscription.
func (w *WebSocketServer) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stop)
		w.workers.Wait()
		err = w.unsubscribe()
	})
	return err
}
