// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"

	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/consts"
	"github.com/solimare/boatvm/pubsub"
)

type WebSocketClient struct {
	conn   *websocket.Conn
	decode EventDecoder

	mb           *pubsub.MessageBuffer
	writeStopped chan struct{}
	readStopped  chan struct{}

	pendingEvents chan []byte
	pendingTxs    chan []byte

	startedClose bool
	err          error
	errl         sync.Once
	cl           sync.Once
}

// NewWebSocketClient dials the event stream of the node at [uri].
func NewWebSocketClient(
	uri string,
	handshakeTimeout time.Duration,
	pending int,
	maxSize int,
	decode EventDecoder,
) (*WebSocketClient, error) {
	uri = strings.Replace(strings.TrimSuffix(uri, "/"), "http", "ws", 1) + WebSocketEndpoint
	dialer := &websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
		ReadBufferSize:   pubsub.ReadBufferSize,
		WriteBufferSize:  pubsub.WriteBufferSize,
	}
	conn, resp, err := dialer.Dial(uri, nil)
	if err != nil {
		return nil, err
	}
	// not using resp for now
	resp.Body.Close()
	wc := &WebSocketClient{
		conn:          conn,
		decode:        decode,
		mb:            pubsub.NewMessageBuffer(logging.NoLog{}, pending, maxSize, pubsub.MaxMessageWait),
		writeStopped:  make(chan struct{}),
		readStopped:   make(chan struct{}),
		pendingEvents: make(chan []byte, pending),
		pendingTxs:    make(chan []byte, pending),
	}
	go wc.readPump()
	go wc.writePump()
	return wc, nil
}

func (c *WebSocketClient) readPump() {
	defer close(c.readStopped)

	for {
		_, msgBatch, err := c.conn.ReadMessage()
		if err != nil {
			c.errl.Do(func() { c.err = err })
			return
		}
		msgs, err := pubsub.ParseBatchMessage(consts.NetworkSizeLimit, msgBatch)
		if err != nil {
			c.errl.Do(func() { c.err = err })
			return
		}
		for _, msg := range msgs {
			if len(msg) == 0 {
				continue
			}
			switch msg[0] {
			case EventMode:
				c.pendingEvents <- msg
			case TxMode:
				c.pendingTxs <- msg
			}
		}
	}
}

func (c *WebSocketClient) writePump() {
	defer close(c.writeStopped)

	for msg := range c.mb.Queue {
		if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
			c.errl.Do(func() { c.err = err })
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// Subscribe asks for every event after [since] followed by all new ones.
func (c *WebSocketClient) Subscribe(since uint64) error {
	if c.startedClose {
		return ErrClosed
	}
	return c.mb.Send(PackSubscribeMessage(since))
}

// ListenEvent blocks until the next event arrives.
func (c *WebSocketClient) ListenEvent(ctx context.Context) (*EventReply, error) {
	select {
	case msg := <-c.pendingEvents:
		e, err := UnpackEventMessage(msg)
		if err != nil {
			return nil, err
		}
		if c.decode != nil {
			e.Event, err = c.decode(e.Data)
			if err != nil {
				return nil, err
			}
		}
		return e, nil
	case <-c.readStopped:
		return nil, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RegisterTx sends [tx] to be executed. Its outcome is returned by
// [ListenTx].
func (c *WebSocketClient) RegisterTx(tx *chain.Transaction) error {
	if c.startedClose {
		return ErrClosed
	}
	return c.mb.Send(append([]byte{TxMode}, tx.Bytes()...))
}

// ListenTx returns the next transaction outcome: its ID, the reason it
// failed (nil once committed) and any error reading it.
func (c *WebSocketClient) ListenTx(ctx context.Context) (ids.ID, error, error) {
	select {
	case msg := <-c.pendingTxs:
		return UnpackTxMessage(msg)
	case <-c.readStopped:
		return ids.Empty, nil, c.err
	case <-ctx.Done():
		return ids.Empty, nil, ctx.Err()
	}
}

// Close flushes pending writes and closes the connection.
func (c *WebSocketClient) Close() error {
	var err error
	c.cl.Do(func() {
		c.startedClose = true

		// Flush all messages before closing
		if err = c.mb.Close(); err != nil {
			return
		}
		<-c.writeStopped
		err = c.conn.Close()
	})
	return err
}
