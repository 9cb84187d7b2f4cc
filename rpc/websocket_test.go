// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/solimare/boatvm/actions"
	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/pubsub"
)

func newWebSocketClient(t *testing.T, n *testNode) *WebSocketClient {
	cli, err := NewWebSocketClient(
		n.server.URL,
		5*time.Second,
		pubsub.MaxPendingMessages,
		pubsub.MaxReadMessageSize,
		actions.DecodeEvent,
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cli.Close() })
	return cli
}

func TestWebSocketEvents(t *testing.T) {
	require := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n := newTestNode(t)
	authority := newFactory(t)
	alice := newFactory(t)
	treasury := newFactory(t).Address()
	n.controller.fund(t, alice.Address())

	_, err := n.client.Execute(ctx, &actions.InitializeConfig{FeeBps: 0, Treasury: treasury}, authority)
	require.NoError(err)

	// Backfill starts after the requested sequence number.
	ws := newWebSocketClient(t, n)
	require.NoError(ws.Subscribe(0))
	e, err := ws.ListenEvent(ctx)
	require.NoError(err)
	require.Equal(uint64(1), e.Seq)
	require.IsType(&actions.ConfigInitialized{}, e.Event)
	require.Eventually(func() bool {
		return n.ws.Listeners() == 1
	}, 5*time.Second, 10*time.Millisecond)

	configAddr, _, err := n.client.Config(ctx, authority.Address())
	require.NoError(err)
	_, err = n.client.Execute(ctx, testBoat(configAddr, treasury, "OR-7"), alice)
	require.NoError(err)

	// A zero fee emits no FeeCollected.
	e, err = ws.ListenEvent(ctx)
	require.NoError(err)
	require.Equal(uint64(2), e.Seq)
	minted, ok := e.Event.(*actions.BoatMinted)
	require.True(ok)
	require.Equal("OR-7", minted.RegistrationNumber)
	require.Zero(minted.Fee)

	// Closing the server drops its subscribers.
	require.NoError(n.ws.Close())
	require.Zero(n.ws.Listeners())
}

func TestWebSocketSubmitTx(t *testing.T) {
	require := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n := newTestNode(t)
	authority := newFactory(t)
	ws := newWebSocketClient(t, n)

	tx, err := n.client.GenerateTransaction(ctx, &actions.InitializeConfig{FeeBps: 50, Treasury: codec.EmptyAddress}, authority)
	require.NoError(err)
	require.NoError(ws.RegisterTx(tx))
	txID, txErr, err := ws.ListenTx(ctx)
	require.NoError(err)
	require.NoError(txErr)
	require.Equal(tx.ID(), txID)

	// The second attempt is a duplicate.
	require.NoError(ws.RegisterTx(tx))
	txID, txErr, err = ws.ListenTx(ctx)
	require.NoError(err)
	require.ErrorIs(txErr, ErrTxFailed)
	require.ErrorContains(txErr, chain.ErrDuplicateTx.Error())
	require.Equal(tx.ID(), txID)
}

func TestWebSocketPacker(t *testing.T) {
	require := require.New(t)

	since, err := UnpackSubscribeMessage(PackSubscribeMessage(42))
	require.NoError(err)
	require.Equal(uint64(42), since)

	record := &chain.EventRecord{
		TxID:      ids.GenerateTestID(),
		Timestamp: 1_700_000_000,
		Index:     1,
		Name:      "FeeCollected",
		Data:      []byte{1, 2, 3},
	}
	msg, err := PackEventMessage(7, record)
	require.NoError(err)
	e, err := UnpackEventMessage(msg)
	require.NoError(err)
	require.Equal(uint64(7), e.Seq)
	require.Equal(record.TxID, e.TxID)
	require.Equal(record.Timestamp, e.Timestamp)
	require.Equal(record.Index, e.Index)
	require.Equal(record.Name, e.Name)
	require.Equal(record.Data, e.Data)

	_, err = UnpackEventMessage(append(msg, 0))
	require.ErrorIs(err, codec.ErrExtraBytes)
	_, err = UnpackSubscribeMessage(msg)
	require.ErrorIs(err, ErrUnknownMode)

	txID := ids.GenerateTestID()
	msg, err = PackTxMessage(txID, nil)
	require.NoError(err)
	gotID, txErr, err := UnpackTxMessage(msg)
	require.NoError(err)
	require.NoError(txErr)
	require.Equal(txID, gotID)

	msg, err = PackTxMessage(txID, chain.ErrExpired)
	require.NoError(err)
	_, txErr, err = UnpackTxMessage(msg)
	require.NoError(err)
	require.ErrorIs(txErr, ErrTxFailed)
	require.ErrorContains(txErr, chain.ErrExpired.Error())
}
