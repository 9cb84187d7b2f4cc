// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/consts"
)

const (
	EventMode     byte = 0
	TxMode        byte = 1
	SubscribeMode byte = 2

	maxEventNameLen = 64
	maxErrorLen     = 256
)

func PackSubscribeMessage(since uint64) []byte {
	p := codec.NewWriter(consts.ByteLen+consts.Uint64Len, consts.ByteLen+consts.Uint64Len)
	p.PackByte(SubscribeMode)
	p.PackUint64(since)
	return p.Bytes()
}

func UnpackSubscribeMessage(msg []byte) (uint64, error) {
	p := codec.NewReader(msg, consts.ByteLen+consts.Uint64Len)
	if mode := p.UnpackByte(); mode != SubscribeMode {
		return 0, ErrUnknownMode
	}
	since := p.UnpackUint64(false)
	if err := p.Err(); err != nil {
		return 0, err
	}
	if !p.Empty() {
		return 0, codec.ErrExtraBytes
	}
	return since, nil
}

func PackEventMessage(seq uint64, r *chain.EventRecord) ([]byte, error) {
	size := consts.ByteLen + consts.Uint64Len + consts.IDLen + consts.Int64Len +
		consts.Uint32Len + codec.StringLen(r.Name) + codec.BytesLen(r.Data)
	p := codec.NewWriter(size, consts.NetworkSizeLimit)
	p.PackByte(EventMode)
	p.PackUint64(seq)
	p.PackID(r.TxID)
	p.PackInt64(r.Timestamp)
	p.PackUint32(uint32(r.Index))
	p.PackString(r.Name)
	p.PackBytes(r.Data)
	return p.Bytes(), p.Err()
}

// UnpackEventMessage parses an event message. The returned reply has no
// decoded Event.
func UnpackEventMessage(msg []byte) (*EventReply, error) {
	p := codec.NewReader(msg, consts.NetworkSizeLimit)
	if mode := p.UnpackByte(); mode != EventMode {
		return nil, ErrUnknownMode
	}
	var e EventReply
	e.Seq = p.UnpackUint64(true)
	p.UnpackID(true, &e.TxID)
	e.Timestamp = p.UnpackInt64()
	e.Index = int(p.UnpackUint32())
	e.Name = p.UnpackString(maxEventNameLen, true)
	p.UnpackBytes(consts.NetworkSizeLimit, true, &e.Data)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, codec.ErrExtraBytes
	}
	return &e, nil
}

// PackTxMessage reports the outcome of a transaction submitted over the
// websocket. A nil [txErr] means the transaction was committed.
func PackTxMessage(txID ids.ID, txErr error) ([]byte, error) {
	var errMsg string
	if txErr != nil {
		errMsg = txErr.Error()
		if len(errMsg) > maxErrorLen {
			errMsg = errMsg[:maxErrorLen]
		}
	}
	size := consts.ByteLen + consts.IDLen + consts.BoolLen + codec.StringLen(errMsg)
	p := codec.NewWriter(size, size)
	p.PackByte(TxMode)
	p.PackID(txID)
	p.PackBool(txErr == nil)
	p.PackString(errMsg)
	return p.Bytes(), p.Err()
}

// UnpackTxMessage returns the transaction, the reason it failed (if it did)
// and any error parsing [msg].
func UnpackTxMessage(msg []byte) (ids.ID, error, error) {
	p := codec.NewReader(msg, consts.NetworkSizeLimit)
	if mode := p.UnpackByte(); mode != TxMode {
		return ids.Empty, nil, ErrUnknownMode
	}
	var txID ids.ID
	p.UnpackID(false, &txID)
	success := p.UnpackBool()
	errMsg := p.UnpackString(maxErrorLen, false)
	if err := p.Err(); err != nil {
		return ids.Empty, nil, err
	}
	if !p.Empty() {
		return ids.Empty, nil, codec.ErrExtraBytes
	}
	if success {
		return txID, nil, nil
	}
	return txID, fmt.Errorf("%w: %s", ErrTxFailed, errMsg), nil
}
