// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/consts"
)

const (
	lengthPrefix  = consts.Uint32Len
	batchOverhead = 2 * consts.Uint32Len
)

// CreateBatchMessage packs [msgs] as a count followed by each length-prefixed
// message.
func CreateBatchMessage(maxSize int, msgs [][]byte) ([]byte, error) {
	size := consts.Uint32Len
	for _, msg := range msgs {
		size += codec.BytesLen(msg)
	}
	p := codec.NewWriter(size, maxSize)
	p.PackUint32(uint32(len(msgs)))
	for _, msg := range msgs {
		p.PackBytes(msg)
	}
	return p.Bytes(), p.Err()
}

func ParseBatchMessage(maxSize int, msg []byte) ([][]byte, error) {
	p := codec.NewReader(msg, maxSize)
	count := p.UnpackUint32()
	msgs := [][]byte{}
	for i := uint32(0); i < count && p.Err() == nil; i++ {
		var m []byte
		p.UnpackBytes(maxSize, false, &m)
		msgs = append(msgs, m)
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, codec.ErrExtraBytes
	}
	return msgs, nil
}
