// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package keys encodes the maximum value size of a state key into the key
// itself, so storage can reject an oversized value without a schema.
package keys

import (
	"encoding/binary"

	"github.com/solimare/boatvm/consts"
)

const chunkSize = 64 // bytes

func Valid(key []byte) bool {
	return len(key) >= consts.Uint16Len
}

// MaxChunks returns the chunk budget suffixed to [key].
func MaxChunks(key []byte) (uint16, bool) {
	l := len(key)
	if l < consts.Uint16Len {
		return 0, false
	}
	return binary.BigEndian.Uint16(key[l-consts.Uint16Len:]), true
}

// NumChunks returns the number of chunks needed to hold [value].
func NumChunks(value []byte) (uint16, bool) {
	return numChunks(len(value))
}

func numChunks(valueLen int) (uint16, bool) {
	if valueLen == 0 {
		return 0, true
	}
	raw := (valueLen + chunkSize - 1) / chunkSize
	if raw > int(consts.MaxUint16) {
		return 0, false
	}
	return uint16(raw), true
}

// ChunksFor returns the chunk budget for values of at most [maxSize] bytes.
func ChunksFor(maxSize int) uint16 {
	c, ok := numChunks(maxSize)
	if !ok {
		return consts.MaxUint16
	}
	return c
}

// VerifyValue reports whether [value] fits the budget encoded in [key].
func VerifyValue(key []byte, value []byte) bool {
	valueChunks, ok := NumChunks(value)
	if !ok {
		return false
	}
	keyChunks, ok := MaxChunks(key)
	if !ok {
		return false
	}
	return valueChunks <= keyChunks
}

// EncodeChunks appends the chunk budget to [key].
func EncodeChunks(key []byte, maxChunks uint16) []byte {
	return binary.BigEndian.AppendUint16(key, maxChunks)
}
