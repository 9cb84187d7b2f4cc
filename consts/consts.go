// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	ByteLen   = 1
	BoolLen   = 1
	IDLen     = 32
	Uint8Len  = 1
	Uint16Len = 2
	Uint32Len = 4
	IntLen    = 4
	Uint64Len = 8
	Int64Len  = 8

	MaxUint8        = ^uint8(0)
	MaxUint16       = ^uint16(0)
	MaxUint64       = ^uint64(0)
	MaxUint         = ^uint(0)
	MaxInt          = int(MaxUint >> 1)
	MaxUint64Offset = 63

	MillisecondsPerSecond = 1000

	// NetworkSizeLimit bounds any single encoded transaction.
	NetworkSizeLimit = 2_044_723
)
