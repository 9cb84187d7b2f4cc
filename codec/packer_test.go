// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/solimare/boatvm/consts"
)

func TestPackerRoundTrip(t *testing.T) {
	require := require.New(t)

	id := ids.GenerateTestID()
	addr := CreateAddress(consts.ED25519ID, id)

	wp := NewWriter(0, consts.MaxInt)
	wp.PackByte(7)
	wp.PackBool(true)
	wp.PackUint16(2030)
	wp.PackUint32(1000)
	wp.PackUint64(25_000_000)
	wp.PackInt64(-1)
	wp.PackID(id)
	wp.PackAddress(addr)
	wp.PackString("Ocean Master 45")
	wp.PackBytes([]byte{1, 2, 3})
	require.NoError(wp.Err())

	rp := NewReader(wp.Bytes(), consts.MaxInt)
	require.Equal(byte(7), rp.UnpackByte())
	require.True(rp.UnpackBool())
	require.Equal(uint16(2030), rp.UnpackUint16())
	require.Equal(uint32(1000), rp.UnpackUint32())
	require.Equal(uint64(25_000_000), rp.UnpackUint64(true))
	require.Equal(int64(-1), rp.UnpackInt64())
	var rid ids.ID
	rp.UnpackID(true, &rid)
	require.Equal(id, rid)
	var raddr Address
	rp.UnpackAddress(true, &raddr)
	require.Equal(addr, raddr)
	require.Equal("Ocean Master 45", rp.UnpackString(50, true))
	var b []byte
	rp.UnpackBytes(3, true, &b)
	require.Equal([]byte{1, 2, 3}, b)
	require.NoError(rp.Err())
	require.True(rp.Empty())
}

func TestPackerRequiredUnpack(t *testing.T) {
	require := require.New(t)

	wp := NewWriter(0, consts.MaxInt)
	wp.PackAddress(EmptyAddress)
	rp := NewReader(wp.Bytes(), consts.MaxInt)
	var a Address
	rp.UnpackAddress(true, &a)
	require.ErrorIs(rp.Err(), ErrFieldNotPopulated)
}

func TestPackerStringLimit(t *testing.T) {
	require := require.New(t)

	wp := NewWriter(0, consts.MaxInt)
	wp.PackString("this name is far too long")
	rp := NewReader(wp.Bytes(), consts.MaxInt)
	require.Empty(rp.UnpackString(4, false))
	require.ErrorIs(rp.Err(), ErrTooLarge)
}

func TestPackerBytesLimit(t *testing.T) {
	require := require.New(t)

	wp := NewWriter(0, consts.MaxInt)
	wp.PackBytes(make([]byte, 10))
	rp := NewReader(wp.Bytes(), consts.MaxInt)
	var b []byte
	rp.UnpackBytes(9, false, &b)
	require.ErrorIs(rp.Err(), ErrTooLarge)
}

func TestPackerWriterLimit(t *testing.T) {
	require := require.New(t)

	wp := NewWriter(0, 4)
	wp.PackUint64(1)
	require.Error(wp.Err())
}

func TestOptionalPacker(t *testing.T) {
	require := require.New(t)

	desc := "Recently serviced"
	forSale := false
	op := NewOptionalWriter(0, consts.MaxInt)
	op.PackString(&desc)
	op.PackInt64(nil)
	op.PackBool(&forSale)
	require.NoError(op.Err())

	wp := NewWriter(0, consts.MaxInt)
	wp.PackOptional(op)
	require.NoError(wp.Err())

	rp := NewReader(wp.Bytes(), consts.MaxInt)
	or := rp.NewOptionalReader()
	rdesc := or.UnpackString(200)
	require.NotNil(rdesc)
	require.Equal(desc, *rdesc)
	require.Nil(or.UnpackInt64())
	rforSale := or.UnpackBool()
	require.NotNil(rforSale)
	require.False(*rforSale)
	require.NoError(rp.Err())
	require.True(rp.Empty())
}
