// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/solimare/boatvm/consts"
)

// Packer is a wrapper struct for the Packer struct
// from avalanchego/utils/wrappers/packing.go. A bool [required] parameter is
// added to many unpacking methods, which signals the packer to add an error
// if the expected method does not unpack properly.
type Packer struct {
	p *wrappers.Packer
}

// NewReader returns a Packer instance with the starting bytes set to [src]
// and a MaxSize of [limit].
func NewReader(src []byte, limit int) *Packer {
	return &Packer{
		p: &wrappers.Packer{Bytes: src, MaxSize: limit},
	}
}

// NewWriter returns a Packer instance with an initial size of [initial] and a
// MaxSize set to [limit].
func NewWriter(initial, limit int) *Packer {
	return &Packer{
		p: &wrappers.Packer{Bytes: make([]byte, 0, initial), MaxSize: limit},
	}
}

// Bytes returns the bytes packed so far.
func (p *Packer) Bytes() []byte {
	return p.p.Bytes
}

// Offset returns the current read/write position.
func (p *Packer) Offset() int {
	return p.p.Offset
}

// Err returns any error encountered while packing or unpacking.
func (p *Packer) Err() error {
	return p.p.Err
}

// Empty reports whether every byte of a reader has been consumed.
func (p *Packer) Empty() bool {
	return p.p.Offset == len(p.p.Bytes)
}

func (p *Packer) addErr(err error) {
	if p.p.Err == nil {
		p.p.Err = err
	}
}

func (p *Packer) PackByte(b byte) {
	p.p.PackByte(b)
}

func (p *Packer) UnpackByte() byte {
	return p.p.UnpackByte()
}

func (p *Packer) PackBool(b bool) {
	p.p.PackBool(b)
}

func (p *Packer) UnpackBool() bool {
	return p.p.UnpackBool()
}

func (p *Packer) PackUint16(v uint16) {
	p.p.PackShort(v)
}

func (p *Packer) UnpackUint16() uint16 {
	return p.p.UnpackShort()
}

func (p *Packer) PackUint32(v uint32) {
	p.p.PackInt(v)
}

func (p *Packer) UnpackUint32() uint32 {
	return p.p.UnpackInt()
}

func (p *Packer) PackUint64(v uint64) {
	p.p.PackLong(v)
}

// UnpackUint64 unpacks a uint64. If [required] is set, a zero value is
// reported as [ErrFieldNotPopulated].
func (p *Packer) UnpackUint64(required bool) uint64 {
	v := p.p.UnpackLong()
	if required && v == 0 {
		p.addErr(fmt.Errorf("%w: Uint64 field is not populated", ErrFieldNotPopulated))
	}
	return v
}

func (p *Packer) PackInt64(v int64) {
	p.p.PackLong(uint64(v))
}

func (p *Packer) UnpackInt64() int64 {
	return int64(p.p.UnpackLong())
}

func (p *Packer) PackID(id ids.ID) {
	p.p.PackFixedBytes(id[:])
}

// UnpackID unpacks an ids.ID into [dest]. If [required] and the unpacked
// ID is empty, the packer records [ErrFieldNotPopulated].
func (p *Packer) UnpackID(required bool, dest *ids.ID) {
	copy((*dest)[:], p.p.UnpackFixedBytes(ids.IDLen))
	if required && *dest == ids.Empty {
		p.addErr(fmt.Errorf("%w: ID field is not populated", ErrFieldNotPopulated))
	}
}

func (p *Packer) PackAddress(a Address) {
	p.p.PackFixedBytes(a[:])
}

// UnpackAddress unpacks an [Address] into [dest]. If [required] and the
// address is empty, the packer records [ErrFieldNotPopulated].
func (p *Packer) UnpackAddress(required bool, dest *Address) {
	copy((*dest)[:], p.p.UnpackFixedBytes(AddressLen))
	if required && *dest == EmptyAddress {
		p.addErr(fmt.Errorf("%w: Address field is not populated", ErrFieldNotPopulated))
	}
}

func (p *Packer) PackFixedBytes(b []byte) {
	p.p.PackFixedBytes(b)
}

func (p *Packer) UnpackFixedBytes(size int, dest *[]byte) {
	copy(*dest, p.p.UnpackFixedBytes(size))
}

// PackBytes packs [b] with a 4 byte length prefix.
func (p *Packer) PackBytes(b []byte) {
	p.p.PackBytes(b)
}

// UnpackBytes unpacks [limit] bytes into [dest]. Otherwise
// if [limit] >= 0, UnpackBytes unpacks a byte slice array into [dest]. If
// [required] is set to true and the amount of bytes written to [dest] is 0,
// UnpackBytes adds an err ErrFieldNotPopulated to the Packer.
func (p *Packer) UnpackBytes(limit int, required bool, dest *[]byte) {
	if limit >= 0 {
		start := p.p.Offset
		size := p.p.UnpackInt()
		if int(size) > limit {
			p.p.Offset = start
			p.addErr(fmt.Errorf("%w: %d > %d", ErrTooLarge, size, limit))
			return
		}
		p.p.Offset = start
	}
	*dest = p.p.UnpackBytes()
	if required && len(*dest) == 0 {
		p.addErr(fmt.Errorf("%w: Bytes field is not populated", ErrFieldNotPopulated))
	}
}

// PackString packs [s] with a 2 byte length prefix.
func (p *Packer) PackString(s string) {
	p.p.PackStr(s)
}

// UnpackString unpacks a string of at most [limit] bytes.
func (p *Packer) UnpackString(limit int, required bool) string {
	s := p.p.UnpackStr()
	if len(s) > limit {
		p.addErr(fmt.Errorf("%w: string of %d bytes > %d", ErrTooLarge, len(s), limit))
		return ""
	}
	if required && len(s) == 0 {
		p.addErr(fmt.Errorf("%w: String field is not populated", ErrFieldNotPopulated))
	}
	return s
}

// NewOptionalWriter returns an [OptionalPacker] that writes into a fresh
// Packer of at most [limit] bytes.
func NewOptionalWriter(initial, limit int) *OptionalPacker {
	return &OptionalPacker{
		ip: NewWriter(initial, limit),
	}
}

// StringLen is the packed size of [s].
func StringLen(s string) int {
	return consts.Uint16Len + len(s)
}

// BytesLen is the packed size of [b].
func BytesLen(b []byte) int {
	return consts.IntLen + len(b)
}
