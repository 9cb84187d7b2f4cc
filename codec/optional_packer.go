// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"github.com/ava-labs/avalanchego/utils/set"

	"github.com/solimare/boatvm/consts"
)

// OptionalPacker packs a sequence of optional fields behind a 64 bit
// presence bitset. Each Pack/Unpack call consumes one bit, so readers must
// visit fields in the same order writers did.
type OptionalPacker struct {
	b      set.Bits64
	offset uint8
	ip     *Packer
}

// NewOptionalReader reads the presence bitset from [p] and returns a packer
// that unpacks the fields that follow it.
func (p *Packer) NewOptionalReader() *OptionalPacker {
	o := &OptionalPacker{
		ip: p,
	}
	o.b = set.Bits64(o.ip.UnpackUint64(false))
	return o
}

func (o *OptionalPacker) setBit() {
	if o.offset > consts.MaxUint64Offset {
		o.ip.addErr(ErrTooManyItems)
		return
	}
	o.b.Add(uint(o.offset))
	o.offset++
}

func (o *OptionalPacker) skipBit() {
	if o.offset > consts.MaxUint64Offset {
		o.ip.addErr(ErrTooManyItems)
		return
	}
	o.offset++
}

func (o *OptionalPacker) checkBit() bool {
	result := o.b.Contains(uint(o.offset))
	o.offset++
	return result
}

func (o *OptionalPacker) PackString(s *string) {
	if s == nil {
		o.skipBit()
		return
	}
	o.ip.PackString(*s)
	o.setBit()
}

func (o *OptionalPacker) UnpackString(limit int) *string {
	if !o.checkBit() {
		return nil
	}
	s := o.ip.UnpackString(limit, false)
	return &s
}

func (o *OptionalPacker) PackInt64(v *int64) {
	if v == nil {
		o.skipBit()
		return
	}
	o.ip.PackInt64(*v)
	o.setBit()
}

func (o *OptionalPacker) UnpackInt64() *int64 {
	if !o.checkBit() {
		return nil
	}
	v := o.ip.UnpackInt64()
	return &v
}

func (o *OptionalPacker) PackUint16(v *uint16) {
	if v == nil {
		o.skipBit()
		return
	}
	o.ip.PackUint16(*v)
	o.setBit()
}

func (o *OptionalPacker) UnpackUint16() *uint16 {
	if !o.checkBit() {
		return nil
	}
	v := o.ip.UnpackUint16()
	return &v
}

func (o *OptionalPacker) PackBool(v *bool) {
	if v == nil {
		o.skipBit()
		return
	}
	o.ip.PackBool(*v)
	o.setBit()
}

func (o *OptionalPacker) UnpackBool() *bool {
	if !o.checkBit() {
		return nil
	}
	v := o.ip.UnpackBool()
	return &v
}

func (o *OptionalPacker) PackAddress(a *Address) {
	if a == nil {
		o.skipBit()
		return
	}
	o.ip.PackAddress(*a)
	o.setBit()
}

func (o *OptionalPacker) UnpackAddress() *Address {
	if !o.checkBit() {
		return nil
	}
	var a Address
	o.ip.UnpackAddress(false, &a)
	return &a
}

// PackOptional writes the presence bitset followed by the packed fields
// into [p].
func (p *Packer) PackOptional(o *OptionalPacker) {
	p.PackUint64(uint64(o.b))
	p.PackFixedBytes(o.ip.Bytes())
}

// Err returns the first error recorded by the underlying packer.
func (o *OptionalPacker) Err() error {
	return o.ip.Err()
}
