// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package derive computes registry-owned addresses.
//
// A derived address is the hash of a namespace tag, the identifying fields
// and a one byte nonce. The nonce is picked so the hash is not the
// encoding of a point on the ed25519 curve, which means no private key can
// sign for the address. Derived addresses also carry their own type byte,
// so they can never collide with an account address.
package derive

import (
	"encoding/binary"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/consts"
)

const (
	ConfigTag = "config"
	MintTag   = "mint"
	BoatTag   = "boat"
)

var (
	ErrNoViableNonce   = errors.New("no viable nonce")
	ErrAddressMismatch = errors.New("derived address mismatch")
)

func digest(tag string, nonce uint8, fields [][]byte) []byte {
	size := 2 + len(tag) + 1 + ids.IDLen
	for _, f := range fields {
		size += 4 + len(f)
	}
	b := make([]byte, 0, size)
	b = binary.BigEndian.AppendUint16(b, uint16(len(tag)))
	b = append(b, tag...)
	for _, f := range fields {
		b = binary.BigEndian.AppendUint32(b, uint32(len(f)))
		b = append(b, f...)
	}
	b = append(b, nonce)
	b = append(b, consts.ID[:]...)
	return hashing.ComputeHash256(b)
}

func onCurve(h []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(h)
	return err == nil
}

// Address returns the first off-curve address for [tag] and [fields],
// searching nonces from 255 down to 0.
func Address(tag string, fields ...[]byte) (codec.Address, uint8, error) {
	for n := int(consts.MaxUint8); n >= 0; n-- {
		h := digest(tag, uint8(n), fields)
		if onCurve(h) {
			continue
		}
		return codec.CreateAddress(consts.DerivedID, ids.ID(h)), uint8(n), nil
	}
	return codec.EmptyAddress, 0, ErrNoViableNonce
}

// Verify checks that [addr] is what [tag], [fields] and [nonce] derive to.
func Verify(addr codec.Address, nonce uint8, tag string, fields ...[]byte) error {
	h := digest(tag, nonce, fields)
	if onCurve(h) {
		return fmt.Errorf("%w: nonce %d is on curve", ErrAddressMismatch, nonce)
	}
	if codec.CreateAddress(consts.DerivedID, ids.ID(h)) != addr {
		return fmt.Errorf("%w: %s", ErrAddressMismatch, addr)
	}
	return nil
}

// Config returns the config address of [authority].
func Config(authority codec.Address) (codec.Address, uint8, error) {
	return Address(ConfigTag, authority[:])
}

// Mint returns the ownership unit id for a boat registered by [owner].
func Mint(owner codec.Address, registrationNumber string) (codec.Address, uint8, error) {
	return Address(MintTag, owner[:], []byte(registrationNumber))
}

// Boat returns the record address of ownership unit [unit].
func Boat(unit codec.Address) (codec.Address, uint8, error) {
	return Address(BoatTag, unit[:])
}
