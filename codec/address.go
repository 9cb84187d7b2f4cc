// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/hex"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

const AddressLen = 1 + ids.IDLen

// Address is a type byte followed by a 32 byte ID. The type byte tells
// an account controlled by a key apart from a derived storage address.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// CreateAddress returns [Address] made from concatenating
// [typeID] with [id].
func CreateAddress(typeID uint8, id ids.ID) Address {
	var a Address
	a[0] = typeID
	copy(a[1:], id[:])
	return a
}

// TypeID returns the type byte of a.
func (a Address) TypeID() uint8 {
	return a[0]
}

// ID returns the 32 byte payload of a.
func (a Address) ID() ids.ID {
	return ids.ID(a[1:])
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// MarshalText returns the 0x-prefixed hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	result := make([]byte, len(a)*2+2)
	copy(result, `0x`)
	hex.Encode(result[2:], a[:])
	return result, nil
}

// UnmarshalText parses a hex-encoded address with an optional 0x prefix.
func (a *Address) UnmarshalText(input []byte) error {
	if len(input) >= 2 && input[0] == '0' && input[1] == 'x' {
		input = input[2:]
	}
	decoded, err := hex.DecodeString(string(input))
	if err != nil {
		return err
	}
	if len(decoded) != AddressLen {
		return fmt.Errorf("%w: address is %d bytes", ErrInvalidSize, len(decoded))
	}
	copy(a[:], decoded)
	return nil
}

// ToAddress copies b into an Address, failing on a length mismatch.
func ToAddress(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLen {
		return EmptyAddress, fmt.Errorf("%w: address is %d bytes", ErrInvalidSize, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// AddressBech32 returns a Bech32 address string for [a] under [hrp].
func AddressBech32(hrp string, a Address) string {
	conv, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		// Regrouping 8 to 5 bits with padding cannot fail.
		panic(err)
	}
	s, err := bech32.Encode(hrp, conv)
	if err != nil {
		// Encode only fails on an invalid hrp, which is a programming
		// error for the fixed hrp this VM uses.
		panic(err)
	}
	return s
}

// ParseAddressBech32 parses a Bech32 encoded address string and extracts
// its [Address]. If there is an error reading the address or the hrp value
// is not valid, ParseAddressBech32 returns an error.
func ParseAddressBech32(hrp, saddr string) (Address, error) {
	phrp, data, err := bech32.Decode(saddr)
	if err != nil {
		return EmptyAddress, err
	}
	if phrp != hrp {
		return EmptyAddress, fmt.Errorf("%w: expected %s, got %s", ErrInvalidAddressType, hrp, phrp)
	}
	// Without padding, leftover bits are rejected instead of becoming a
	// trailing byte.
	p, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return EmptyAddress, err
	}
	return ToAddress(p)
}
