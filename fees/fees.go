// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fees

import (
	"errors"

	"github.com/holiman/uint256"
)

// BasisPoints is the denominator of a fee rate: 10_000 bps is 100%.
const BasisPoints = 10_000

var ErrMathOverflow = errors.New("math overflow")

var denominator = uint256.NewInt(BasisPoints)

// ProtocolFee returns floor(price * bps / 10_000). The product is computed
// with 256 bits so it cannot wrap; the error is returned only if the
// result does not fit in a uint64, which can happen once bps exceeds
// 10_000.
func ProtocolFee(price uint64, bps uint16) (uint64, error) {
	product, overflow := new(uint256.Int).MulOverflow(
		uint256.NewInt(price),
		uint256.NewInt(uint64(bps)),
	)
	if overflow {
		return 0, ErrMathOverflow
	}
	fee := product.Div(product, denominator)
	if !fee.IsUint64() {
		return 0, ErrMathOverflow
	}
	return fee.Uint64(), nil
}
