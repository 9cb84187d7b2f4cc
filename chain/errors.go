// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "errors"

var (
	// Parsing
	ErrInvalidObject  = errors.New("invalid object")
	ErrMisalignedTime = errors.New("misaligned time")

	// Verify
	ErrExpired           = errors.New("transaction expired")
	ErrTimestampTooEarly = errors.New("timestamp too early")
	ErrInvalidChainID    = errors.New("invalid chain ID")
	ErrDuplicateTx       = errors.New("duplicate transaction")
	ErrInvalidKeyValue   = errors.New("invalid key or value")

	// Processor
	ErrProcessorClosed = errors.New("processor closed")
)
