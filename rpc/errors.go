// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import "errors"

var (
	ErrClosed         = errors.New("closed")
	ErrMessageMissing = errors.New("message missing")
	ErrUnknownMode    = errors.New("unknown message mode")
	ErrTxFailed       = errors.New("transaction failed")
	ErrBacklogFull    = errors.New("transaction backlog full")
)
