// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

//go:generate go run go.uber.org/mock/mockgen -package=ledgermock -destination=ledgermock/mock_ledger.go . Units,Currency

// Package ledger holds the two balances the registry relies on: ownership
// units (one per boat) and the native currency that pays protocol fees.
package ledger

import (
	"context"
	"errors"

	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/state"
)

var (
	ErrUnitExists          = errors.New("unit already issued")
	ErrUnitNotFound        = errors.New("unit not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Units tracks indivisible ownership units. Every write goes through [mu]
// so it commits or rolls back together with the calling transaction.
type Units interface {
	// Issue creates [unit] with a supply of one, held by [to]. A unit can
	// only be issued once.
	Issue(ctx context.Context, mu state.Mutable, unit codec.Address, to codec.Address) error
	Transfer(ctx context.Context, mu state.Mutable, unit codec.Address, from codec.Address, to codec.Address, amount uint64) error
	BalanceOf(ctx context.Context, im state.Immutable, unit codec.Address, owner codec.Address) (uint64, error)
}

// Currency moves the native currency between accounts.
type Currency interface {
	Transfer(ctx context.Context, mu state.Mutable, from codec.Address, to codec.Address, amount uint64) error
	Balance(ctx context.Context, im state.Immutable, addr codec.Address) (uint64, error)
}
