// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"fmt"

	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/state"
	"github.com/solimare/boatvm/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

var (
	_ Units    = StateUnits{}
	_ Currency = StateCurrency{}
)

// StateUnits keeps unit supplies and balances in state.
type StateUnits struct{}

func (StateUnits) Issue(ctx context.Context, mu state.Mutable, unit codec.Address, to codec.Address) error {
	_, exists, err := storage.GetUnitSupply(ctx, mu, unit)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrUnitExists, unit)
	}
	if err := storage.SetUnitSupply(ctx, mu, unit, 1); err != nil {
		return err
	}
	return storage.SetUnitBalance(ctx, mu, unit, to, 1)
}

func (StateUnits) Transfer(
	ctx context.Context,
	mu state.Mutable,
	unit codec.Address,
	from codec.Address,
	to codec.Address,
	amount uint64,
) error {
	_, exists, err := storage.GetUnitSupply(ctx, mu, unit)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrUnitNotFound, unit)
	}
	fromBal, err := storage.GetUnitBalance(ctx, mu, unit, from)
	if err != nil {
		return err
	}
	nfromBal, err := smath.Sub(fromBal, amount)
	if err != nil {
		return fmt.Errorf("%w: holder=%d amount=%d", ErrInsufficientBalance, fromBal, amount)
	}
	if from == to {
		return nil
	}
	toBal, err := storage.GetUnitBalance(ctx, mu, unit, to)
	if err != nil {
		return err
	}
	ntoBal, err := smath.Add(toBal, amount)
	if err != nil {
		return err
	}
	if err := storage.SetUnitBalance(ctx, mu, unit, from, nfromBal); err != nil {
		return err
	}
	return storage.SetUnitBalance(ctx, mu, unit, to, ntoBal)
}

func (StateUnits) BalanceOf(ctx context.Context, im state.Immutable, unit codec.Address, owner codec.Address) (uint64, error) {
	return storage.GetUnitBalance(ctx, im, unit, owner)
}

// StateCurrency keeps native balances in state.
type StateCurrency struct{}

func (StateCurrency) Transfer(ctx context.Context, mu state.Mutable, from codec.Address, to codec.Address, amount uint64) error {
	fromBal, err := storage.GetBalance(ctx, mu, from)
	if err != nil {
		return err
	}
	nfromBal, err := smath.Sub(fromBal, amount)
	if err != nil {
		return fmt.Errorf("%w: balance=%d amount=%d", ErrInsufficientBalance, fromBal, amount)
	}
	if from == to {
		return nil
	}
	if err := storage.SetBalance(ctx, mu, from, nfromBal); err != nil {
		return err
	}
	return storage.AddBalance(ctx, mu, to, amount)
}

func (StateCurrency) Balance(ctx context.Context, im state.Immutable, addr codec.Address) (uint64, error) {
	return storage.GetBalance(ctx, im, addr)
}
