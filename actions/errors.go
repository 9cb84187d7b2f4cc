// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"errors"

	"github.com/solimare/boatvm/fees"
)

var (
	ErrConfigInactive      = errors.New("config is inactive")
	ErrUnauthorized        = errors.New("unauthorized access")
	ErrNameTooLong         = errors.New("name too long (max 50 characters)")
	ErrDescriptionTooLong  = errors.New("description too long (max 200 characters)")
	ErrRegistrationTooLong = errors.New("registration number too long (max 30 characters)")
	ErrManufacturerTooLong = errors.New("manufacturer name too long (max 50 characters)")
	ErrInvalidYear         = errors.New("invalid year (must be 1901-2030)")
	ErrInvalidLength       = errors.New("invalid length (must be 1-1000ft)")
	ErrInvalidMint         = errors.New("invalid mint")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidTreasury     = errors.New("invalid treasury account")
	ErrInvalidDestination  = errors.New("invalid destination")
	ErrNoChanges           = errors.New("no changes")

	ErrMathOverflow = fees.ErrMathOverflow
)
