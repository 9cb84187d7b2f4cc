// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrAddressInUse     = errors.New("address already in use")
	ErrConfigNotFound   = errors.New("config not found")
	ErrAssetNotFound    = errors.New("asset not found")
	ErrInvalidEncoding  = errors.New("invalid encoding")
	ErrUnknownAssetType = errors.New("unknown asset type")
	ErrAssetTypeTooLong = errors.New("asset type label too long")
)
