// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import "errors"

var (
	ErrInvalidKeyOrPermission = errors.New("key is not in scope or lacks permission")
	ErrInvalidKeyValue        = errors.New("value exceeds key chunk budget")
	ErrAllocationDisabled     = errors.New("allocation disabled")
)
