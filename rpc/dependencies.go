// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/event"
	"github.com/solimare/boatvm/state"
)

// Controller is what the API servers need from a running node.
type Controller interface {
	chain.Parser

	ChainID() ids.ID
	ValidityWindow() int64
	// Timestamp is the node's current time in milliseconds.
	Timestamp() int64

	Logger() logging.Logger
	Tracer() trace.Tracer

	Submit(ctx context.Context, tx *chain.Transaction) (*chain.Result, error)
	State() state.Immutable
	Database() database.Iteratee
	Events() *event.Log[*chain.EventRecord]
}
