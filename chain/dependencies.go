// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/ledger"
	"github.com/solimare/boatvm/state"
)

type Action interface {
	// GetTypeID uniquely identifies each supported [Action]. We use IDs to
	// avoid using reflection.
	GetTypeID() uint8

	// StateKeys is a full enumeration of all database keys that could be
	// touched during execution of an [Action]. Keys not listed here cannot
	// be read or written, and the processor locks every listed key while the
	// action runs.
	StateKeys(actor codec.Address) state.Keys

	// Execute applies the action to [mu]. Nothing written to [mu] or emitted
	// through [host] survives if Execute returns an error.
	Execute(
		ctx context.Context,
		host Host,
		mu state.Mutable,
		timestamp int64,
		actor codec.Address,
		txID ids.ID,
	) error

	// Size is the number of bytes it takes to represent this [Action]. This
	// is used to preallocate memory during encoding.
	Size() int

	Marshal(p *codec.Packer)
}

type Auth interface {
	// GetTypeID uniquely identifies each supported [Auth]. We use IDs to
	// avoid using reflection.
	GetTypeID() uint8

	// Verify returns an error if the signature over [msg] does not check
	// out.
	Verify(ctx context.Context, msg []byte) error

	// Actor is the account the transaction acts for.
	Actor() codec.Address

	Size() int
	Marshal(p *codec.Packer)
}

type AuthFactory interface {
	Sign(msg []byte) (Auth, error)
	Address() codec.Address
}

// Event is something an action reports as having happened. Events are only
// published once the transaction that emitted them is committed.
type Event interface {
	GetTypeID() uint8
	// Name is the event name used in the wire discriminator.
	Name() string
	// Bytes is the 8 byte discriminator followed by the Borsh payload.
	Bytes() ([]byte, error)
}

// Host is what an action can reach outside of its own state keys.
type Host interface {
	Units() ledger.Units
	Currency() ledger.Currency
	Emit(Event)
}

type (
	ActionRegistry = *codec.TypeParser[Action]
	AuthRegistry   = *codec.TypeParser[Auth]
)

// Parser decodes the actions and auths a node understands.
type Parser interface {
	ActionRegistry() ActionRegistry
	AuthRegistry() AuthRegistry
}
