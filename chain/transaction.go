// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/consts"
	"github.com/solimare/boatvm/keys"
	"github.com/solimare/boatvm/state"
	"github.com/solimare/boatvm/storage"
	"github.com/solimare/boatvm/utils"
)

type Transaction struct {
	Base *Base `json:"base"`

	Action Action `json:"action"`
	Auth   Auth   `json:"auth"`

	digest    []byte
	bytes     []byte
	id        ids.ID
	stateKeys state.Keys
}

func NewTx(base *Base, action Action) *Transaction {
	return &Transaction{
		Base:   base,
		Action: action,
	}
}

// Digest is the message signed by [Auth]: the base followed by the typed
// action.
func (t *Transaction) Digest() ([]byte, error) {
	if len(t.digest) > 0 {
		return t.digest, nil
	}
	size := t.Base.Size() + consts.ByteLen + t.Action.Size()
	p := codec.NewWriter(size, consts.NetworkSizeLimit)
	t.Base.Marshal(p)
	p.PackByte(t.Action.GetTypeID())
	t.Action.Marshal(p)
	return p.Bytes(), p.Err()
}

// Sign signs the digest with [factory] and returns the transaction as it
// would be parsed off the wire.
func (t *Transaction) Sign(
	factory AuthFactory,
	actionRegistry ActionRegistry,
	authRegistry AuthRegistry,
) (*Transaction, error) {
	msg, err := t.Digest()
	if err != nil {
		return nil, err
	}
	auth, err := factory.Sign(msg)
	if err != nil {
		return nil, err
	}
	t.Auth = auth

	// Ensure transaction is fully initialized and correct by reloading it from
	// bytes
	size := len(msg) + consts.ByteLen + t.Auth.Size()
	p := codec.NewWriter(size, consts.NetworkSizeLimit)
	if err := t.Marshal(p); err != nil {
		return nil, err
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	return UnmarshalTx(p.Bytes(), actionRegistry, authRegistry)
}

func (t *Transaction) Bytes() []byte { return t.bytes }

func (t *Transaction) ID() ids.ID { return t.id }

func (t *Transaction) Actor() codec.Address { return t.Auth.Actor() }

// StateKeys returns the keys of the action plus the key that records the
// transaction itself.
func (t *Transaction) StateKeys() (state.Keys, error) {
	if t.stateKeys != nil {
		return t.stateKeys, nil
	}
	stateKeys := make(state.Keys)
	for k, v := range t.Action.StateKeys(t.Auth.Actor()) {
		if !keys.Valid([]byte(k)) {
			return nil, ErrInvalidKeyValue
		}
		// [Add] will take the union of key permissions
		stateKeys.Add(k, v)
	}
	stateKeys.Add(string(storage.TxKey(t.id)), state.Allocate)

	// Cache keys if called again
	t.stateKeys = stateKeys
	return stateKeys, nil
}

// Verify checks the signature over the digest.
func (t *Transaction) Verify(ctx context.Context) error {
	msg, err := t.Digest()
	if err != nil {
		return err
	}
	return t.Auth.Verify(ctx, msg)
}

func (t *Transaction) Marshal(p *codec.Packer) error {
	if len(t.bytes) > 0 {
		p.PackFixedBytes(t.bytes)
		return p.Err()
	}
	msg, err := t.Digest()
	if err != nil {
		return err
	}
	p.PackFixedBytes(msg)
	p.PackByte(t.Auth.GetTypeID())
	t.Auth.Marshal(p)
	return p.Err()
}

// UnmarshalTx parses a signed transaction. Trailing bytes are rejected.
func UnmarshalTx(
	b []byte,
	actionRegistry ActionRegistry,
	authRegistry AuthRegistry,
) (*Transaction, error) {
	p := codec.NewReader(b, consts.NetworkSizeLimit)
	start := p.Offset()
	base, err := UnmarshalBase(p)
	if err != nil {
		return nil, fmt.Errorf("%w: could not unmarshal base", err)
	}
	action, err := actionRegistry.Unmarshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: could not unmarshal action", err)
	}
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("%w: could not unmarshal action", err)
	}
	digest := p.Offset()
	auth, err := authRegistry.Unmarshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: could not unmarshal auth", err)
	}
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("%w: could not unmarshal auth", err)
	}
	if !p.Empty() {
		return nil, codec.ErrExtraBytes
	}

	tx := NewTx(base, action)
	tx.Auth = auth
	tx.digest = b[start:digest]
	tx.bytes = b[start:p.Offset()]
	tx.id = utils.ToID(tx.bytes)
	return tx, nil
}
