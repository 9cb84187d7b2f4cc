// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "fmt"

// Typed is implemented by everything that is encoded behind a one byte
// type prefix (actions, auth, events).
type Typed interface {
	GetTypeID() uint8
}

// TypeParser maps a type ID to the decoder for that type.
type TypeParser[T Typed] struct {
	indexToDecoder map[uint8]func(*Packer) (T, error)
}

func NewTypeParser[T Typed]() *TypeParser[T] {
	return &TypeParser[T]{
		indexToDecoder: map[uint8]func(*Packer) (T, error){},
	}
}

// Register adds the decoder for [o]'s type ID. IDs are chosen by the
// type itself, so registration order never changes the encoding.
func (p *TypeParser[T]) Register(o T, f func(*Packer) (T, error)) error {
	id := o.GetTypeID()
	if _, ok := p.indexToDecoder[id]; ok {
		return fmt.Errorf("%w: type id %d (%T)", ErrDuplicateItem, id, o)
	}
	p.indexToDecoder[id] = f
	return nil
}

func (p *TypeParser[T]) LookupIndex(index uint8) (func(*Packer) (T, error), bool) {
	f, ok := p.indexToDecoder[index]
	return f, ok
}

// Unmarshal reads a type byte from [pk] and decodes the matching type.
func (p *TypeParser[T]) Unmarshal(pk *Packer) (T, error) {
	var empty T
	id := pk.UnpackByte()
	if err := pk.Err(); err != nil {
		return empty, err
	}
	f, ok := p.LookupIndex(id)
	if !ok {
		return empty, fmt.Errorf("%w: %d", ErrUnknownType, id)
	}
	return f(pk)
}
