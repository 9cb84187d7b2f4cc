// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry wires every action and auth the node understands into a
// single [chain.Parser].
package registry

import (
	"github.com/solimare/boatvm/actions"
	"github.com/solimare/boatvm/auth"
	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/codec"
)

var _ chain.Parser = (*Parser)(nil)

type Parser struct {
	actionRegistry chain.ActionRegistry
	authRegistry   chain.AuthRegistry
}

func New() (*Parser, error) {
	p := &Parser{
		actionRegistry: codec.NewTypeParser[chain.Action](),
		authRegistry:   codec.NewTypeParser[chain.Auth](),
	}
	if err := actions.Register(p.actionRegistry); err != nil {
		return nil, err
	}
	if err := auth.Register(p.authRegistry); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) ActionRegistry() chain.ActionRegistry {
	return p.actionRegistry
}

func (p *Parser) AuthRegistry() chain.AuthRegistry {
	return p.authRegistry
}
