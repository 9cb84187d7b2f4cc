// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/storage"
	"github.com/solimare/boatvm/utils"
)

// EventDecoder turns the bytes of a committed event back into an event.
type EventDecoder func([]byte) (chain.Event, error)

type JSONRPCClient struct {
	requester *EndpointRequester
	parser    chain.Parser
	decode    EventDecoder
}

// NewJSONRPCClient talks to the node at [uri]. [parser] is used to check
// signed transactions and [decode] to populate [EventReply.Event].
func NewJSONRPCClient(uri string, parser chain.Parser, decode EventDecoder) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	req := NewEndpointRequester(uri, Name)
	return &JSONRPCClient{requester: req, parser: parser, decode: decode}
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		"ping",
		nil,
		resp,
	)
	return resp.Success, err
}

// Network returns the chain the node serves, how far ahead a transaction may
// expire and the node's current time.
func (cli *JSONRPCClient) Network(ctx context.Context) (ids.ID, int64, int64, error) {
	resp := new(NetworkReply)
	err := cli.requester.SendRequest(
		ctx,
		"network",
		nil,
		resp,
	)
	if err != nil {
		return ids.Empty, 0, 0, err
	}
	return resp.ChainID, resp.ValidityWindow, resp.Timestamp, nil
}

// GenerateTransaction signs [action] with [factory], expiring as late as the
// node allows.
func (cli *JSONRPCClient) GenerateTransaction(
	ctx context.Context,
	action chain.Action,
	factory chain.AuthFactory,
) (*chain.Transaction, error) {
	chainID, validityWindow, now, err := cli.Network(ctx)
	if err != nil {
		return nil, err
	}
	base := &chain.Base{
		Timestamp: utils.UnixRMilli(now, validityWindow),
		ChainID:   chainID,
	}
	return chain.NewTx(base, action).Sign(factory, cli.parser.ActionRegistry(), cli.parser.AuthRegistry())
}

func (cli *JSONRPCClient) SubmitTx(ctx context.Context, tx *chain.Transaction) (*SubmitTxReply, error) {
	resp := new(SubmitTxReply)
	err := cli.requester.SendRequest(
		ctx,
		"submitTx",
		&SubmitTxArgs{Tx: tx.Bytes()},
		resp,
	)
	if err != nil {
		return nil, err
	}
	if err := cli.decodeEvents(resp.Events); err != nil {
		return nil, err
	}
	return resp, nil
}

// Execute generates, signs and submits [action].
func (cli *JSONRPCClient) Execute(
	ctx context.Context,
	action chain.Action,
	factory chain.AuthFactory,
) (*SubmitTxReply, error) {
	tx, err := cli.GenerateTransaction(ctx, action, factory)
	if err != nil {
		return nil, err
	}
	return cli.SubmitTx(ctx, tx)
}

func (cli *JSONRPCClient) Config(ctx context.Context, authority codec.Address) (codec.Address, *storage.ProtocolConfig, error) {
	resp := new(ConfigReply)
	err := cli.requester.SendRequest(
		ctx,
		"config",
		&ConfigArgs{Authority: authority},
		resp,
	)
	return resp.Address, resp.Config, err
}

func (cli *JSONRPCClient) Asset(ctx context.Context, mint codec.Address) (codec.Address, *storage.AssetRecord, error) {
	resp := new(AssetReply)
	err := cli.requester.SendRequest(
		ctx,
		"asset",
		&AssetArgs{Mint: mint},
		resp,
	)
	return resp.Address, resp.Asset, err
}

// Assets lists registered boats, only those of [owner] when it is set.
func (cli *JSONRPCClient) Assets(ctx context.Context, owner *codec.Address) ([]*storage.AssetEntry, error) {
	resp := new(AssetsReply)
	err := cli.requester.SendRequest(
		ctx,
		"assets",
		&AssetsArgs{Owner: owner},
		resp,
	)
	return resp.Assets, err
}

func (cli *JSONRPCClient) Balance(ctx context.Context, addr codec.Address) (uint64, error) {
	resp := new(BalanceReply)
	err := cli.requester.SendRequest(
		ctx,
		"balance",
		&BalanceArgs{Address: addr},
		resp,
	)
	return resp.Amount, err
}

func (cli *JSONRPCClient) UnitBalance(ctx context.Context, unit codec.Address, owner codec.Address) (uint64, error) {
	resp := new(BalanceReply)
	err := cli.requester.SendRequest(
		ctx,
		"unitBalance",
		&UnitBalanceArgs{Unit: unit, Owner: owner},
		resp,
	)
	return resp.Amount, err
}

// Events returns events newer than [since] and the newest sequence number
// the node knows of.
func (cli *JSONRPCClient) Events(ctx context.Context, since uint64) ([]*EventReply, uint64, error) {
	resp := new(EventsReply)
	err := cli.requester.SendRequest(
		ctx,
		"events",
		&EventsArgs{Since: since},
		resp,
	)
	if err != nil {
		return nil, 0, err
	}
	if err := cli.decodeEvents(resp.Events); err != nil {
		return nil, 0, err
	}
	return resp.Events, resp.Last, nil
}

func (cli *JSONRPCClient) decodeEvents(events []*EventReply) error {
	if cli.decode == nil {
		return nil
	}
	for _, e := range events {
		ev, err := cli.decode(e.Data)
		if err != nil {
			return err
		}
		e.Event = ev
	}
	return nil
}
