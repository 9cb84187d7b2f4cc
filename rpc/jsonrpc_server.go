// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"

	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/derive"
	"github.com/solimare/boatvm/storage"
)

type JSONRPCServer struct {
	c Controller
}

func NewJSONRPCServer(c Controller) *JSONRPCServer {
	return &JSONRPCServer{c}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.c.Logger().Info("ping")
	reply.Success = true
	return nil
}

type NetworkReply struct {
	ChainID        ids.ID `json:"chainId"`
	ValidityWindow int64  `json:"validityWindow"`
	Timestamp      int64  `json:"timestamp"`
}

func (j *JSONRPCServer) Network(_ *http.Request, _ *struct{}, reply *NetworkReply) (err error) {
	reply.ChainID = j.c.ChainID()
	reply.ValidityWindow = j.c.ValidityWindow()
	reply.Timestamp = j.c.Timestamp()
	return nil
}

type SubmitTxArgs struct {
	Tx []byte `json:"tx"`
}

type SubmitTxReply struct {
	TxID   ids.ID        `json:"txId"`
	Events []*EventReply `json:"events"`
}

// SubmitTx executes a signed transaction and replies once it is committed.
func (j *JSONRPCServer) SubmitTx(
	req *http.Request,
	args *SubmitTxArgs,
	reply *SubmitTxReply,
) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.SubmitTx")
	defer span.End()

	tx, err := chain.UnmarshalTx(args.Tx, j.c.ActionRegistry(), j.c.AuthRegistry())
	if err != nil {
		return fmt.Errorf("%w: unable to unmarshal on public service", err)
	}
	result, err := j.c.Submit(ctx, tx)
	if err != nil {
		j.c.Logger().Debug("rejected transaction",
			zap.Stringer("txID", tx.ID()),
			zap.Error(err),
		)
		return err
	}
	reply.TxID = result.TxID
	reply.Events = make([]*EventReply, len(result.Events))
	for i, r := range result.Events {
		reply.Events[i] = newEventReply(0, r)
	}
	return nil
}

type ConfigArgs struct {
	Authority codec.Address `json:"authority"`
}

type ConfigReply struct {
	Address codec.Address           `json:"address"`
	Config  *storage.ProtocolConfig `json:"config"`
}

// Config returns the protocol config owned by [args.Authority].
func (j *JSONRPCServer) Config(req *http.Request, args *ConfigArgs, reply *ConfigReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.Config")
	defer span.End()

	addr, _, err := derive.Config(args.Authority)
	if err != nil {
		return err
	}
	cfg, err := storage.GetConfig(ctx, j.c.State(), addr)
	if err != nil {
		return err
	}
	reply.Address = addr
	reply.Config = cfg
	return nil
}

type AssetArgs struct {
	Mint codec.Address `json:"mint"`
}

type AssetReply struct {
	Address codec.Address        `json:"address"`
	Asset   *storage.AssetRecord `json:"asset"`
}

// Asset returns the record of the boat whose ownership unit is [args.Mint].
func (j *JSONRPCServer) Asset(req *http.Request, args *AssetArgs, reply *AssetReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.Asset")
	defer span.End()

	addr, _, err := derive.Boat(args.Mint)
	if err != nil {
		return err
	}
	r, err := storage.GetAsset(ctx, j.c.State(), addr)
	if err != nil {
		return err
	}
	reply.Address = addr
	reply.Asset = r
	return nil
}

type AssetsArgs struct {
	Owner *codec.Address `json:"owner,omitempty"`
}

type AssetsReply struct {
	Assets []*storage.AssetEntry `json:"assets"`
}

func (j *JSONRPCServer) Assets(req *http.Request, args *AssetsArgs, reply *AssetsReply) error {
	_, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.Assets")
	defer span.End()

	entries, err := storage.ListAssets(j.c.Database(), args.Owner)
	if err != nil {
		return err
	}
	reply.Assets = entries
	return nil
}

type BalanceArgs struct {
	Address codec.Address `json:"address"`
}

type BalanceReply struct {
	Amount uint64 `json:"amount"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *BalanceArgs, reply *BalanceReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.Balance")
	defer span.End()

	balance, err := storage.GetBalance(ctx, j.c.State(), args.Address)
	if err != nil {
		return err
	}
	reply.Amount = balance
	return nil
}

type UnitBalanceArgs struct {
	Unit  codec.Address `json:"unit"`
	Owner codec.Address `json:"owner"`
}

func (j *JSONRPCServer) UnitBalance(req *http.Request, args *UnitBalanceArgs, reply *BalanceReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.UnitBalance")
	defer span.End()

	balance, err := storage.GetUnitBalance(ctx, j.c.State(), args.Unit, args.Owner)
	if err != nil {
		return err
	}
	reply.Amount = balance
	return nil
}

type EventsArgs struct {
	Since uint64 `json:"since"`
}

type EventsReply struct {
	Events []*EventReply `json:"events"`
	// Last is the newest sequence number known to the node.
	Last uint64 `json:"last"`
}

// Events returns up to [MaxEventsPerRequest] events with a sequence number
// above [args.Since].
func (j *JSONRPCServer) Events(_ *http.Request, args *EventsArgs, reply *EventsReply) error {
	log := j.c.Events()
	records := log.Since(args.Since)
	if len(records) > MaxEventsPerRequest {
		records = records[:MaxEventsPerRequest]
	}
	reply.Events = newEventReplies(records)
	reply.Last = log.Last()
	return nil
}
