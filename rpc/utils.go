// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/gorilla/rpc/v2"

	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/event"
)

func NewJSONRPCHandler(
	name string,
	service interface{},
) (http.Handler, error) {
	server := rpc.NewServer()
	server.RegisterCodec(json.NewCodec(), "application/json")
	server.RegisterCodec(json.NewCodec(), "application/json;charset=UTF-8")
	return server, server.RegisterService(service, name)
}

// EventReply is a committed event as served to clients. Event is only set
// once the client decodes Data.
type EventReply struct {
	Seq       uint64      `json:"seq,omitempty"`
	TxID      ids.ID      `json:"txId"`
	Timestamp int64       `json:"timestamp"`
	Index     int         `json:"index"`
	Name      string      `json:"name"`
	Data      []byte      `json:"data"`
	Event     chain.Event `json:"-"`
}

func newEventReply(seq uint64, r *chain.EventRecord) *EventReply {
	return &EventReply{
		Seq:       seq,
		TxID:      r.TxID,
		Timestamp: r.Timestamp,
		Index:     r.Index,
		Name:      r.Name,
		Data:      r.Data,
		Event:     r.Event,
	}
}

func newEventReplies(records []event.Record[*chain.EventRecord]) []*EventReply {
	replies := make([]*EventReply, len(records))
	for i, r := range records {
		replies[i] = newEventReply(r.Seq, r.Value)
	}
	return replies
}
