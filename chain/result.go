// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "github.com/ava-labs/avalanchego/ids"

// EventRecord is an event together with where it came from.
type EventRecord struct {
	TxID      ids.ID `json:"txId"`
	Timestamp int64  `json:"timestamp"`
	Index     int    `json:"index"`
	TypeID    uint8  `json:"typeId"`
	Name      string `json:"name"`
	Data      []byte `json:"data"` // discriminator-prefixed Borsh encoding
	Event     Event  `json:"event"`
}

// Result is what a committed transaction produced.
type Result struct {
	TxID   ids.ID         `json:"txId"`
	Events []*EventRecord `json:"events"`
}

func newEventRecords(txID ids.ID, timestamp int64, events []Event) ([]*EventRecord, error) {
	records := make([]*EventRecord, len(events))
	for i, e := range events {
		b, err := e.Bytes()
		if err != nil {
			return nil, err
		}
		records[i] = &EventRecord{
			TxID:      txID,
			Timestamp: timestamp,
			Index:     i,
			TypeID:    e.GetTypeID(),
			Name:      e.Name(),
			Data:      b,
			Event:     e,
		}
	}
	return records, nil
}
