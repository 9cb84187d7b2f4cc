// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "github.com/solimare/boatvm/ledger"

var _ Host = (*txHost)(nil)

// txHost buffers the events of one transaction until it commits.
type txHost struct {
	units    ledger.Units
	currency ledger.Currency
	events   []Event
}

func (h *txHost) Units() ledger.Units { return h.units }

func (h *txHost) Currency() ledger.Currency { return h.currency }

func (h *txHost) Emit(e Event) {
	h.events = append(h.events, e)
}
