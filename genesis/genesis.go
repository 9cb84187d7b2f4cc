// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"

	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/consts"
	"github.com/solimare/boatvm/state"
	"github.com/solimare/boatvm/storage"
	"github.com/solimare/boatvm/tstate"
	"github.com/solimare/boatvm/utils"

	safemath "github.com/ava-labs/avalanchego/utils/math"
)

const defaultValidityWindow = 60 * consts.MillisecondsPerSecond

var ErrInvalidValidityWindow = errors.New("validity window must be positive")

type CustomAllocation struct {
	Address string `json:"address"` // bech32
	Balance uint64 `json:"balance"`
}

type Genesis struct {
	ChainID ids.ID `json:"chainID"`
	// ValidityWindow is how far ahead (ms) a transaction may expire.
	ValidityWindow   int64               `json:"validityWindow"`
	CustomAllocation []*CustomAllocation `json:"customAllocation"`
}

func NewDefaultGenesis(customAllocations []*CustomAllocation) *Genesis {
	return &Genesis{
		ChainID:          consts.ID,
		ValidityWindow:   defaultValidityWindow,
		CustomAllocation: customAllocations,
	}
}

// New parses a JSON genesis. Missing fields keep the defaults of
// [NewDefaultGenesis].
func New(b []byte) (*Genesis, error) {
	g := NewDefaultGenesis(nil)
	if len(b) > 0 {
		if err := json.Unmarshal(b, g); err != nil {
			return nil, fmt.Errorf("failed to unmarshal genesis: %w", err)
		}
	}
	if g.ValidityWindow <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidValidityWindow, g.ValidityWindow)
	}
	return g, nil
}

// Load reads the genesis at [path]. An empty path gives the default genesis.
func Load(path string) (*Genesis, error) {
	if len(path) == 0 {
		return New(nil)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(b)
}

// ID identifies the genesis by its canonical JSON encoding.
func (g *Genesis) ID() (ids.ID, error) {
	b, err := json.Marshal(g)
	if err != nil {
		return ids.Empty, err
	}
	return utils.ToID(b), nil
}

// InitializeState credits every allocation in one batch. It returns false
// without writing anything when this genesis was already applied to [db].
func (g *Genesis) InitializeState(ctx context.Context, tracer trace.Tracer, db database.Database) (bool, error) {
	ctx, span := tracer.Start(ctx, "Genesis.InitializeState")
	defer span.End()

	id, err := g.ID()
	if err != nil {
		return false, err
	}
	marker := string(storage.TxKey(id))
	if applied, err := db.Has([]byte(marker)); err != nil || applied {
		return false, err
	}

	scope := state.Keys{marker: state.Allocate}
	addrs := make([]codec.Address, len(g.CustomAllocation))
	for i, alloc := range g.CustomAllocation {
		addr, err := codec.ParseAddressBech32(consts.HRP, alloc.Address)
		if err != nil {
			return false, fmt.Errorf("%w: %s", err, alloc.Address)
		}
		addrs[i] = addr
		scope.Add(string(storage.BalanceKey(addr)), state.Allocate|state.Write)
	}
	view := tstate.NewView(scope, map[string][]byte{})

	supply := uint64(0)
	for i, alloc := range g.CustomAllocation {
		supply, err = safemath.Add(supply, alloc.Balance)
		if err != nil {
			return false, err
		}
		if err := storage.AddBalance(ctx, view, addrs[i], alloc.Balance); err != nil {
			return false, fmt.Errorf("%w: addr=%s, bal=%d", err, alloc.Address, alloc.Balance)
		}
	}
	if err := storage.StoreTransaction(ctx, view, id, 0); err != nil {
		return false, err
	}

	batch := db.NewBatch()
	if err := view.WriteTo(batch); err != nil {
		return false, err
	}
	return true, batch.Write()
}
