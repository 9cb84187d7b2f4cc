// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/solimare/boatvm/actions"
	"github.com/solimare/boatvm/auth"
	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/crypto/ed25519"
	"github.com/solimare/boatvm/derive"
	"github.com/solimare/boatvm/event"
	"github.com/solimare/boatvm/ledger"
	"github.com/solimare/boatvm/pubsub"
	"github.com/solimare/boatvm/registry"
	"github.com/solimare/boatvm/state"
	"github.com/solimare/boatvm/storage"
	"github.com/solimare/boatvm/tstate"

	boattrace "github.com/solimare/boatvm/trace"
)

const (
	testValidityWindow = int64(60_000)
	testFunds          = uint64(10_000_000_000)
)

var testNow = time.Unix(1_700_000_000, 0)

var _ Controller = (*testController)(nil)

type testController struct {
	*registry.Parser

	chainID   ids.ID
	db        database.Database
	processor *chain.Processor
}

func newTestController(t *testing.T) *testController {
	require := require.New(t)

	parser, err := registry.New()
	require.NoError(err)
	chainID := ids.GenerateTestID()
	db := memdb.New()
	p, err := chain.NewProcessor(
		chain.Config{ChainID: chainID, ValidityWindow: testValidityWindow},
		logging.NoLog{},
		boattrace.Noop(),
		prometheus.NewRegistry(),
		db,
		ledger.StateUnits{},
		ledger.StateCurrency{},
		event.NewLog[*chain.EventRecord](),
	)
	require.NoError(err)
	p.Clock().Set(testNow)
	t.Cleanup(func() { _ = p.Close() })
	return &testController{Parser: parser, chainID: chainID, db: db, processor: p}
}

func (c *testController) ChainID() ids.ID        { return c.chainID }
func (*testController) ValidityWindow() int64    { return testValidityWindow }
func (c *testController) Timestamp() int64       { return c.processor.Clock().Time().UnixMilli() }
func (*testController) Logger() logging.Logger   { return logging.NoLog{} }
func (*testController) Tracer() trace.Tracer     { return boattrace.Noop() }
func (c *testController) State() state.Immutable { return c.processor.State() }

func (c *testController) Database() database.Iteratee { return c.db }

func (c *testController) Events() *event.Log[*chain.EventRecord] {
	return c.processor.Events()
}

func (c *testController) Submit(ctx context.Context, tx *chain.Transaction) (*chain.Result, error) {
	return c.processor.Execute(ctx, tx)
}

func (c *testController) fund(t *testing.T, addr codec.Address) {
	require := require.New(t)

	k := string(storage.BalanceKey(addr))
	view := tstate.NewView(state.Keys{k: state.All}, map[string][]byte{})
	require.NoError(storage.SetBalance(context.Background(), view, addr, testFunds))
	require.NoError(view.WriteTo(c.db))
}

type testNode struct {
	controller *testController
	ws         *WebSocketServer
	server     *httptest.Server
	client     *JSONRPCClient
}

func newTestNode(t *testing.T) *testNode {
	require := require.New(t)

	c := newTestController(t)
	ws, wsHandler, err := NewWebSocketServer(c, pubsub.NewDefaultServerConfig(), 2, 16)
	require.NoError(err)
	t.Cleanup(func() { require.NoError(ws.Close()) })

	handler, err := NewHandler(c, wsHandler, prometheus.NewRegistry(), []string{"*"})
	require.NoError(err)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &testNode{
		controller: c,
		ws:         ws,
		server:     server,
		client:     NewJSONRPCClient(server.URL, c.Parser, actions.DecodeEvent),
	}
}

func newFactory(t *testing.T) *auth.ED25519Factory {
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	return auth.NewED25519Factory(priv)
}

func testBoat(config, treasury codec.Address, registrationNumber string) *actions.RegisterAsset {
	return &actions.RegisterAsset{
		Config:             config,
		Name:               "Sea Breeze",
		AssetType:          storage.AssetType{Kind: storage.Catamaran},
		Description:        "blue hull",
		RegistrationNumber: registrationNumber,
		YearBuilt:          2012,
		LengthFeet:         38,
		Manufacturer:       "Lagoon",
		Price:              1_000_000_000,
		Treasury:           treasury,
	}
}

func TestJSONRPC(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	n := newTestNode(t)
	cli := n.client

	ok, err := cli.Ping(ctx)
	require.NoError(err)
	require.True(ok)

	chainID, window, ts, err := cli.Network(ctx)
	require.NoError(err)
	require.Equal(n.controller.chainID, chainID)
	require.Equal(testValidityWindow, window)
	require.Equal(testNow.UnixMilli(), ts)

	authority := newFactory(t)
	alice := newFactory(t)
	bob := newFactory(t)
	treasury := newFactory(t).Address()
	n.controller.fund(t, alice.Address())

	reply, err := cli.Execute(ctx, &actions.InitializeConfig{FeeBps: 100, Treasury: treasury}, authority)
	require.NoError(err)
	require.Len(reply.Events, 1)
	require.IsType(&actions.ConfigInitialized{}, reply.Events[0].Event)

	configAddr, cfg, err := cli.Config(ctx, authority.Address())
	require.NoError(err)
	require.Equal(uint16(100), cfg.FeeBps)
	require.True(cfg.IsActive)

	reply, err = cli.Execute(ctx, testBoat(configAddr, treasury, "FL-42"), alice)
	require.NoError(err)
	require.Len(reply.Events, 2)
	minted, ok := reply.Events[1].Event.(*actions.BoatMinted)
	require.True(ok)
	require.Equal(uint64(10_000_000), minted.Fee)

	mint, _, err := derive.Mint(alice.Address(), "FL-42")
	require.NoError(err)
	require.Equal(mint, minted.Mint)

	_, asset, err := cli.Asset(ctx, mint)
	require.NoError(err)
	require.Equal("Sea Breeze", asset.Name)
	require.Equal(storage.AssetType{Kind: storage.Catamaran}, asset.AssetType)
	require.Equal(alice.Address(), asset.Owner)

	balance, err := cli.Balance(ctx, treasury)
	require.NoError(err)
	require.Equal(uint64(10_000_000), balance)
	balance, err = cli.Balance(ctx, alice.Address())
	require.NoError(err)
	require.Equal(testFunds-10_000_000, balance)

	_, err = cli.Execute(ctx, &actions.TransferAssetOwnership{Mint: mint, To: bob.Address()}, alice)
	require.NoError(err)

	units, err := cli.UnitBalance(ctx, mint, bob.Address())
	require.NoError(err)
	require.Equal(uint64(1), units)

	bobAddr := bob.Address()
	owned, err := cli.Assets(ctx, &bobAddr)
	require.NoError(err)
	require.Len(owned, 1)
	require.Equal(bob.Address(), owned[0].Record.Owner)
	owned, err = cli.Assets(ctx, nil)
	require.NoError(err)
	require.Len(owned, 1)

	events, last, err := cli.Events(ctx, 0)
	require.NoError(err)
	require.Equal(uint64(4), last)
	require.Len(events, 4)
	require.Equal("OwnershipTransferred", events[3].Name)
	require.IsType(&actions.OwnershipTransferred{}, events[3].Event)

	events, _, err = cli.Events(ctx, 3)
	require.NoError(err)
	require.Len(events, 1)
	require.Equal(uint64(4), events[0].Seq)
}

func TestJSONRPCErrors(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	n := newTestNode(t)
	cli := n.client
	alice := newFactory(t)

	_, _, err := cli.Config(ctx, alice.Address())
	require.ErrorContains(err, storage.ErrConfigNotFound.Error())

	_, _, err = cli.Asset(ctx, alice.Address())
	require.ErrorContains(err, storage.ErrAssetNotFound.Error())

	// Unfunded actor against an unknown config.
	_, err = cli.Execute(ctx, testBoat(codec.EmptyAddress, codec.EmptyAddress, "X-1"), alice)
	require.Error(err)

	_, last, err := cli.Events(ctx, 0)
	require.NoError(err)
	require.Zero(last)
}
