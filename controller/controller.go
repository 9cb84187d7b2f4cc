// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/profiler"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/solimare/boatvm/actions"
	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/config"
	"github.com/solimare/boatvm/event"
	"github.com/solimare/boatvm/genesis"
	"github.com/solimare/boatvm/ledger"
	"github.com/solimare/boatvm/pebble"
	"github.com/solimare/boatvm/registry"
	"github.com/solimare/boatvm/rpc"
	"github.com/solimare/boatvm/state"

	boattrace "github.com/solimare/boatvm/trace"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

var _ rpc.Controller = (*Controller)(nil)

// Controller is a running registry node: storage, the transaction processor
// and the API served on top of them.
type Controller struct {
	*registry.Parser

	config  *config.Config
	genesis *genesis.Genesis

	log      logging.Logger
	tracer   trace.Tracer
	gatherer prometheus.Gatherer
	metrics  *metrics

	db        database.Database
	processor *chain.Processor
	ws        *rpc.WebSocketServer
	handler   http.Handler
	profiler  profiler.ContinuousProfiler
}

// New opens storage, applies [g] if it was never applied and prepares the
// API. Nothing is served until [Run] is called.
func New(ctx context.Context, cfg *config.Config, g *genesis.Genesis) (*Controller, error) {
	c := &Controller{
		config:  cfg,
		genesis: g,
		log:     newLogger(cfg),
	}
	if err := c.initialize(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Controller) initialize(ctx context.Context) error {
	parser, err := registry.New()
	if err != nil {
		return err
	}
	c.Parser = parser

	c.tracer, err = boattrace.New(c.config.GetTraceConfig())
	if err != nil {
		return err
	}

	metricsRegistry := prometheus.NewRegistry()
	gatherers := prometheus.Gatherers{metricsRegistry}
	if len(c.config.DatabaseDir) == 0 {
		c.db = memdb.New()
		c.log.Warn("state is kept in memory")
	} else {
		db, dbRegistry, err := pebble.New(c.config.DatabaseDir, c.config.Pebble)
		if err != nil {
			return fmt.Errorf("unable to open database: %w", err)
		}
		c.db = db
		gatherers = append(gatherers, dbRegistry)
	}
	c.gatherer = gatherers

	applied, err := c.genesis.InitializeState(ctx, c.tracer, c.db)
	if err != nil {
		return fmt.Errorf("unable to apply genesis: %w", err)
	}
	c.log.Info("loaded genesis",
		zap.Stringer("chainID", c.genesis.ChainID),
		zap.Bool("applied", applied),
		zap.Int("allocations", len(c.genesis.CustomAllocation)),
	)

	c.metrics, err = newMetrics(metricsRegistry)
	if err != nil {
		return err
	}
	c.processor, err = chain.NewProcessor(
		chain.Config{ChainID: c.genesis.ChainID, ValidityWindow: c.genesis.ValidityWindow},
		c.log,
		c.tracer,
		metricsRegistry,
		c.db,
		ledger.StateUnits{},
		ledger.StateCurrency{},
		event.NewLog[*chain.EventRecord](),
	)
	if err != nil {
		return err
	}
	c.processor.OnAccepted(c.accepted)

	var wsHandler http.Handler
	c.ws, wsHandler, err = rpc.NewWebSocketServer(
		c,
		c.config.WebSocket,
		c.config.WebSocketWorkers,
		c.config.GetStreamingBacklogSize(),
	)
	if err != nil {
		return err
	}
	c.handler, err = rpc.NewHandler(c, wsHandler, c.gatherer, c.config.CORSOrigins)
	if err != nil {
		return err
	}

	if pcfg := c.config.GetContinuousProfilerConfig(); pcfg.Enabled {
		c.profiler = profiler.NewContinuous(pcfg.Dir, pcfg.Freq, pcfg.MaxNumFiles)
	}
	return nil
}

// accepted records per action metrics for every committed transaction.
func (c *Controller) accepted(tx *chain.Transaction, result *chain.Result) {
	switch tx.Action.(type) {
	case *actions.InitializeConfig:
		c.metrics.initializeConfig.Inc()
	case *actions.UpdateConfig:
		c.metrics.updateConfig.Inc()
	case *actions.RegisterAsset:
		c.metrics.registerAsset.Inc()
	case *actions.UpdateAssetMetadata:
		c.metrics.updateAssetMetadata.Inc()
	case *actions.TransferAssetOwnership:
		c.metrics.transferAssetOwnership.Inc()
	}
	for _, r := range result.Events {
		if fee, ok := r.Event.(*actions.FeeCollected); ok {
			c.metrics.feesCollected.Add(float64(fee.Amount))
		}
	}
}

// Run serves the API on [config.RPCAddress] until [ctx] is cancelled or the
// server fails.
func (c *Controller) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              c.config.RPCAddress,
		Handler:           c.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.log.Info("serving api",
			zap.String("address", c.config.RPCAddress),
			zap.String("jsonrpc", rpc.JSONRPCEndpoint),
			zap.String("events", rpc.WebSocketEndpoint),
		)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if c.profiler != nil {
		g.Go(c.profiler.Dispatch)
		g.Go(func() error {
			<-gctx.Done()
			c.profiler.Shutdown()
			return nil
		})
	}
	return g.Wait()
}

// Handler serves the JSON-RPC API, the event stream and metrics.
func (c *Controller) Handler() http.Handler { return c.handler }

func (c *Controller) Gatherer() prometheus.Gatherer { return c.gatherer }

func (c *Controller) ChainID() ids.ID { return c.genesis.ChainID }

func (c *Controller) ValidityWindow() int64 { return c.genesis.ValidityWindow }

func (c *Controller) Timestamp() int64 { return c.processor.Clock().Time().UnixMilli() }

func (c *Controller) Logger() logging.Logger { return c.log }

func (c *Controller) Tracer() trace.Tracer { return c.tracer }

func (c *Controller) Submit(ctx context.Context, tx *chain.Transaction) (*chain.Result, error) {
	return c.processor.Execute(ctx, tx)
}

func (c *Controller) State() state.Immutable { return c.processor.State() }

func (c *Controller) Database() database.Iteratee { return c.db }

func (c *Controller) Events() *event.Log[*chain.EventRecord] { return c.processor.Events() }

// Processor exposes the processor, mainly so callers can hook accepted
// transactions or pin its clock.
func (c *Controller) Processor() *chain.Processor { return c.processor }

// Close releases everything [New] opened. It is safe to call on a
// partially initialized controller.
func (c *Controller) Close() error {
	var errs []error
	if c.ws != nil {
		errs = append(errs, c.ws.Close())
	}
	if c.processor != nil {
		errs = append(errs, c.processor.Close())
	}
	if c.db != nil {
		errs = append(errs, c.db.Close())
	}
	if c.tracer != nil {
		errs = append(errs, c.tracer.Close())
	}
	return errors.Join(errs...)
}
