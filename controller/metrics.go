// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	initializeConfig prometheus.Counter
	updateConfig     prometheus.Counter

	registerAsset          prometheus.Counter
	updateAssetMetadata    prometheus.Counter
	transferAssetOwnership prometheus.Counter

	feesCollected prometheus.Counter
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		initializeConfig: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "initialize_config",
			Help:      "number of initialize config actions",
		}),
		updateConfig: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "update_config",
			Help:      "number of update config actions",
		}),
		registerAsset: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "register_asset",
			Help:      "number of register asset actions",
		}),
		updateAssetMetadata: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "update_asset_metadata",
			Help:      "number of update asset metadata actions",
		}),
		transferAssetOwnership: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "transfer_asset_ownership",
			Help:      "number of transfer asset ownership actions",
		}),
		feesCollected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "registry",
			Name:      "fees_collected",
			Help:      "base units paid to treasuries",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.initializeConfig),
		r.Register(m.updateConfig),

		r.Register(m.registerAsset),
		r.Register(m.updateAssetMetadata),
		r.Register(m.transferAssetOwnership),

		r.Register(m.feesCollected),
	)
	return m, errs.Err
}
