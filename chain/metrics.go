// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	txsAccepted   prometheus.Counter
	txsFailed     prometheus.Counter
	txsRejected   prometheus.Counter
	eventsEmitted prometheus.Counter
	executeTime   prometheus.Histogram
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		txsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_accepted",
			Help:      "number of transactions committed",
		}),
		txsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_failed",
			Help:      "number of transactions whose action returned an error",
		}),
		txsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_rejected",
			Help:      "number of transactions rejected before execution",
		}),
		eventsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "events_emitted",
			Help:      "number of events published",
		}),
		executeTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chain",
			Name:      "execute_seconds",
			Help:      "time spent executing committed transactions",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.txsAccepted),
		r.Register(m.txsFailed),
		r.Register(m.txsRejected),
		r.Register(m.eventsEmitted),
		r.Register(m.executeTime),
	)
	return m, errs.Err
}
