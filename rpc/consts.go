// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

const (
	Name              = "boatapi"
	JSONRPCEndpoint   = "/boatapi"
	WebSocketEndpoint = "/boatapi/events"
	MetricsEndpoint   = "/metrics"

	// MaxEventsPerRequest caps how many events a single Events call returns.
	MaxEventsPerRequest = 1024
)
