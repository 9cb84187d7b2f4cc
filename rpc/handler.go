// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// NewHandler mounts the JSON-RPC service, the event stream [ws] and the
// metrics of [gatherer] on a single router. Responses other than the event
// stream are gzipped for clients that accept it.
func NewHandler(
	c Controller,
	ws http.Handler,
	gatherer prometheus.Gatherer,
	allowedOrigins []string,
) (http.Handler, error) {
	jsonHandler, err := NewJSONRPCHandler(Name, NewJSONRPCServer(c))
	if err != nil {
		return nil, err
	}
	router := mux.NewRouter()
	router.Handle(JSONRPCEndpoint, gziphandler.GzipHandler(jsonHandler)).Methods(http.MethodPost)
	router.Handle(WebSocketEndpoint, ws)
	router.Handle(MetricsEndpoint, gziphandler.GzipHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
	}).Handler(router), nil
}
