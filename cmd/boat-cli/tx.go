// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/rpc"
)

const txTimeout = 30 * time.Second

// submit signs [action] with the configured key and waits for the node to
// commit it.
func submit(cmd *cobra.Command, action chain.Action) error {
	ctx, cancel := context.WithTimeout(context.Background(), txTimeout)
	defer cancel()

	factory, err := loadFactory(cmd)
	if err != nil {
		return err
	}
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	if err := confirm(cmd, fmt.Sprintf("Submit %T from %s", action, factory.Address())); err != nil {
		return err
	}
	resp, err := client.Execute(ctx, action, factory)
	if err != nil {
		return fmt.Errorf("failed to execute transaction: %w", err)
	}
	return printValue(cmd, txCmdResponse{
		TxID:   resp.TxID.String(),
		Events: resp.Events,
	})
}

type txCmdResponse struct {
	TxID   string            `json:"txId"`
	Events []*rpc.EventReply `json:"events"`
}

func (r txCmdResponse) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Transaction %s committed", r.TxID)
	for _, e := range r.Events {
		b.WriteString("\n  ")
		b.WriteString(formatEvent(e))
	}
	return b.String()
}
