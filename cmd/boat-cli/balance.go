// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/solimare/boatvm/codec"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Print the native balance of an address, the current key by default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var addr codec.Address
		if len(args) == 1 {
			a, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			addr = a
		} else {
			factory, err := loadFactory(cmd)
			if err != nil {
				return err
			}
			addr = factory.Address()
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		resp := balanceCmdResponse{Address: addr}
		if cmd.Flags().Changed("unit") {
			var unit codec.Address
			unit, err = addressFlag(cmd, "unit")
			if err != nil {
				return err
			}
			resp.Unit = &unit
			resp.Balance, err = client.UnitBalance(ctx, unit, addr)
		} else {
			resp.Balance, err = client.Balance(ctx, addr)
		}
		if err != nil {
			return fmt.Errorf("failed to get balance: %w", err)
		}
		return printValue(cmd, resp)
	},
}

type balanceCmdResponse struct {
	Address codec.Address  `json:"address"`
	Unit    *codec.Address `json:"unit,omitempty"`
	Balance uint64         `json:"balance"`
}

func (r balanceCmdResponse) String() string {
	if r.Unit != nil {
		return fmt.Sprintf("%d of unit %s", r.Balance, r.Unit)
	}
	return fmt.Sprintf("%d", r.Balance)
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().String("unit", "", "Report the balance of this ownership unit instead")
}
