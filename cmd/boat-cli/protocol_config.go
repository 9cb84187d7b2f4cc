// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/solimare/boatvm/actions"
	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/storage"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the protocol config of a registry",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config owned by the current key",
	RunE: func(cmd *cobra.Command, _ []string) error {
		feeBps, err := cmd.Flags().GetUint16("fee-bps")
		if err != nil {
			return err
		}
		treasury, err := addressFlag(cmd, "treasury")
		if err != nil {
			return err
		}
		return submit(cmd, &actions.InitializeConfig{
			FeeBps:   feeBps,
			Treasury: treasury,
		})
	},
}

var configUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change the fee, treasury or switches of a config",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := addressFlag(cmd, "config")
		if err != nil {
			return err
		}
		action := &actions.UpdateConfig{Config: cfg}
		flags := cmd.Flags()
		if flags.Changed("fee-bps") {
			v, err := flags.GetUint16("fee-bps")
			if err != nil {
				return err
			}
			action.FeeBps = &v
		}
		if flags.Changed("treasury") {
			v, err := addressFlag(cmd, "treasury")
			if err != nil {
				return err
			}
			action.Treasury = &v
		}
		if flags.Changed("active") {
			v, err := flags.GetBool("active")
			if err != nil {
				return err
			}
			action.IsActive = &v
		}
		if flags.Changed("paused") {
			v, err := flags.GetBool("paused")
			if err != nil {
				return err
			}
			action.IsPaused = &v
		}
		return submit(cmd, action)
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [authority]",
	Short: "Print the config of an authority, the current key by default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var authority codec.Address
		if len(args) == 1 {
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			authority = addr
		} else {
			factory, err := loadFactory(cmd)
			if err != nil {
				return err
			}
			authority = factory.Address()
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		addr, cfg, err := client.Config(ctx, authority)
		if err != nil {
			return fmt.Errorf("failed to get config: %w", err)
		}
		return printValue(cmd, configGetCmdResponse{
			Address: addr,
			Config:  cfg,
		})
	},
}

type configGetCmdResponse struct {
	Address codec.Address           `json:"address"`
	Config  *storage.ProtocolConfig `json:"config"`
}

func (r configGetCmdResponse) String() string {
	c := r.Config
	return fmt.Sprintf(
		"config %s\n  authority: %s\n  fee: %d bps\n  treasury: %s\n  active: %t paused: %t",
		r.Address, c.Authority, c.FeeBps, c.Treasury, c.IsActive, c.IsPaused,
	)
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configUpdateCmd, configGetCmd)

	configInitCmd.Flags().Uint16("fee-bps", 0, "Fee charged on declared prices, in basis points")
	configInitCmd.Flags().String("treasury", "", "Address receiving registration fees")
	for _, name := range []string{"fee-bps", "treasury"} {
		if err := configInitCmd.MarkFlagRequired(name); err != nil {
			log.Fatalf("failed to mark %s flag as required: %s", name, err)
		}
	}

	configUpdateCmd.Flags().String("config", "", "Config address")
	configUpdateCmd.Flags().Uint16("fee-bps", 0, "New fee in basis points")
	configUpdateCmd.Flags().String("treasury", "", "New treasury address")
	configUpdateCmd.Flags().Bool("active", true, "Whether the registry is active")
	configUpdateCmd.Flags().Bool("paused", false, "Whether registrations are paused")
	if err := configUpdateCmd.MarkFlagRequired("config"); err != nil {
		log.Fatalf("failed to mark config flag as required: %s", err)
	}
}
