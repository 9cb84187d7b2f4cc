// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
)

var endpointCmd = &cobra.Command{
	Use:   "endpoint",
	Short: "Manage endpoint",
	RunE: func(cmd *cobra.Command, _ []string) error {
		endpoint, err := getConfigValue(cmd, "endpoint", true)
		if err != nil {
			return fmt.Errorf("failed to get endpoint: %w", err)
		}
		return printValue(cmd, endpointCmdResponse{
			Endpoint: endpoint,
		})
	},
}

type endpointCmdResponse struct {
	Endpoint string `json:"endpoint"`
}

func (r endpointCmdResponse) String() string {
	return r.Endpoint
}

var endpointSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the endpoint URL",
	RunE: func(cmd *cobra.Command, _ []string) error {
		endpoint, err := cmd.Flags().GetString("endpoint")
		if err != nil {
			return fmt.Errorf("failed to get endpoint flag: %w", err)
		}

		if endpoint == "" {
			return errors.New("endpoint is required")
		}

		if err := setConfigValue("endpoint", endpoint); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}

		return printValue(cmd, endpointSetCmdResponse{
			Endpoint: endpoint,
		})
	},
}

type endpointSetCmdResponse struct {
	Endpoint string `json:"endpoint"`
}

func (r endpointSetCmdResponse) String() string {
	return "Endpoint set to: " + r.Endpoint
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the node is reachable and print its network",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		if _, err := client.Ping(ctx); err != nil {
			return fmt.Errorf("failed to ping: %w", err)
		}
		chainID, window, now, err := client.Network(ctx)
		if err != nil {
			return fmt.Errorf("failed to get network: %w", err)
		}
		return printValue(cmd, pingCmdResponse{
			ChainID:        chainID.String(),
			ValidityWindow: window,
			Timestamp:      now,
		})
	},
}

type pingCmdResponse struct {
	ChainID        string `json:"chainId"`
	ValidityWindow int64  `json:"validityWindow"`
	Timestamp      int64  `json:"timestamp"`
}

func (r pingCmdResponse) String() string {
	return fmt.Sprintf("chain %s at %s (validity window %s)",
		r.ChainID,
		time.UnixMilli(r.Timestamp).UTC().Format(time.RFC3339),
		time.Duration(r.ValidityWindow)*time.Millisecond,
	)
}

func init() {
	rootCmd.AddCommand(endpointCmd, pingCmd)
	endpointCmd.AddCommand(endpointSetCmd)
	endpointSetCmd.Flags().String("endpoint", "", "Endpoint URL to set")

	err := endpointSetCmd.MarkFlagRequired("endpoint")
	if err != nil {
		log.Fatalf("failed to mark endpoint flag as required: %s", err)
	}
}
