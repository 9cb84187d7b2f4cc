// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solimare/boatvm/auth"
	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/consts"
	"github.com/solimare/boatvm/crypto/ed25519"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage keys",
}

var keyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new key and store it in the config",
	RunE: func(cmd *cobra.Command, _ []string) error {
		key, err := ed25519.GeneratePrivateKey()
		if err != nil {
			return fmt.Errorf("failed to generate key: %w", err)
		}
		if err := setConfigValue("key", key.Hex()); err != nil {
			return fmt.Errorf("failed to store key: %w", err)
		}
		return printValue(cmd, newKeyAddressCmdResponse(auth.NewED25519Address(key.PublicKey())))
	},
}

var keySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store an existing private key in the config",
	RunE: func(cmd *cobra.Command, _ []string) error {
		keyString, err := getConfigValue(cmd, "key", true)
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}
		key, err := privateKeyFromString(keyString)
		if err != nil {
			return fmt.Errorf("failed to decode key: %w", err)
		}
		if err := setConfigValue("key", key.Hex()); err != nil {
			return fmt.Errorf("failed to store key: %w", err)
		}
		return printValue(cmd, newKeyAddressCmdResponse(auth.NewED25519Address(key.PublicKey())))
	},
}

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print current key address",
	RunE: func(cmd *cobra.Command, _ []string) error {
		factory, err := loadFactory(cmd)
		if err != nil {
			return err
		}
		return printValue(cmd, newKeyAddressCmdResponse(factory.Address()))
	},
}

type keyAddressCmdResponse struct {
	Address string `json:"address"`
	Bech32  string `json:"bech32"`
}

func newKeyAddressCmdResponse(addr codec.Address) keyAddressCmdResponse {
	return keyAddressCmdResponse{
		Address: addr.String(),
		Bech32:  codec.AddressBech32(consts.HRP, addr),
	}
}

func (r keyAddressCmdResponse) String() string {
	return r.Address + " (" + r.Bech32 + ")"
}

func init() {
	rootCmd.AddCommand(keyCmd, addressCmd)
	keyCmd.AddCommand(keyGenerateCmd, keySetCmd)
}
