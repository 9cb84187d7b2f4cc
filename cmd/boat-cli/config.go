// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/solimare/boatvm/actions"
	"github.com/solimare/boatvm/auth"
	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/consts"
	"github.com/solimare/boatvm/crypto/ed25519"
	"github.com/solimare/boatvm/registry"
	"github.com/solimare/boatvm/rpc"
)

var errAborted = errors.New("aborted")

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error getting home directory:", err)
		os.Exit(1)
	}

	configDir := filepath.Join(homeDir, ".boat-cli")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "Error creating config directory:", err)
		os.Exit(1)
	}

	configFile := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error creating config file:", err)
			os.Exit(1)
		}
		f.Close()
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.SetEnvPrefix("BOAT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "Error reading config:", err)
			os.Exit(1)
		}
	}
}

func isJSONOutputRequested(cmd *cobra.Command) (bool, error) {
	output, err := getConfigValue(cmd, "output", false)
	if err != nil {
		return false, fmt.Errorf("failed to get output format: %w", err)
	}
	return strings.ToLower(output) == "json", nil
}

func printValue(cmd *cobra.Command, v fmt.Stringer) error {
	isJSON, err := isJSONOutputRequested(cmd)
	if err != nil {
		return err
	}

	if isJSON {
		jsonBytes, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	}
	fmt.Println(v.String())
	return nil
}

func getConfigValue(cmd *cobra.Command, key string, required bool) (string, error) {
	// Flags win over the config file.
	if value, err := cmd.Flags().GetString(key); err == nil && value != "" {
		return value, nil
	}

	if value := viper.GetString(key); value != "" {
		return value, nil
	}

	if required {
		return "", fmt.Errorf("required value for %s not found", key)
	}

	return "", nil
}

func setConfigValue(key, value string) error {
	viper.Set(key, value)
	return viper.WriteConfig()
}

func privateKeyFromString(keyStr string) (ed25519.PrivateKey, error) {
	key, err := ed25519.HexToKey(strings.TrimPrefix(keyStr, "0x"))
	if err != nil {
		return ed25519.EmptyPrivateKey, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

func loadFactory(cmd *cobra.Command) (*auth.ED25519Factory, error) {
	keyString, err := getConfigValue(cmd, "key", true)
	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}
	key, err := privateKeyFromString(keyString)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key: %w", err)
	}
	return auth.NewED25519Factory(key), nil
}

func newClient(cmd *cobra.Command) (*rpc.JSONRPCClient, error) {
	endpoint, err := getConfigValue(cmd, "endpoint", true)
	if err != nil {
		return nil, fmt.Errorf("failed to get endpoint: %w", err)
	}
	parser, err := registry.New()
	if err != nil {
		return nil, err
	}
	return rpc.NewJSONRPCClient(endpoint, parser, actions.DecodeEvent), nil
}

// parseAddress accepts hex or "boat1..." bech32 addresses.
func parseAddress(s string) (codec.Address, error) {
	if strings.HasPrefix(s, consts.HRP+"1") {
		return codec.ParseAddressBech32(consts.HRP, s)
	}
	var addr codec.Address
	if err := addr.UnmarshalText([]byte(strings.TrimPrefix(s, "0x"))); err != nil {
		return codec.EmptyAddress, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return addr, nil
}

func addressFlag(cmd *cobra.Command, name string) (codec.Address, error) {
	s, err := cmd.Flags().GetString(name)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return parseAddress(s)
}

// confirm asks before a transaction is signed unless --yes was passed.
func confirm(cmd *cobra.Command, label string) error {
	if yes, err := cmd.Flags().GetBool("yes"); err == nil && yes {
		return nil
	}
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return errAborted
		}
		return err
	}
	return nil
}
