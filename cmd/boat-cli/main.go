// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "boat-cli",
	Short: "CLI for the boat registry",
	Long:  `A CLI application for registering, updating and transferring boats on a boatvm node.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}

func init() {
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text or json)")
	rootCmd.PersistentFlags().String("endpoint", "", "Override the default endpoint")
	rootCmd.PersistentFlags().String("key", "", "Private ED25519 key as hex string")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Submit transactions without asking for confirmation")
}

func main() {
	Execute()
}
