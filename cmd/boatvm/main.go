// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akamensky/argparse"

	"github.com/solimare/boatvm/config"
	"github.com/solimare/boatvm/consts"
	"github.com/solimare/boatvm/controller"
	"github.com/solimare/boatvm/genesis"
)

func main() {
	parser := argparse.NewParser(consts.Name, "Runs a boat registry node")
	configPath := parser.String("c", "config", &argparse.Options{
		Help: "Path to a JSON or YAML node config",
	})
	genesisPath := parser.String("g", "genesis", &argparse.Options{
		Help: "Path to a JSON genesis",
	})
	printGenesis := parser.Flag("", "print-genesis", &argparse.Options{
		Help: "Print the genesis that would be used and exit",
	})
	printVersion := parser.Flag("v", "version", &argparse.Options{
		Help: "Print the version and exit",
	})
	if err := parser.Parse(os.Args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		os.Exit(2)
	}

	if *printVersion {
		fmt.Println(consts.Name, consts.Version)
		os.Exit(0)
	}

	if err := run(*configPath, *genesisPath, *printGenesis); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}

func run(configPath, genesisPath string, printGenesis bool) error {
	g, err := genesis.Load(genesisPath)
	if err != nil {
		return fmt.Errorf("failed to load genesis: %w", err)
	}
	if printGenesis {
		b, err := json.MarshalIndent(g, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := controller.New(ctx, cfg, g)
	if err != nil {
		return fmt.Errorf("failed to start node: %w", err)
	}
	runErr := c.Run(ctx)
	if err := c.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
