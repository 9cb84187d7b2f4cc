// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/solimare/boatvm/actions"
	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/storage"
)

var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "Register, update and transfer boats",
}

// resolveConfig looks up the config created by the --authority flag.
func resolveConfig(cmd *cobra.Command) (codec.Address, *storage.ProtocolConfig, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	authority, err := addressFlag(cmd, "authority")
	if err != nil {
		return codec.EmptyAddress, nil, err
	}
	client, err := newClient(cmd)
	if err != nil {
		return codec.EmptyAddress, nil, err
	}
	addr, cfg, err := client.Config(ctx, authority)
	if err != nil {
		return codec.EmptyAddress, nil, fmt.Errorf("failed to get config of %s: %w", authority, err)
	}
	return addr, cfg, nil
}

var assetRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a boat owned by the current key",
	RunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()
		cfgAddr, cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		typ, err := flags.GetString("type")
		if err != nil {
			return err
		}
		assetType, err := storage.ParseAssetType(typ)
		if err != nil {
			return err
		}
		action := &actions.RegisterAsset{
			Config:    cfgAddr,
			AssetType: assetType,
			Treasury:  cfg.Treasury,
		}
		for flag, dest := range map[string]*string{
			"name":         &action.Name,
			"description":  &action.Description,
			"registration": &action.RegistrationNumber,
			"manufacturer": &action.Manufacturer,
		} {
			if *dest, err = flags.GetString(flag); err != nil {
				return err
			}
		}
		if action.YearBuilt, err = flags.GetUint16("year"); err != nil {
			return err
		}
		if action.LengthFeet, err = flags.GetUint32("length"); err != nil {
			return err
		}
		if action.Price, err = flags.GetUint64("price"); err != nil {
			return err
		}
		return submit(cmd, action)
	},
}

var assetUpdateCmd = &cobra.Command{
	Use:   "update [mint]",
	Short: "Update the description, maintenance date or sale flag of a boat",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mint, err := parseAddress(args[0])
		if err != nil {
			return err
		}
		cfgAddr, _, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		action := &actions.UpdateAssetMetadata{Config: cfgAddr, Mint: mint}
		flags := cmd.Flags()
		if flags.Changed("description") {
			v, err := flags.GetString("description")
			if err != nil {
				return err
			}
			action.Description = &v
		}
		if flags.Changed("maintained") {
			v, err := flags.GetString("maintained")
			if err != nil {
				return err
			}
			t, err := time.Parse(time.DateOnly, v)
			if err != nil {
				return fmt.Errorf("invalid maintenance date %q: %w", v, err)
			}
			ts := t.Unix()
			action.LastMaintenanceDate = &ts
		}
		if flags.Changed("for-sale") {
			v, err := flags.GetBool("for-sale")
			if err != nil {
				return err
			}
			action.IsForSale = &v
		}
		return submit(cmd, action)
	},
}

var assetTransferCmd = &cobra.Command{
	Use:   "transfer [mint] [to]",
	Short: "Transfer a boat held by the current key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mint, err := parseAddress(args[0])
		if err != nil {
			return err
		}
		to, err := parseAddress(args[1])
		if err != nil {
			return err
		}
		return submit(cmd, &actions.TransferAssetOwnership{Mint: mint, To: to})
	},
}

var assetGetCmd = &cobra.Command{
	Use:   "get [mint]",
	Short: "Print the record of a boat",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		mint, err := parseAddress(args[0])
		if err != nil {
			return err
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		addr, record, err := client.Asset(ctx, mint)
		if err != nil {
			return fmt.Errorf("failed to get asset: %w", err)
		}
		return printValue(cmd, assetEntryResponse{Address: addr, Record: record})
	},
}

var assetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered boats",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var owner *codec.Address
		if cmd.Flags().Changed("owner") {
			addr, err := addressFlag(cmd, "owner")
			if err != nil {
				return err
			}
			owner = &addr
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		entries, err := client.Assets(ctx, owner)
		if err != nil {
			return fmt.Errorf("failed to list assets: %w", err)
		}
		resp := assetListResponse{Assets: make([]assetEntryResponse, len(entries))}
		for i, e := range entries {
			resp.Assets[i] = assetEntryResponse{Address: e.Address, Record: e.Record}
		}
		return printValue(cmd, resp)
	},
}

type assetEntryResponse struct {
	Address codec.Address        `json:"address"`
	Record  *storage.AssetRecord `json:"record"`
}

func (r assetEntryResponse) String() string {
	a := r.Record
	s := fmt.Sprintf(
		"%s %q (%s, %s)\n  owner: %s\n  unit: %s\n  built %d by %s, %d ft\n  for sale: %t",
		r.Address, a.Name, a.AssetType, a.RegistrationNumber,
		a.Owner, a.OwnershipUnit,
		a.YearBuilt, a.Manufacturer, a.LengthFeet,
		a.IsForSale,
	)
	if a.LastMaintenanceDate != 0 {
		s += "\n  maintained: " + time.Unix(a.LastMaintenanceDate, 0).UTC().Format(time.DateOnly)
	}
	return s
}

type assetListResponse struct {
	Assets []assetEntryResponse `json:"assets"`
}

func (r assetListResponse) String() string {
	if len(r.Assets) == 0 {
		return "no assets"
	}
	lines := make([]string, len(r.Assets))
	for i, a := range r.Assets {
		lines[i] = a.String()
	}
	return strings.Join(lines, "\n")
}

func init() {
	rootCmd.AddCommand(assetCmd)
	assetCmd.AddCommand(assetRegisterCmd, assetUpdateCmd, assetTransferCmd, assetGetCmd, assetListCmd)

	assetRegisterCmd.Flags().String("authority", "", "Authority of the registry config")
	assetRegisterCmd.Flags().String("name", "", "Boat name")
	assetRegisterCmd.Flags().String("type", "", "sailboat, motorboat, yacht, catamaran or other:<label>")
	assetRegisterCmd.Flags().String("description", "", "Free-form description")
	assetRegisterCmd.Flags().String("registration", "", "Registration number")
	assetRegisterCmd.Flags().String("manufacturer", "", "Manufacturer")
	assetRegisterCmd.Flags().Uint16("year", 0, "Year built")
	assetRegisterCmd.Flags().Uint32("length", 0, "Length in feet")
	assetRegisterCmd.Flags().Uint64("price", 0, "Declared price the fee is computed from")
	for _, name := range []string{"authority", "name", "type", "registration", "year", "length", "price"} {
		if err := assetRegisterCmd.MarkFlagRequired(name); err != nil {
			log.Fatalf("failed to mark %s flag as required: %s", name, err)
		}
	}

	assetUpdateCmd.Flags().String("authority", "", "Authority of the registry config")
	assetUpdateCmd.Flags().String("description", "", "New description")
	assetUpdateCmd.Flags().String("maintained", "", "Last maintenance date (YYYY-MM-DD)")
	assetUpdateCmd.Flags().Bool("for-sale", false, "Whether the boat is for sale")
	if err := assetUpdateCmd.MarkFlagRequired("authority"); err != nil {
		log.Fatalf("failed to mark authority flag as required: %s", err)
	}

	assetListCmd.Flags().String("owner", "", "Only list boats held by this address")
}
