// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

// Note: Registry will error during initialization if a duplicate ID is
// assigned. We explicitly assign IDs to avoid accidental remapping.
const (
	InitializeConfigID       uint8 = 0
	UpdateConfigID           uint8 = 1
	RegisterAssetID          uint8 = 2
	UpdateAssetMetadataID    uint8 = 3
	TransferAssetOwnershipID uint8 = 4
)

const (
	BoatMintedID           uint8 = 0
	FeeCollectedID         uint8 = 1
	MetadataUpdatedID      uint8 = 2
	OwnershipTransferredID uint8 = 3
	ConfigInitializedID    uint8 = 4
	ConfigUpdatedID        uint8 = 5
)

const (
	MinYearBuilt  = 1900 // exclusive
	MaxYearBuilt  = 2030
	MaxLengthFeet = 1000

	DescriptionField         = "description"
	LastMaintenanceDateField = "last_maintenance_date"
	IsForSaleField           = "is_for_sale"
)
