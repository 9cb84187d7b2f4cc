// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/near/borsh-go"

	"github.com/solimare/boatvm/chain"
	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/storage"
)

const DiscriminatorLen = 8

var (
	_ chain.Event = (*BoatMinted)(nil)
	_ chain.Event = (*FeeCollected)(nil)
	_ chain.Event = (*MetadataUpdated)(nil)
	_ chain.Event = (*OwnershipTransferred)(nil)
	_ chain.Event = (*ConfigInitialized)(nil)
	_ chain.Event = (*ConfigUpdated)(nil)
)

// Discriminator is the first 8 bytes of sha256("event:<name>").
func Discriminator(name string) [DiscriminatorLen]byte {
	h := sha256.Sum256([]byte("event:" + name))
	var d [DiscriminatorLen]byte
	copy(d[:], h[:DiscriminatorLen])
	return d
}

func encodeEvent(name string, payload any) ([]byte, error) {
	b, err := borsh.Serialize(payload)
	if err != nil {
		return nil, err
	}
	d := Discriminator(name)
	return append(d[:], b...), nil
}

type BoatMinted struct {
	Mint               codec.Address     `json:"mint"`
	Owner              codec.Address     `json:"owner"`
	BoatName           string            `json:"name"`
	AssetType          storage.AssetType `json:"assetType"`
	RegistrationNumber string            `json:"registrationNumber"`
	Price              uint64            `json:"price"`
	Fee                uint64            `json:"fee"`
}

// boatMintedPayload is [BoatMinted] with the asset type as a Borsh enum.
type boatMintedPayload struct {
	Mint               codec.Address
	Owner              codec.Address
	Name               string
	AssetType          assetTypeEnum
	RegistrationNumber string
	Price              uint64
	Fee                uint64
}

type (
	unitVariant  struct{}
	otherVariant struct{ Label string }

	// assetTypeEnum encodes like a Rust enum: a variant byte and, for
	// Other only, the label.
	assetTypeEnum struct {
		Enum      borsh.Enum `borsh_enum:"true"`
		Sailboat  unitVariant
		Motorboat unitVariant
		Yacht     unitVariant
		Catamaran unitVariant
		Other     otherVariant
	}
)

func toAssetTypeEnum(t storage.AssetType) assetTypeEnum {
	return assetTypeEnum{
		Enum:  borsh.Enum(t.Kind),
		Other: otherVariant{Label: t.Label},
	}
}

func (e assetTypeEnum) assetType() storage.AssetType {
	t := storage.AssetType{Kind: storage.AssetKind(e.Enum)}
	if t.Kind == storage.Other {
		t.Label = e.Other.Label
	}
	return t
}

func (*BoatMinted) GetTypeID() uint8 { return BoatMintedID }

func (*BoatMinted) Name() string { return "BoatMinted" }

func (e *BoatMinted) Bytes() ([]byte, error) {
	return encodeEvent(e.Name(), boatMintedPayload{
		Mint:               e.Mint,
		Owner:              e.Owner,
		Name:               e.BoatName,
		AssetType:          toAssetTypeEnum(e.AssetType),
		RegistrationNumber: e.RegistrationNumber,
		Price:              e.Price,
		Fee:                e.Fee,
	})
}

type FeeCollected struct {
	Mint   codec.Address `json:"mint"`
	Payer  codec.Address `json:"payer"`
	Amount uint64        `json:"amount"`
}

func (*FeeCollected) GetTypeID() uint8 { return FeeCollectedID }

func (*FeeCollected) Name() string { return "FeeCollected" }

func (e *FeeCollected) Bytes() ([]byte, error) { return encodeEvent(e.Name(), *e) }

type MetadataUpdated struct {
	Mint     codec.Address `json:"mint"`
	Field    string        `json:"field"`
	NewValue string        `json:"newValue"`
}

func (*MetadataUpdated) GetTypeID() uint8 { return MetadataUpdatedID }

func (*MetadataUpdated) Name() string { return "MetadataUpdated" }

func (e *MetadataUpdated) Bytes() ([]byte, error) { return encodeEvent(e.Name(), *e) }

type OwnershipTransferred struct {
	Mint codec.Address `json:"mint"`
	From codec.Address `json:"from"`
	To   codec.Address `json:"to"`
}

func (*OwnershipTransferred) GetTypeID() uint8 { return OwnershipTransferredID }

func (*OwnershipTransferred) Name() string { return "OwnershipTransferred" }

func (e *OwnershipTransferred) Bytes() ([]byte, error) { return encodeEvent(e.Name(), *e) }

type ConfigInitialized struct {
	Config    codec.Address `json:"config"`
	Authority codec.Address `json:"authority"`
	FeeBps    uint16        `json:"feeBps"`
	Treasury  codec.Address `json:"treasury"`
}

func (*ConfigInitialized) GetTypeID() uint8 { return ConfigInitializedID }

func (*ConfigInitialized) Name() string { return "ConfigInitialized" }

func (e *ConfigInitialized) Bytes() ([]byte, error) { return encodeEvent(e.Name(), *e) }

// ConfigUpdated carries the config as it is after the update.
type ConfigUpdated struct {
	Config   codec.Address `json:"config"`
	FeeBps   uint16        `json:"feeBps"`
	Treasury codec.Address `json:"treasury"`
	IsActive bool          `json:"isActive"`
	IsPaused bool          `json:"isPaused"`
}

func (*ConfigUpdated) GetTypeID() uint8 { return ConfigUpdatedID }

func (*ConfigUpdated) Name() string { return "ConfigUpdated" }

func (e *ConfigUpdated) Bytes() ([]byte, error) { return encodeEvent(e.Name(), *e) }

// DecodeEvent parses the output of an event's Bytes.
func DecodeEvent(b []byte) (chain.Event, error) {
	if len(b) < DiscriminatorLen {
		return nil, fmt.Errorf("%w: event of %d bytes", codec.ErrInsufficientLength, len(b))
	}
	d, payload := b[:DiscriminatorLen], b[DiscriminatorLen:]
	switch {
	case bytes.Equal(d, discriminators.boatMinted[:]):
		var p boatMintedPayload
		if err := borsh.Deserialize(&p, payload); err != nil {
			return nil, err
		}
		return &BoatMinted{
			Mint:               p.Mint,
			Owner:              p.Owner,
			BoatName:           p.Name,
			AssetType:          p.AssetType.assetType(),
			RegistrationNumber: p.RegistrationNumber,
			Price:              p.Price,
			Fee:                p.Fee,
		}, nil
	case bytes.Equal(d, discriminators.feeCollected[:]):
		return decodeInto(&FeeCollected{}, payload)
	case bytes.Equal(d, discriminators.metadataUpdated[:]):
		return decodeInto(&MetadataUpdated{}, payload)
	case bytes.Equal(d, discriminators.ownershipTransferred[:]):
		return decodeInto(&OwnershipTransferred{}, payload)
	case bytes.Equal(d, discriminators.configInitialized[:]):
		return decodeInto(&ConfigInitialized{}, payload)
	case bytes.Equal(d, discriminators.configUpdated[:]):
		return decodeInto(&ConfigUpdated{}, payload)
	default:
		return nil, fmt.Errorf("%w: discriminator %x", codec.ErrUnknownType, d)
	}
}

func decodeInto[T chain.Event](e T, payload []byte) (chain.Event, error) {
	if err := borsh.Deserialize(e, payload); err != nil {
		return nil, err
	}
	return e, nil
}

var discriminators = struct {
	boatMinted           [DiscriminatorLen]byte
	feeCollected         [DiscriminatorLen]byte
	metadataUpdated      [DiscriminatorLen]byte
	ownershipTransferred [DiscriminatorLen]byte
	configInitialized    [DiscriminatorLen]byte
	configUpdated        [DiscriminatorLen]byte
}{
	boatMinted:           Discriminator("BoatMinted"),
	feeCollected:         Discriminator("FeeCollected"),
	metadataUpdated:      Discriminator("MetadataUpdated"),
	ownershipTransferred: Discriminator("OwnershipTransferred"),
	configInitialized:    Discriminator("ConfigInitialized"),
	configUpdated:        Discriminator("ConfigUpdated"),
}
