// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"

	"github.com/solimare/boatvm/codec"
	"github.com/solimare/boatvm/consts"
	"github.com/solimare/boatvm/state"
)

const (
	MaxNameLen               = 50
	MaxDescriptionLen        = 200
	MaxRegistrationNumberLen = 30
	MaxManufacturerLen       = 50

	maxAssetSize = consts.Uint8Len + 2*codec.AddressLen +
		consts.Uint16Len + MaxNameLen +
		consts.Uint16Len + MaxDescriptionLen +
		consts.Uint16Len + MaxRegistrationNumberLen +
		consts.Uint16Len + MaxManufacturerLen +
		consts.Uint8Len + consts.Uint16Len + MaxAssetTypeLabel +
		consts.Uint16Len + consts.Uint32Len + consts.Int64Len + consts.BoolLen + consts.Int64Len
)

// AssetRecord describes one registered boat. OwnershipUnit and CreatedAt
// never change after registration.
type AssetRecord struct {
	AddressNonce        uint8         `json:"addressNonce"`
	OwnershipUnit       codec.Address `json:"ownershipUnit"`
	Owner               codec.Address `json:"owner"`
	Name                string        `json:"name"`
	Description         string        `json:"description"`
	RegistrationNumber  string        `json:"registrationNumber"`
	Manufacturer        string        `json:"manufacturer"`
	AssetType           AssetType     `json:"assetType"`
	YearBuilt           uint16        `json:"yearBuilt"`
	LengthFeet          uint32        `json:"lengthFeet"`
	LastMaintenanceDate int64         `json:"lastMaintenanceDate"`
	IsForSale           bool          `json:"isForSale"`
	CreatedAt           int64         `json:"createdAt"`
}

func (r *AssetRecord) Marshal(p *codec.Packer) {
	p.PackByte(r.AddressNonce)
	p.PackAddress(r.OwnershipUnit)
	p.PackAddress(r.Owner)
	p.PackString(r.Name)
	p.PackString(r.Description)
	p.PackString(r.RegistrationNumber)
	p.PackString(r.Manufacturer)
	r.AssetType.Marshal(p)
	p.PackUint16(r.YearBuilt)
	p.PackUint32(r.LengthFeet)
	p.PackInt64(r.LastMaintenanceDate)
	p.PackBool(r.IsForSale)
	p.PackInt64(r.CreatedAt)
}

func UnmarshalAsset(b []byte) (*AssetRecord, error) {
	p := codec.NewReader(b, maxAssetSize)
	var r AssetRecord
	r.AddressNonce = p.UnpackByte()
	p.UnpackAddress(true, &r.OwnershipUnit)
	p.UnpackAddress(true, &r.Owner)
	r.Name = p.UnpackString(MaxNameLen, false)
	r.Description = p.UnpackString(MaxDescriptionLen, false)
	r.RegistrationNumber = p.UnpackString(MaxRegistrationNumberLen, false)
	r.Manufacturer = p.UnpackString(MaxManufacturerLen, false)
	r.AssetType = UnmarshalAssetType(p)
	r.YearBuilt = p.UnpackUint16()
	r.LengthFeet = p.UnpackUint32()
	r.LastMaintenanceDate = p.UnpackInt64()
	r.IsForSale = p.UnpackBool()
	r.CreatedAt = p.UnpackInt64()
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, codec.ErrExtraBytes
	}
	return &r, nil
}

// GetAsset loads the record stored at [addr].
func GetAsset(ctx context.Context, im state.Immutable, addr codec.Address) (*AssetRecord, error) {
	v, err := im.GetValue(ctx, AssetKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrAssetNotFound
	}
	if err != nil {
		return nil, err
	}
	return UnmarshalAsset(v)
}

func PutAsset(ctx context.Context, mu state.Mutable, addr codec.Address, r *AssetRecord) error {
	p := codec.NewWriter(maxAssetSize, maxAssetSize)
	r.Marshal(p)
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, AssetKey(addr), p.Bytes())
}

// CreateAsset stores [r] at [addr] only if nothing lives there yet.
func CreateAsset(ctx context.Context, mu state.Mutable, addr codec.Address, r *AssetRecord) error {
	_, err := mu.GetValue(ctx, AssetKey(addr))
	switch {
	case err == nil:
		return ErrAddressInUse
	case !errors.Is(err, database.ErrNotFound):
		return err
	}
	return PutAsset(ctx, mu, addr, r)
}

// AssetEntry is a record together with the address it is stored at.
type AssetEntry struct {
	Address codec.Address `json:"address"`
	Record  *AssetRecord  `json:"record"`
}

// ListAssets walks every stored record in key order. When [owner] is set
// only records it owns are returned.
func ListAssets(db database.Iteratee, owner *codec.Address) ([]*AssetEntry, error) {
	it := db.NewIteratorWithPrefix([]byte{assetPrefix})
	defer it.Release()

	entries := []*AssetEntry{}
	for it.Next() {
		k := it.Key()
		if len(k) != 1+codec.AddressLen+consts.Uint16Len {
			return nil, ErrInvalidEncoding
		}
		r, err := UnmarshalAsset(it.Value())
		if err != nil {
			return nil, err
		}
		if owner != nil && r.Owner != *owner {
			continue
		}
		var addr codec.Address
		copy(addr[:], k[1:1+codec.AddressLen])
		entries = append(entries, &AssetEntry{Address: addr, Record: r})
	}
	return entries, it.Error()
}
