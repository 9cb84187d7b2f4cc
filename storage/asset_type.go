// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"fmt"
	"strings"

	"github.com/solimare/boatvm/codec"
)

// MaxAssetTypeLabel bounds the label carried by [Other].
const MaxAssetTypeLabel = 30

type AssetKind uint8

const (
	Sailboat AssetKind = iota
	Motorboat
	Yacht
	Catamaran
	Other
)

const otherPrefix = "other:"

var kindNames = map[AssetKind]string{
	Sailboat:  "sailboat",
	Motorboat: "motorboat",
	Yacht:     "yacht",
	Catamaran: "catamaran",
	Other:     "other",
}

// AssetType is the hull category of a boat. Label is only set for Other.
type AssetType struct {
	Kind  AssetKind
	Label string
}

func OtherType(label string) AssetType {
	return AssetType{Kind: Other, Label: label}
}

func (a AssetType) Verify() error {
	if _, ok := kindNames[a.Kind]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAssetType, a.Kind)
	}
	if a.Kind != Other && len(a.Label) > 0 {
		return fmt.Errorf("%w: label on %s", ErrUnknownAssetType, kindNames[a.Kind])
	}
	if len(a.Label) > MaxAssetTypeLabel {
		return fmt.Errorf("%w: %d > %d", ErrAssetTypeTooLong, len(a.Label), MaxAssetTypeLabel)
	}
	return nil
}

// String renders the type as "yacht" or "other:<label>".
func (a AssetType) String() string {
	if a.Kind == Other {
		return otherPrefix + a.Label
	}
	name, ok := kindNames[a.Kind]
	if !ok {
		return fmt.Sprintf("unknown(%d)", a.Kind)
	}
	return name
}

func ParseAssetType(s string) (AssetType, error) {
	if label, ok := strings.CutPrefix(s, otherPrefix); ok {
		t := OtherType(label)
		return t, t.Verify()
	}
	for k, name := range kindNames {
		if k != Other && strings.EqualFold(name, s) {
			return AssetType{Kind: k}, nil
		}
	}
	return AssetType{}, fmt.Errorf("%w: %q", ErrUnknownAssetType, s)
}

func (a AssetType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AssetType) UnmarshalText(b []byte) error {
	t, err := ParseAssetType(string(b))
	if err != nil {
		return err
	}
	*a = t
	return nil
}

func (a AssetType) Size() int {
	return 1 + codec.StringLen(a.Label)
}

func (a AssetType) Marshal(p *codec.Packer) {
	p.PackByte(uint8(a.Kind))
	p.PackString(a.Label)
}

func UnmarshalAssetType(p *codec.Packer) AssetType {
	var a AssetType
	a.Kind = AssetKind(p.UnpackByte())
	a.Label = p.UnpackString(MaxAssetTypeLabel, false)
	return a
}
