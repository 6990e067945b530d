// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package assetrecord - canonical serialization of an asset record
//
// the packed form is committed to by a SHA3-256 digest pushed inside
// the operation script; unpacking always re-packs and compares against
// the claimed digest so the script and the auxiliary payload cannot be
// mixed and matched
package assetrecord

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/regchain/registryd/digest"
	"github.com/regchain/registryd/fault"
	"github.com/regchain/registryd/script"
)

// byte sizes for the length-bounded fields
const (
	AssetIdLength       = 16
	MaxAssetIdLength    = 64
	MaxNameLength       = MaxAssetIdLength
	MaxPublicDataLength = 1024
	MaxCategoryLength   = 256
	MaxAliasLength      = 64
)

// ReservedCategoryPrefix - every asset category must lie inside this
// namespace
const ReservedCategoryPrefix = "assets"

// recordTag - leading tag of the packed form, same small integer as
// the script protocol marker
const recordTag = 5

// Record - the unpacked asset record
//
// Name is set exactly once at activation; LinkAlias only names the
// transfer recipient in flight and is cleared before the record is
// stored
type Record struct {
	Operation  script.Operation `json:"operation"`  // sub-operation that produced this version
	AssetId    []byte           `json:"assetId"`    // hex
	Owner      []byte           `json:"owner"`      // owning alias id
	Name       string           `json:"name"`       // utf-8, immutable after activate
	PublicData []byte           `json:"publicData"` // free-form blob
	Category   string           `json:"category"`   // reserved namespace
	LinkAlias  []byte           `json:"linkAlias"`  // transfer recipient, transient
	Height     uint64           `json:"height"`     // block height of this version
	TxId       digest.Digest    `json:"txId"`       // transaction that produced this version
}

// Packed - a canonically serialized record
type Packed []byte

// NewAssetId - generate a fresh asset id for an activate operation
func NewAssetId() []byte {
	id := make([]byte, AssetIdLength)
	_, err := rand.Read(id)
	if nil != err {
		panic("assetrecord: random source failed: " + err.Error())
	}
	return id
}

// IdToString - hex display form of an asset id
func IdToString(id []byte) string {
	return hex.EncodeToString(id)
}

// IdFromString - parse the hex display form of an asset id
func IdFromString(s string) ([]byte, error) {
	id, err := hex.DecodeString(s)
	if nil != err {
		return nil, err
	}
	if len(id) > MaxAssetIdLength {
		return nil, fault.ErrAssetIdTooLong
	}
	return id, nil
}

// Hash - the commitment digest over the canonical packed form
func (record *Record) Hash() (digest.Digest, error) {
	packed, err := record.Pack()
	if nil != err {
		return digest.Digest{}, err
	}
	return digest.NewDigest(packed), nil
}

// Copy - deep copy, the store hands out records that callers may modify
func (record *Record) Copy() *Record {
	r := *record
	r.AssetId = append([]byte(nil), record.AssetId...)
	r.Owner = append([]byte(nil), record.Owner...)
	r.PublicData = append([]byte(nil), record.PublicData...)
	r.LinkAlias = append([]byte(nil), record.LinkAlias...)
	return &r
}
