// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package assetrecord

import (
	"github.com/regchain/registryd/fault"
	"github.com/regchain/registryd/script"
	"github.com/regchain/registryd/util"
)

// Pack - canonical serialization
//
// Varint64(recordTag) Varint64(operation) then the fields in data
// model order, each byte/string field preceded by its Varint64 length
func (record *Record) Pack() (Packed, error) {
	if !script.IsAssetOperation(record.Operation) {
		return nil, fault.ErrUnknownOperation
	}
	if 0 == len(record.AssetId) || len(record.AssetId) > MaxAssetIdLength {
		return nil, fault.ErrAssetIdTooLong
	}
	if len(record.Owner) > MaxAliasLength || len(record.LinkAlias) > MaxAliasLength {
		return nil, fault.ErrCannotUnpackPayload
	}
	// byte lengths, matching the unpack side and the life-cycle rules
	if len(record.Name) > MaxNameLength {
		return nil, fault.ErrNameLengthInvalid
	}
	if len(record.PublicData) > MaxPublicDataLength {
		return nil, fault.ErrPublicDataTooLong
	}
	if len(record.Category) > MaxCategoryLength {
		return nil, fault.ErrCategoryTooLong
	}

	// concatenate bytes
	message := util.ToVarint64(recordTag)
	message = appendUint64(message, uint64(record.Operation))
	message = appendBytes(message, record.AssetId)
	message = appendBytes(message, record.Owner)
	message = appendString(message, record.Name)
	message = appendBytes(message, record.PublicData)
	message = appendString(message, record.Category)
	message = appendBytes(message, record.LinkAlias)
	message = appendUint64(message, record.Height)
	message = appendBytes(message, record.TxId[:])
	return Packed(message), nil
}

// append a single string field to a buffer
//
// the field is prefixed by Varint64(length)
func appendString(buffer []byte, s string) []byte {
	l := util.ToVarint64(uint64(len(s)))
	buffer = append(buffer, l...)
	return append(buffer, s...)
}

// append a bytes field to a buffer
//
// the field is prefixed by Varint64(length)
func appendBytes(buffer []byte, data []byte) []byte {
	l := util.ToVarint64(uint64(len(data)))
	buffer = append(buffer, l...)
	return append(buffer, data...)
}

// append a Varint64 to buffer
func appendUint64(buffer []byte, value uint64) []byte {
	valueBytes := util.ToVarint64(value)
	return append(buffer, valueBytes...)
}
