// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package assetrecord

import (
	"github.com/regchain/registryd/digest"
	"github.com/regchain/registryd/fault"
	"github.com/regchain/registryd/script"
	"github.com/regchain/registryd/transaction"
	"github.com/regchain/registryd/util"
)

// Unpack - decode a payload and verify its commitment digest
//
// the record is re-packed and hashed; a claimed digest that does not
// match the recomputed one is a distinct, consensus-fatal error
func Unpack(buffer []byte, claimed digest.Digest) (*Record, error) {
	record, n, err := unpackFields(buffer)
	if nil != err {
		return nil, err
	}
	if n != len(buffer) {
		return nil, fault.ErrCannotUnpackPayload
	}

	// bind the script-carried digest to the payload
	packed, err := record.Pack()
	if nil != err {
		return nil, fault.ErrCannotUnpackPayload
	}
	if digest.NewDigest(packed) != claimed {
		return nil, fault.ErrDataHashMismatch
	}
	return record, nil
}

// FromTransaction - locate the auxiliary payload and its script-carried
// commitment, then unpack
//
// also reports which operation the script declares
func FromTransaction(tx *transaction.Tx) (*Record, script.Operation, error) {
	op, args, _, ok := tx.AssetOperation()
	if !ok {
		return nil, 0, fault.ErrNotAssetTransaction
	}

	payload, ok := tx.AuxPayload()
	if !ok {
		return nil, 0, fault.ErrNoDataPayload
	}

	if 0 == len(args) {
		return nil, 0, fault.ErrArgumentsIncorrectSize
	}
	var claimed digest.Digest
	if err := digest.FromBytes(&claimed, args[0]); nil != err {
		return nil, 0, err
	}

	record, err := Unpack(payload, claimed)
	if nil != err {
		return nil, 0, err
	}
	return record, op, nil
}

// UnpackRaw - decode a stored record without a commitment check
//
// only for values the node itself packed and wrote; trailing bytes are
// still rejected
func UnpackRaw(buffer []byte) (*Record, error) {
	record, n, err := unpackFields(buffer)
	if nil != err {
		return nil, err
	}
	if n != len(buffer) {
		return nil, fault.ErrCannotUnpackPayload
	}
	return record, nil
}

// decode the fields without verifying the commitment
func unpackFields(buffer []byte) (*Record, int, error) {

	tag, n := util.ClippedVarint64(buffer, 1, 16)
	if 0 == n || recordTag != tag {
		return nil, 0, fault.ErrCannotUnpackPayload
	}

	operation, operationLength := util.ClippedVarint64(buffer[n:], 1, 16)
	if 0 == operationLength || !script.IsAssetOperation(script.Operation(operation)) {
		return nil, 0, fault.ErrCannotUnpackPayload
	}
	n += operationLength

	assetId, n, ok := nextBytes(buffer, n, 1, MaxAssetIdLength)
	if !ok {
		return nil, 0, fault.ErrCannotUnpackPayload
	}

	owner, n, ok := nextBytes(buffer, n, 0, MaxAliasLength)
	if !ok {
		return nil, 0, fault.ErrCannotUnpackPayload
	}

	name, n, ok := nextBytes(buffer, n, 0, MaxNameLength)
	if !ok {
		return nil, 0, fault.ErrCannotUnpackPayload
	}

	publicData, n, ok := nextBytes(buffer, n, 0, MaxPublicDataLength)
	if !ok {
		return nil, 0, fault.ErrCannotUnpackPayload
	}

	category, n, ok := nextBytes(buffer, n, 0, MaxCategoryLength)
	if !ok {
		return nil, 0, fault.ErrCannotUnpackPayload
	}

	linkAlias, n, ok := nextBytes(buffer, n, 0, MaxAliasLength)
	if !ok {
		return nil, 0, fault.ErrCannotUnpackPayload
	}

	height, heightLength := util.FromVarint64(buffer[n:])
	if 0 == heightLength {
		return nil, 0, fault.ErrCannotUnpackPayload
	}
	n += heightLength

	txIdBytes, n, ok := nextBytes(buffer, n, 1, digest.Length)
	if !ok || digest.Length != len(txIdBytes) {
		return nil, 0, fault.ErrCannotUnpackPayload
	}
	var txId digest.Digest
	if err := digest.FromBytes(&txId, txIdBytes); nil != err {
		return nil, 0, err
	}

	record := &Record{
		Operation:  script.Operation(operation),
		AssetId:    assetId,
		Owner:      owner,
		Name:       string(name),
		PublicData: publicData,
		Category:   string(category),
		LinkAlias:  linkAlias,
		Height:     height,
		TxId:       txId,
	}
	return record, n, nil
}

// read one length-prefixed field, enforcing its bounds
func nextBytes(buffer []byte, n int, minimum int, maximum int) ([]byte, int, bool) {
	if n >= len(buffer) {
		return nil, n, false
	}
	size, sizeLength := util.ClippedVarint64(buffer[n:], minimum, maximum)
	if 0 == sizeLength {
		return nil, n, false
	}
	n += sizeLength
	if n+size > len(buffer) {
		return nil, n, false
	}
	data := make([]byte, size)
	copy(data, buffer[n:n+size])
	return data, n + size, true
}
