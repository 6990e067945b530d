// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transaction - the extended transaction envelope
//
// asset operations ride inside ordinary transactions that use the
// extended version number and carry the full asset record in an
// auxiliary data output; the host runtime owns transaction relay and
// settlement, this package only models the envelope the registry core
// needs to read and the RPC layer needs to compose
package transaction

import (
	"encoding/hex"

	"github.com/regchain/registryd/digest"
	"github.com/regchain/registryd/fault"
	"github.com/regchain/registryd/script"
	"github.com/regchain/registryd/util"
)

// ExtendedVersion - transaction version that may carry an auxiliary
// data payload; any other version is ignored by the validator
const ExtendedVersion uint64 = 2

// Tx - the envelope as seen by the registry core
type Tx struct {
	Version uint64          `json:"version"`
	Outputs []script.Script `json:"outputs"`

	// assigned on pack/unpack, never serialized
	txId digest.Digest
}

// Packed - a serialized transaction
type Packed []byte

// New - compose an envelope and stamp its identifier
func New(version uint64, outputs []script.Script) *Tx {
	tx := &Tx{
		Version: version,
		Outputs: outputs,
	}
	tx.txId = digest.NewDigest(tx.Pack())
	return tx
}

// TxId - the transaction identifier (digest of the packed form)
func (tx *Tx) TxId() digest.Digest {
	return tx.txId
}

// IsExtended - check the envelope can carry an auxiliary payload
func (tx *Tx) IsExtended() bool {
	return ExtendedVersion == tx.Version
}

// Pack - canonical serialization: version, output count, then each
// output script length-prefixed
func (tx *Tx) Pack() Packed {
	message := util.ToVarint64(tx.Version)
	message = append(message, util.ToVarint64(uint64(len(tx.Outputs)))...)
	for _, out := range tx.Outputs {
		message = append(message, util.ToVarint64(uint64(len(out)))...)
		message = append(message, out...)
	}
	return message
}

// Unpack - decode a packed transaction and stamp its identifier
func Unpack(buffer Packed) (*Tx, error) {
	version, n := util.FromVarint64(buffer)
	if 0 == n {
		return nil, fault.ErrCannotUnpackPayload
	}

	count, countLength := util.FromVarint64(buffer[n:])
	if 0 == countLength {
		return nil, fault.ErrCannotUnpackPayload
	}
	n += countLength

	outputs := make([]script.Script, 0, count)
	for i := uint64(0); i < count; i += 1 {
		size, sizeLength := util.ClippedVarint64(buffer[n:], 0, 1048576)
		if 0 == sizeLength {
			return nil, fault.ErrCannotUnpackPayload
		}
		n += sizeLength
		if n+size > len(buffer) {
			return nil, fault.ErrCannotUnpackPayload
		}
		out := make(script.Script, size)
		copy(out, buffer[n:n+size])
		n += size
		outputs = append(outputs, out)
	}
	if n != len(buffer) {
		return nil, fault.ErrCannotUnpackPayload
	}

	tx := &Tx{
		Version: version,
		Outputs: outputs,
	}
	tx.txId = digest.NewDigest(buffer[:n])
	return tx, nil
}

// AuxPayload - locate the auxiliary data output
//
// second result is false when the transaction carries no payload
func (tx *Tx) AuxPayload() ([]byte, bool) {
	for _, out := range tx.Outputs {
		payload, ok := script.DataPayload(out)
		if ok {
			return payload, true
		}
	}
	return nil, false
}

// AssetOperation - scan the outputs for an asset operation prefix
func (tx *Tx) AssetOperation() (script.Operation, [][]byte, int, bool) {
	return script.ScanOutputs(tx.Outputs)
}

// MarshalText - hex form for the RPC/CLI layer
func (tx *Tx) MarshalText() ([]byte, error) {
	packed := tx.Pack()
	b := make([]byte, hex.EncodedLen(len(packed)))
	hex.Encode(b, packed)
	return b, nil
}

// UnmarshalText - decode the hex form
func (tx *Tx) UnmarshalText(s []byte) error {
	packed := make(Packed, hex.DecodedLen(len(s)))
	if _, err := hex.Decode(packed, s); nil != err {
		return err
	}
	decoded, err := Unpack(packed)
	if nil != err {
		return err
	}
	*tx = *decoded
	return nil
}
