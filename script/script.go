// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package script - codec for the asset operation prefix embedded in an
// output spending script
//
// the prefix is: two small-integer opcodes (protocol marker and
// sub-operation) followed by the pushed argument vector and one or
// more drop opcodes; the remainder of the script is the ordinary
// spend condition
//
// decoding a script that does not carry the prefix is not an error,
// it only reports "not this protocol"
package script

// Script - a raw output script
type Script []byte

// Operation - asset sub-operation carried by the second script opcode
type Operation int

// valid sub-operations
const (
	OpActivate Operation = iota + 1
	OpUpdate
	OpTransfer
	OpMint
)

// assetMarker - the leading small-integer identifying an asset
// operation prefix
const assetMarker = 5

// opcode subset used by the prefix
const (
	opPushData1 = 0x4c
	opPushData2 = 0x4d
	opPushData4 = 0x4e
	op1         = 0x51
	op16        = 0x60
	opReturn    = 0x6a
	op2Drop     = 0x6d
	opDrop      = 0x75
)

// MaxPushSize - maximum bytes in a single pushed argument
const MaxPushSize = 520

// String - operation name for logs and the read-model projection
func (op Operation) String() string {
	switch op {
	case OpActivate:
		return "assetactivate"
	case OpUpdate:
		return "assetupdate"
	case OpTransfer:
		return "assettransfer"
	case OpMint:
		return "assetmint"
	default:
		return "<unknown asset op>"
	}
}

// IsAssetOperation - check a decoded small integer is a known sub-operation
func IsAssetOperation(op Operation) bool {
	return op >= OpActivate && op <= OpMint
}

// read one opcode and its pushed data (if any) starting at pc
//
// returns the opcode, pushed data, position after the token and a
// flag that is false when the script is truncated
func getOp(s Script, pc int) (byte, []byte, int, bool) {
	if pc >= len(s) {
		return 0, nil, pc, false
	}
	opcode := s[pc]
	pc += 1

	if opcode > opPushData4 {
		return opcode, nil, pc, true
	}

	size := 0
	switch opcode {
	case opPushData1:
		if pc+1 > len(s) {
			return 0, nil, pc, false
		}
		size = int(s[pc])
		pc += 1
	case opPushData2:
		if pc+2 > len(s) {
			return 0, nil, pc, false
		}
		size = int(s[pc]) | int(s[pc+1])<<8
		pc += 2
	case opPushData4:
		if pc+4 > len(s) {
			return 0, nil, pc, false
		}
		// assemble unsigned: a length near 2^32 must not wrap into a
		// negative int on 32-bit builds
		length := uint32(s[pc]) | uint32(s[pc+1])<<8 | uint32(s[pc+2])<<16 | uint32(s[pc+3])<<24
		pc += 4
		if uint64(length) > uint64(len(s)-pc) {
			return 0, nil, pc, false
		}
		size = int(length)
	default:
		size = int(opcode)
	}

	if pc+size > len(s) {
		return 0, nil, pc, false
	}
	data := s[pc : pc+size]
	pc += size
	return opcode, data, pc, true
}

// decode a small-integer opcode OP_1..OP_16
func decodeOpN(opcode byte) (int, bool) {
	if opcode < op1 || opcode > op16 {
		return 0, false
	}
	return int(opcode-op1) + 1, true
}

// encode a small integer 1..16 as its opcode
func encodeOpN(n int) byte {
	return op1 + byte(n-1)
}

// internal decode returning the cursor position just after the prefix
func decode(s Script) (Operation, [][]byte, int, bool) {

	opcode, _, pc, ok := getOp(s, 0)
	if !ok {
		return 0, nil, 0, false
	}
	marker, ok := decodeOpN(opcode)
	if !ok || assetMarker != marker {
		return 0, nil, 0, false
	}

	opcode, _, pc, ok = getOp(s, pc)
	if !ok {
		return 0, nil, 0, false
	}
	n, ok := decodeOpN(opcode)
	if !ok {
		return 0, nil, 0, false
	}
	op := Operation(n)
	if !IsAssetOperation(op) {
		return 0, nil, 0, false
	}

	args := [][]byte(nil)
	found := false
scan:
	for {
		var data []byte
		opcode, data, pc, ok = getOp(s, pc)
		if !ok {
			return 0, nil, 0, false
		}
		switch {
		case opDrop == opcode || op2Drop == opcode:
			found = true
			break scan
		case opcode > opPushData4:
			return 0, nil, 0, false
		case len(data) > MaxPushSize:
			return 0, nil, 0, false
		default:
			args = append(args, data)
		}
	}
	if !found {
		return 0, nil, 0, false
	}

	// consume any further drop opcodes, leaving pc at the start of
	// the spend condition
	for {
		mark := pc
		var next byte
		next, _, pc, ok = getOp(s, pc)
		if !ok {
			pc = mark
			break
		}
		if opDrop != next && op2Drop != next {
			pc = mark
			break
		}
	}

	return op, args, pc, true
}

// Decode - extract the operation and argument vector from a script
//
// the final flag is false when the script is not an asset operation
func Decode(s Script) (Operation, [][]byte, bool) {
	op, args, _, ok := decode(s)
	return op, args, ok
}

// StripPrefix - recover the spend condition that follows the asset prefix
func StripPrefix(s Script) (Script, bool) {
	_, _, pc, ok := decode(s)
	if !ok {
		return nil, false
	}
	rest := make(Script, len(s)-pc)
	copy(rest, s[pc:])
	return rest, true
}

// ScanOutputs - try each output script in index order
//
// returns the first successful decode and its output index; a
// transaction carrying no asset operation is a normal outcome, not an
// error
func ScanOutputs(outputs []Script) (Operation, [][]byte, int, bool) {
	for i, s := range outputs {
		op, args, ok := Decode(s)
		if ok {
			return op, args, i, true
		}
	}
	return 0, nil, -1, false
}
