// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package script

// builders used by the RPC layer when composing unsigned transactions

// pushData - append the minimal push encoding of data
func pushData(s Script, data []byte) Script {
	switch {
	case len(data) < int(opPushData1):
		s = append(s, byte(len(data)))
	case len(data) <= 0xff:
		s = append(s, opPushData1, byte(len(data)))
	case len(data) <= 0xffff:
		s = append(s, opPushData2, byte(len(data)), byte(len(data)>>8))
	default:
		s = append(s, opPushData4,
			byte(len(data)), byte(len(data)>>8),
			byte(len(data)>>16), byte(len(data)>>24))
	}
	return append(s, data...)
}

// AssetPrefix - build the operation prefix for one script argument
//
// layout matches the decoder: marker, sub-operation, pushed
// commitment digest, OP_2DROP OP_DROP
func AssetPrefix(op Operation, commitment []byte) Script {
	s := Script{encodeOpN(assetMarker), encodeOpN(int(op))}
	s = pushData(s, commitment)
	return append(s, op2Drop, opDrop)
}

// Join - concatenate an operation prefix and a spend condition
func Join(prefix Script, spend Script) Script {
	s := make(Script, 0, len(prefix)+len(spend))
	s = append(s, prefix...)
	return append(s, spend...)
}

// DataCarrier - build the auxiliary payload output script
func DataCarrier(payload []byte) Script {
	s := Script{opReturn}
	return pushData(s, payload)
}

// DataPayload - extract the payload from a data carrier script
func DataPayload(s Script) ([]byte, bool) {
	opcode, _, pc, ok := getOp(s, 0)
	if !ok || opReturn != opcode {
		return nil, false
	}
	opcode, data, pc, ok := getOp(s, pc)
	if !ok || opcode > opPushData4 {
		return nil, false
	}
	if pc != len(s) {
		return nil, false
	}
	return data, true
}
