// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"github.com/regchain/registryd/assetrecord"
)

// Status - outcome class of one validation
type Status int

// validation outcomes
const (
	StatusApplied  Status = iota + 1 // state changed (or idempotent re-accept)
	StatusRejected                   // rule violation, transaction stays valid
	StatusInvalid                    // structural failure, transaction rejected
)

func (status Status) String() string {
	switch status {
	case StatusApplied:
		return "applied"
	case StatusRejected:
		return "rejected"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Result - the tagged outcome of validating one operation
//
// Record is only set for an applied result; Reason is only set for
// rejected and invalid results
type Result struct {
	Status Status
	Record *assetrecord.Record
	Reason error
}

func applied(record *assetrecord.Record) Result {
	return Result{Status: StatusApplied, Record: record}
}

func rejected(reason error) Result {
	return Result{Status: StatusRejected, Reason: reason}
}

func invalid(reason error) Result {
	return Result{Status: StatusInvalid, Reason: reason}
}
