// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package expiry - derive an asset's effective expiration
//
// an asset carries no lease of its own, it lives exactly as long as
// the unprunable lease of its owning alias; an owner with no recorded
// lease makes the asset expire one tick past current median time,
// i.e. immediately on the next check (intentional: leaseless owners
// cannot keep assets alive)
package expiry

import (
	"github.com/regchain/registryd/alias"
	"github.com/regchain/registryd/assetrecord"
	"github.com/regchain/registryd/chainview"
)

// Expiration - effective expiration timestamp of a record (unix seconds)
func Expiration(record *assetrecord.Record, resolver alias.Resolver, view chainview.ChainView) int64 {
	when := view.MedianTime() + 1
	if info, ok := resolver.Resolve(record.Owner); ok && 0 != info.UnprunableExpiration {
		when = info.UnprunableExpiration
	}
	return when
}

// IsExpired - lazy-deletion check: the record is logically absent once
// median time reaches its expiration
func IsExpired(record *assetrecord.Record, resolver alias.Resolver, view chainview.ChainView) bool {
	return view.MedianTime() >= Expiration(record, resolver, view)
}
