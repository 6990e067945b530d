// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package asset - the registry life-cycle state machine
//
// each asset id is conceptually Absent or Active(record); activate,
// update and transfer operations move between those states under two
// disjoint failure classes:
//
//	invalid  → structural damage, the containing transaction is
//	           rejected outright
//	rejected → a life-cycle rule was broken, the transaction stays in
//	           the chain but produces no state change
//
// the rejected class is deliberate fork avoidance: a transaction whose
// registry semantics are bad must never make its block invalid
package asset
