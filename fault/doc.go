// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches
//
// Asset operation failures split into two disjoint classes: consensus
// errors reject the containing transaction outright, rule errors leave
// the transaction valid but void its registry effect.  Both carry the
// numeric reporting code used by the wire protocol.
package fault
