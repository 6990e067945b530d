// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - authoritative asset state on leveldb
//
// a single database split into prefixed pools:
//
//	A → current asset record (key: asset id)
//	P → previous asset version (key: asset id, kept while a
//	    settlement lock is unresolved)
//	L → settlement lock (key: asset id, value: transaction digest)
//	H → operation history (key: transaction digest, append-only)
//	I → alias activity history (key: alias id + transaction digest)
//
// reads apply the lazy-expiry policy: an expired record reads back as
// absent even though its bytes remain until the next sweep
//
// validation runs inside the host runtime's block-connection critical
// section, so a store instance needs no locking beyond protecting the
// database handle itself
package storage
