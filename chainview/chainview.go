// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainview - read access to the host chain state
//
// the validator and the expiration policy never read ambient chain
// globals, the host runtime hands them a ChainView for each call
package chainview

// ChainView - the chain state a validation pass observes
type ChainView interface {

	// Height - block height of the current tip
	Height() uint64

	// MedianTime - median time past of the current tip (unix seconds)
	MedianTime() int64
}

// Fixed - a constant view, used by the CLI layer and by tests
type Fixed struct {
	BlockHeight uint64
	Median      int64
}

// Height - block height of the fixed tip
func (f Fixed) Height() uint64 {
	return f.BlockHeight
}

// MedianTime - median time past of the fixed tip
func (f Fixed) MedianTime() int64 {
	return f.Median
}
