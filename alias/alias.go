// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package alias - boundary to the identity subsystem
//
// the registry core never validates aliases itself, it only reads the
// few fields the life-cycle rules depend on: whether the alias exists,
// its unprunable lease expiration and its transfer-acceptance flag
package alias

import (
	"time"

	"github.com/mr-tron/base58"
	gocache "github.com/patrickmn/go-cache"
)

// Info - the identity fields the registry reads
type Info struct {
	UnprunableExpiration  int64 `json:"unprunableExpiration"` // unix seconds, zero when no lease is recorded
	AcceptsAssetTransfers bool  `json:"acceptsAssetTransfers"`
}

// Resolver - read access to the identity registry
type Resolver interface {

	// Resolve - fetch identity fields for an alias id
	// second result is false when the alias does not exist
	Resolve(id []byte) (*Info, bool)
}

// HistoryWriter - write-ahead activity history keyed by owning identity
//
// supplied by the host runtime; descriptions are free text shown in
// the identity's activity feed
type HistoryWriter interface {
	WriteTxHistory(owner []byte, recipient []byte, txId string, height uint64, description string, assetId []byte)
}

// ToString - display form of an alias id
func ToString(id []byte) string {
	return base58.Encode(id)
}

// FromString - parse the display form of an alias id
func FromString(s string) ([]byte, error) {
	return base58.Decode(s)
}

// Memory - an in-process resolver for fixtures and tests
type Memory struct {
	aliases map[string]Info
}

// NewMemory - create an empty in-process resolver
func NewMemory() *Memory {
	return &Memory{
		aliases: make(map[string]Info),
	}
}

// Add - register or replace an alias
func (m *Memory) Add(id []byte, info Info) {
	m.aliases[string(id)] = info
}

// Resolve - fetch identity fields for an alias id
func (m *Memory) Resolve(id []byte) (*Info, bool) {
	info, ok := m.aliases[string(id)]
	if !ok {
		return nil, false
	}
	return &info, true
}

// Cached - TTL cache in front of a slower resolver
//
// negative results are not cached so a newly registered alias becomes
// visible immediately
type Cached struct {
	inner Resolver
	cache *gocache.Cache
}

// NewCached - wrap a resolver with a TTL cache
func NewCached(inner Resolver, ttl time.Duration) *Cached {
	return &Cached{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Resolve - fetch identity fields, preferring the cache
func (c *Cached) Resolve(id []byte) (*Info, bool) {
	key := string(id)
	if cached, ok := c.cache.Get(key); ok {
		info := cached.(Info)
		return &info, true
	}
	info, ok := c.inner.Resolve(id)
	if !ok {
		return nil, false
	}
	c.cache.Set(key, *info, gocache.DefaultExpiration)
	return info, true
}

// NoHistory - discard activity history, for hosts without a feed
type NoHistory struct{}

// WriteTxHistory - discard the entry
func (NoHistory) WriteTxHistory(owner []byte, recipient []byte, txId string, height uint64, description string, assetId []byte) {
}
