// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package alias_test

import (
	"testing"
	"time"

	"github.com/regchain/registryd/alias"
)

func TestMemoryResolver(t *testing.T) {
	r := alias.NewMemory()
	r.Add([]byte("alice"), alias.Info{
		UnprunableExpiration:  1700000000,
		AcceptsAssetTransfers: true,
	})

	info, ok := r.Resolve([]byte("alice"))
	if !ok {
		t.Fatalf("alias not found")
	}
	if 1700000000 != info.UnprunableExpiration {
		t.Fatalf("expiration: %d  expected: 1700000000", info.UnprunableExpiration)
	}
	if !info.AcceptsAssetTransfers {
		t.Fatalf("transfer flag not set")
	}

	_, ok = r.Resolve([]byte("bob"))
	if ok {
		t.Fatalf("unknown alias resolved")
	}
}

func TestCachedResolver(t *testing.T) {
	inner := alias.NewMemory()
	inner.Add([]byte("alice"), alias.Info{UnprunableExpiration: 42})

	cached := alias.NewCached(inner, time.Minute)

	info, ok := cached.Resolve([]byte("alice"))
	if !ok || 42 != info.UnprunableExpiration {
		t.Fatalf("first resolve failed: %v %v", info, ok)
	}

	// a stale positive entry is served from cache
	inner.Add([]byte("alice"), alias.Info{UnprunableExpiration: 43})
	info, _ = cached.Resolve([]byte("alice"))
	if 42 != info.UnprunableExpiration {
		t.Fatalf("expiration: %d  expected cached: 42", info.UnprunableExpiration)
	}

	// misses are not cached
	_, ok = cached.Resolve([]byte("bob"))
	if ok {
		t.Fatalf("unknown alias resolved")
	}
	inner.Add([]byte("bob"), alias.Info{AcceptsAssetTransfers: true})
	info, ok = cached.Resolve([]byte("bob"))
	if !ok || !info.AcceptsAssetTransfers {
		t.Fatalf("newly added alias not visible")
	}
}

func TestAliasIdText(t *testing.T) {
	id := []byte{0x00, 0x01, 0xfe, 0xff}
	restored, err := alias.FromString(alias.ToString(id))
	if nil != err {
		t.Fatalf("decode error: %s", err)
	}
	if string(restored) != string(id) {
		t.Fatalf("restored: %x  expected: %x", restored, id)
	}
}
