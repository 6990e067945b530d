// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package digest_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/regchain/registryd/digest"
)

// SHA3-256("hello world") reference value
var helloWorldDigest = digest.Digest{
	0x64, 0x4b, 0xcc, 0x7e, 0x56, 0x43, 0x73, 0x04,
	0x09, 0x99, 0xaa, 0xc8, 0x9e, 0x76, 0x22, 0xf3,
	0xca, 0x71, 0xfb, 0xa1, 0xd9, 0x72, 0xfd, 0x94,
	0xa3, 0x1c, 0x3b, 0xfb, 0xf2, 0x4e, 0x39, 0x38,
}

func TestDigest(t *testing.T) {
	d := digest.NewDigest([]byte("hello world"))
	if d != helloWorldDigest {
		t.Fatalf("digest: %#v  expected: %#v", d, helloWorldDigest)
	}
}

func TestDigestTextMarshalling(t *testing.T) {
	d := digest.NewDigest([]byte("hello world"))

	buffer, err := json.Marshal(d)
	if nil != err {
		t.Fatalf("json marshal error: %s", err)
	}

	expected := `"644bcc7e564373040999aac89e7622f3ca71fba1d972fd94a31c3bfbf24e3938"`
	if expected != string(buffer) {
		t.Fatalf("marshalled: %s  expected: %s", buffer, expected)
	}

	var restored digest.Digest
	err = json.Unmarshal(buffer, &restored)
	if nil != err {
		t.Fatalf("json unmarshal error: %s", err)
	}
	if restored != d {
		t.Fatalf("restored: %#v  expected: %#v", restored, d)
	}
}

func TestDigestScan(t *testing.T) {
	var d digest.Digest
	n, err := fmt.Sscan("644bcc7e564373040999aac89e7622f3ca71fba1d972fd94a31c3bfbf24e3938", &d)
	if nil != err {
		t.Fatalf("scan error: %s", err)
	}
	if 1 != n {
		t.Fatalf("scanned items: %d  expected: 1", n)
	}
	if d != helloWorldDigest {
		t.Fatalf("scanned: %#v  expected: %#v", d, helloWorldDigest)
	}
}

// any single byte change must produce a different digest
func TestDigestSensitivity(t *testing.T) {
	data := []byte("the quick brown fox")
	reference := digest.NewDigest(data)
	for i := range data {
		mutated := make([]byte, len(data))
		copy(mutated, data)
		mutated[i] ^= 0x01
		if digest.NewDigest(mutated) == reference {
			t.Errorf("mutation at byte %d did not change the digest", i)
		}
	}
}
