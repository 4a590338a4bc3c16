// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bps

import (
	"bytes"
	"testing"

	"github.com/dsnet/rompatch/internal/testutil"
)

func TestUvarintVectors(t *testing.T) {
	vectors := []struct {
		x uint64
		b []byte
	}{
		{0, []byte{0x80}},
		{1, []byte{0x81}},
		{126, []byte{0xfe}},
		{127, []byte{0xff}},
		{128, []byte{0x00, 0x80}},
		{129, []byte{0x01, 0x80}},
		{255, []byte{0x7f, 0x80}},
		{256, []byte{0x00, 0x81}},
		{16383, []byte{0x7f, 0xfe}},
		{16384, []byte{0x00, 0xff}},
		{16512, []byte{0x00, 0x00, 0x80}},
		{16640, []byte{0x00, 0x01, 0x80}},
	}

	for i, v := range vectors {
		if got := appendUvarint(nil, v.x); !bytes.Equal(got, v.b) {
			t.Errorf("test %d, appendUvarint(%d) = %x, want %x", i, v.x, got, v.b)
		}
		got, err := readUvarint(bytes.NewReader(v.b))
		if err != nil {
			t.Errorf("test %d, readUvarint(%x): unexpected error: %v", i, v.b, err)
		}
		if got != v.x {
			t.Errorf("test %d, readUvarint(%x) = %d, want %d", i, v.b, got, v.x)
		}
		if got := uvarintLen(v.x); got != int64(len(v.b)) {
			t.Errorf("test %d, uvarintLen(%d) = %d, want %d", i, v.x, got, len(v.b))
		}
	}
}

func TestUvarintRoundTrip(t *testing.T) {
	values := []uint64{
		0, 1, 127, 128, 16511, 16512, 1 << 21, 1 << 32, 1<<63 - 1, ^uint64(0),
	}
	rand := testutil.NewRand(0)
	for i := 0; i < 10000; i++ {
		values = append(values, uint64(rand.Int()))
	}

	for _, x := range values {
		buf := appendUvarint(nil, x)
		got, err := readUvarint(bytes.NewReader(buf))
		if err != nil {
			t.Fatalf("readUvarint(%x): unexpected error: %v", buf, err)
		}
		if got != x {
			t.Fatalf("readUvarint(appendUvarint(%d)) = %d", x, got)
		}
		if got := uvarintLen(x); got != int64(len(buf)) {
			t.Fatalf("uvarintLen(%d) = %d, want %d", x, got, len(buf))
		}
	}
}

func TestUvarintTruncated(t *testing.T) {
	vectors := [][]byte{{}, {0x00}, {0x7f}, {0x00, 0x01}, {0x7f, 0x00, 0x12}}
	for i, v := range vectors {
		if _, err := readUvarint(bytes.NewReader(v)); err != ErrCorrupt {
			t.Errorf("test %d, readUvarint(%x) = %v, want %v", i, v, err, ErrCorrupt)
		}
	}
}

func TestPackSigned(t *testing.T) {
	vectors := []struct {
		x int64
		p uint64
	}{
		{0, 0}, {1, 2}, {-1, 3}, {2, 4}, {-2, 5},
		{1 << 40, 1 << 41}, {-(1 << 40), 1<<41 | 1},
	}
	for i, v := range vectors {
		if got := packSigned(v.x); got != v.p {
			t.Errorf("test %d, packSigned(%d) = %d, want %d", i, v.x, got, v.p)
		}
		if got := unpackSigned(v.p); got != v.x {
			t.Errorf("test %d, unpackSigned(%d) = %d, want %d", i, v.p, got, v.x)
		}
	}
}
