// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ips

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffEncode(t *testing.T) {
	source := bytes.Repeat([]byte{0x00}, 10)
	target := []byte("\x00\x00\x00ABC\x00\x00\x00\x00")

	patch, err := Diff(source, target)
	if err != nil {
		t.Fatalf("unexpected Diff error: %v", err)
	}
	assert.Equal(t, []Record{{Offset: 3, Data: []byte("ABC")}}, patch.Records)
	assert.Equal(t, []byte("PATCH\x00\x00\x03\x00\x03ABCEOF"), patch.Encode())

	got, err := Decode(patch.Encode())
	if err != nil {
		t.Fatalf("unexpected Decode error: %v", err)
	}
	assert.Equal(t, patch.Records, got.Records)

	buf := got.Apply(append([]byte(nil), source...), 0)
	assert.Equal(t, target, buf)
}

func TestDiffSizeMismatch(t *testing.T) {
	if _, err := Diff([]byte("ab"), []byte("abc")); err == nil {
		t.Errorf("Diff with unequal sizes succeeded, want error")
	}
}

func TestDecodeRLE(t *testing.T) {
	patch, err := Decode([]byte("PATCH\x00\x00\x10\x00\x00\x00\x05ZEOF"))
	if err != nil {
		t.Fatalf("unexpected Decode error: %v", err)
	}
	assert.Equal(t, []Record{{Offset: 0x10, Data: []byte("ZZZZZ")}}, patch.Records)
	assert.Nil(t, patch.Trailer)

	// Re-encoding expands the run into a plain record.
	assert.Equal(t, []byte("PATCH\x00\x00\x10\x00\x05ZZZZZEOF"), patch.Encode())
}

func TestDecodeTrailer(t *testing.T) {
	patch, err := Decode([]byte("PATCH\x00\x00\x10\x00\x02hiEOFopaque trailer"))
	if err != nil {
		t.Fatalf("unexpected Decode error: %v", err)
	}
	assert.Equal(t, []byte("opaque trailer"), patch.Trailer)

	// The trailer survives re-encoding verbatim.
	assert.Equal(t, []byte("PATCH\x00\x00\x10\x00\x02hiEOFopaque trailer"), patch.Encode())
}

func TestDecodeCorrupt(t *testing.T) {
	vectors := [][]byte{
		[]byte(""),
		[]byte("PATC"),
		[]byte("PATCHY"),                            // no record or EOF fits
		[]byte("PATCH"),                             // missing EOF
		[]byte("PATCH\x00\x00\x03\x00\x03AB"),       // truncated payload
		[]byte("PATCH\x00\x00\x03\x00\x00\x00"),     // truncated run length
		[]byte("PATCH\x00\x00\x03\x00\x00\x00\x00Z"), // zero run length
	}
	for i, v := range vectors {
		if _, err := Decode(v); err != ErrCorrupt {
			t.Errorf("test %d, Decode(%q) = %v, want %v", i, v, err, ErrCorrupt)
		}
	}
}

func TestDiffSplitsLongRuns(t *testing.T) {
	source := make([]byte, 0x10001)
	target := bytes.Repeat([]byte{0xff}, 0x10001)

	patch, err := Diff(source, target)
	if err != nil {
		t.Fatalf("unexpected Diff error: %v", err)
	}
	if assert.Len(t, patch.Records, 2) {
		assert.Equal(t, int64(0), patch.Records[0].Offset)
		assert.Len(t, patch.Records[0].Data, maxRecordLen)
		assert.Equal(t, int64(maxRecordLen), patch.Records[1].Offset)
		assert.Len(t, patch.Records[1].Data, 2)
	}

	got, err := Decode(patch.Encode())
	if err != nil {
		t.Fatalf("unexpected Decode error: %v", err)
	}
	assert.Equal(t, target, got.Apply(append([]byte(nil), source...), 0))
}

func TestDiffEOFCollision(t *testing.T) {
	// A record that would start at offset 0x454F46 ("EOF") is backed up one
	// byte, re-writing a byte the target already holds.
	source := make([]byte, eofOffset+10)
	target := append([]byte(nil), source...)
	target[eofOffset] = 0x01
	target[eofOffset+1] = 0x02

	patch, err := Diff(source, target)
	if err != nil {
		t.Fatalf("unexpected Diff error: %v", err)
	}
	if assert.Len(t, patch.Records, 1) {
		assert.Equal(t, int64(eofOffset-1), patch.Records[0].Offset)
		assert.Equal(t, []byte{0x00, 0x01, 0x02}, patch.Records[0].Data)
	}

	got, err := Decode(patch.Encode())
	if err != nil {
		t.Fatalf("unexpected Decode error: %v", err)
	}
	assert.Equal(t, target, got.Apply(append([]byte(nil), source...), 0))
}

func TestApplyGrowsAndClips(t *testing.T) {
	patch := &Patch{Records: []Record{
		{Offset: 8, Data: []byte("WXYZ")},
		{Offset: 1, Data: []byte("ABCD")},
	}}

	// Records apply in ascending offset order, growing the buffer.
	buf := patch.Apply([]byte("0123"), 0)
	assert.Equal(t, []byte("0ABCD\x00\x00\x00WXYZ"), buf)

	// A header offset shifts writes down; below-zero bytes are dropped.
	buf = patch.Apply([]byte("0123456789"), 3)
	assert.Equal(t, []byte("CD234WXYZ9"), buf)
}
