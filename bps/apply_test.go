// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bps

import (
	"bytes"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	source := []byte("abcdefgh")
	ops := []Op{
		Header{SourceSize: 8, TargetSize: 8},
		SourceCopy{Span: 4, Offset: 4},
		TargetCopy{Span: 4, Offset: 0},
		SourceCRC32{Sum: crc32.ChecksumIEEE(source)},
		TargetCRC32{Sum: crc32.ChecksumIEEE([]byte("efghefgh"))},
	}

	target, err := Apply(source, ops)
	if err != nil {
		t.Fatalf("unexpected Apply error: %v", err)
	}
	assert.Equal(t, []byte("efghefgh"), target)
	assert.NoError(t, CheckCRCs(ops, source, target))
}

func TestApplyRepeatingRun(t *testing.T) {
	// A TargetCopy that straddles the write frontier repeats the bytes it is
	// writing: one literal byte fans out to the whole buffer.
	source := []byte("A")
	want := bytes.Repeat([]byte("A"), 1000)
	ops := []Op{
		Header{SourceSize: 1, TargetSize: 1000},
		TargetRead{Payload: []byte("A")},
		TargetCopy{Span: 999, Offset: 0},
		SourceCRC32{Sum: crc32.ChecksumIEEE(source)},
		TargetCRC32{Sum: crc32.ChecksumIEEE(want)},
	}

	target, err := Apply(source, ops)
	if err != nil {
		t.Fatalf("unexpected Apply error: %v", err)
	}
	assert.Equal(t, want, target)
	assert.NoError(t, CheckCRCs(ops, source, target))
}

func TestApplyInvalid(t *testing.T) {
	if _, err := Apply(nil, []Op{SourceRead{Span: 1}}); err != ErrCorrupt {
		t.Errorf("Apply() = %v, want %v", err, ErrCorrupt)
	}
}

func TestApplyHeadered(t *testing.T) {
	// Literal writes shift down by the header size; the clipped prefix is
	// the header the target no longer has.
	ops := []Op{
		Header{SourceSize: 0, TargetSize: 6},
		TargetRead{Payload: []byte("XYABCD")},
		SourceCRC32{}, TargetCRC32{},
	}
	target, err := ApplyHeadered(nil, ops, 2)
	if err != nil {
		t.Fatalf("unexpected ApplyHeadered error: %v", err)
	}
	assert.Equal(t, []byte("ABCD\x00\x00"), target)

	// SourceRead shifts its read and write positions together.
	source := []byte("abcdef")
	ops = []Op{
		Header{SourceSize: 6, TargetSize: 6},
		SourceRead{Span: 6},
		SourceCRC32{}, TargetCRC32{},
	}
	target, err = ApplyHeadered(source, ops, 2)
	if err != nil {
		t.Fatalf("unexpected ApplyHeadered error: %v", err)
	}
	assert.Equal(t, []byte("abcd\x00\x00"), target)
}

func TestCheckCRCs(t *testing.T) {
	source, target := []byte("abc"), []byte("xyz")
	ops := []Op{
		Header{SourceSize: 3, TargetSize: 3},
		SourceCRC32{Sum: crc32.ChecksumIEEE(source)},
		TargetCRC32{Sum: crc32.ChecksumIEEE(target)},
	}
	assert.NoError(t, CheckCRCs(ops, source, target))
	assert.Equal(t, ErrCorrupt, CheckCRCs(ops, source, []byte("xyw")))
	assert.Equal(t, ErrCorrupt, CheckCRCs(ops, []byte("abd"), target))
}
