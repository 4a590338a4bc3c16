// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bps

import "testing"

func TestValidate(t *testing.T) {
	vectors := []struct {
		desc string
		ops  []Op
		ok   bool
	}{{
		desc: "plain valid stream",
		ops: []Op{
			Header{SourceSize: 8, TargetSize: 8},
			SourceRead{Span: 4},
			SourceCopy{Span: 4, Offset: 4},
			SourceCRC32{}, TargetCRC32{},
		},
		ok: true,
	}, {
		desc: "empty target",
		ops: []Op{
			Header{SourceSize: 8, TargetSize: 0},
			SourceCRC32{}, TargetCRC32{},
		},
		ok: true,
	}, {
		desc: "straddling TargetCopy",
		ops: []Op{
			Header{SourceSize: 0, TargetSize: 4},
			TargetRead{Payload: []byte("A")},
			TargetCopy{Span: 3, Offset: 0},
			SourceCRC32{}, TargetCRC32{},
		},
		ok: true,
	}, {
		desc: "empty stream",
		ops:  nil,
	}, {
		desc: "missing header",
		ops: []Op{
			SourceRead{Span: 4},
			SourceCRC32{}, TargetCRC32{},
		},
	}, {
		desc: "negative header sizes",
		ops: []Op{
			Header{SourceSize: -1, TargetSize: 0},
			SourceCRC32{}, TargetCRC32{},
		},
	}, {
		desc: "SourceRead past the source end",
		ops: []Op{
			Header{SourceSize: 4, TargetSize: 8},
			SourceRead{Span: 8},
			SourceCRC32{}, TargetCRC32{},
		},
	}, {
		desc: "SourceCopy past the source end",
		ops: []Op{
			Header{SourceSize: 8, TargetSize: 8},
			SourceCopy{Span: 4, Offset: 6},
			SourceRead{Span: 4},
			SourceCRC32{}, TargetCRC32{},
		},
	}, {
		desc: "TargetCopy starting on the write frontier",
		ops: []Op{
			Header{SourceSize: 0, TargetSize: 8},
			TargetRead{Payload: []byte("abcd")},
			TargetCopy{Span: 4, Offset: 4},
			SourceCRC32{}, TargetCRC32{},
		},
	}, {
		desc: "empty TargetRead payload",
		ops: []Op{
			Header{SourceSize: 0, TargetSize: 4},
			TargetRead{},
			SourceCRC32{}, TargetCRC32{},
		},
	}, {
		desc: "body overruns the target size",
		ops: []Op{
			Header{SourceSize: 16, TargetSize: 6},
			SourceRead{Span: 4},
			SourceRead{Span: 4},
			SourceCRC32{}, TargetCRC32{},
		},
	}, {
		desc: "missing source checksum",
		ops: []Op{
			Header{SourceSize: 4, TargetSize: 4},
			SourceRead{Span: 4},
			TargetCRC32{}, TargetCRC32{},
		},
	}, {
		desc: "missing target checksum",
		ops: []Op{
			Header{SourceSize: 4, TargetSize: 4},
			SourceRead{Span: 4},
			SourceCRC32{},
		},
	}, {
		desc: "trailing operation after the checksums",
		ops: []Op{
			Header{SourceSize: 4, TargetSize: 4},
			SourceRead{Span: 4},
			SourceCRC32{}, TargetCRC32{},
			SourceRead{Span: 1},
		},
	}, {
		desc: "header repeated mid-stream",
		ops: []Op{
			Header{SourceSize: 4, TargetSize: 4},
			Header{SourceSize: 4, TargetSize: 4},
			SourceRead{Span: 4},
			SourceCRC32{}, TargetCRC32{},
		},
	}}

	for i, v := range vectors {
		err := Validate(v.ops)
		if v.ok && err != nil {
			t.Errorf("test %d (%s), Validate() = %v, want nil", i, v.desc, err)
		}
		if !v.ok && err != ErrCorrupt {
			t.Errorf("test %d (%s), Validate() = %v, want %v", i, v.desc, err, ErrCorrupt)
		}
	}
}
