// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ips

import "bytes"

// parser is a byte cursor that panics with ErrCorrupt when the input runs
// out; Decode recovers it at the API boundary.
type parser struct {
	data []byte
	pos  int
}

func (p *parser) read(cnt int) []byte {
	if p.pos+cnt > len(p.data) {
		panic(ErrCorrupt)
	}
	buf := p.data[p.pos : p.pos+cnt]
	p.pos += cnt
	return buf
}

// beInt decodes a big-endian integer of any width.
func beInt(buf []byte) int64 {
	var x int64
	for _, val := range buf {
		x = x<<8 | int64(val)
	}
	return x
}

// Decode parses an IPS patch. Run-length records are expanded into their
// literal payload; trailer bytes after the EOF marker are preserved
// verbatim. Records keep their file order, which may not be ascending.
func Decode(data []byte) (patch *Patch, err error) {
	defer func() {
		if err != nil {
			patch = nil
		}
	}()
	defer errRecover(&err)

	p := &parser{data: data}
	if string(p.read(len(magic))) != magic {
		panic(ErrCorrupt)
	}

	patch = new(Patch)
	for {
		head := p.read(3)
		if string(head) == eofMarker {
			break
		}
		offset := beInt(head)
		size := beInt(p.read(2))

		var diff []byte
		if size == 0 {
			runLen := beInt(p.read(2))
			if runLen == 0 {
				panic(ErrCorrupt)
			}
			diff = bytes.Repeat(p.read(1), int(runLen))
		} else {
			diff = append([]byte(nil), p.read(int(size))...)
		}
		patch.Records = append(patch.Records, Record{Offset: offset, Data: diff})
	}

	if p.pos < len(p.data) {
		patch.Trailer = append([]byte(nil), p.data[p.pos:]...)
	}
	return patch, nil
}
