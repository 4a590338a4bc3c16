// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bps

import "hash/crc32"

// Apply produces the target buffer described by an operation sequence and
// the source it was built against. The sequence is validated first.
//
// The checksum operations are not verified; use CheckCRCs when the inputs
// are untrusted.
func Apply(source []byte, ops []Op) ([]byte, error) {
	return ApplyHeadered(source, ops, 0)
}

// ApplyHeadered is Apply with the write offset started at -headerSize,
// compensating for a copier header (typically 0x200 bytes on SNES ROMs) that
// the patch was unaware of. Only write offsets are shifted; the absolute
// offsets of copy operations are not. Bytes that land below offset zero are
// dropped.
func ApplyHeadered(source []byte, ops []Op, headerSize int64) ([]byte, error) {
	if err := Validate(ops); err != nil {
		return nil, err
	}

	hdr := ops[0].(Header)
	target := make([]byte, hdr.TargetSize)
	writeOffset := -headerSize

	for _, op := range ops[1:] {
		switch op := op.(type) {
		case SourceRead:
			clippedCopy(target, source, writeOffset, writeOffset, op.Span)
		case TargetRead:
			clippedCopy(target, op.Payload, writeOffset, 0, int64(len(op.Payload)))
		case SourceCopy:
			clippedCopy(target, source, writeOffset, op.Offset, op.Span)
		case TargetCopy:
			// Byte-at-a-time on purpose: a TargetCopy that straddles the
			// write frontier depends on reading bytes the same operation
			// just wrote.
			for i := int64(0); i < op.Span; i++ {
				dst, src := writeOffset+i, op.Offset+i
				if dst >= 0 && src >= 0 && dst < int64(len(target)) && src < int64(len(target)) {
					target[dst] = target[src]
				}
			}
		}
		writeOffset += op.Bytespan()
	}
	return target, nil
}

// clippedCopy copies n bytes from src at srcOff to dst at dstOff, dropping
// any portion that falls outside either buffer.
func clippedCopy(dst, src []byte, dstOff, srcOff, n int64) {
	if dstOff < 0 {
		srcOff -= dstOff
		n += dstOff
		dstOff = 0
	}
	if srcOff < 0 {
		dstOff -= srcOff
		n += srcOff
		srcOff = 0
	}
	if n <= 0 || dstOff >= int64(len(dst)) || srcOff >= int64(len(src)) {
		return
	}
	copy(dst[dstOff:], src[srcOff:min(srcOff+n, int64(len(src)))])
}

// CheckCRCs verifies the stream's checksum operations against the actual
// source and target buffers.
func CheckCRCs(ops []Op, source, target []byte) error {
	for _, op := range ops {
		switch op := op.(type) {
		case SourceCRC32:
			if op.Sum != crc32.ChecksumIEEE(source) {
				return ErrCorrupt
			}
		case TargetCRC32:
			if op.Sum != crc32.ChecksumIEEE(target) {
				return ErrCorrupt
			}
		}
	}
	return nil
}
