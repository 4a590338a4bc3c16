// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bps

import "io"

// BPS integers are base-128 with the digits in little-endian order and the
// high bit marking the final digit. Unlike the usual LEB128-style codings,
// every continuation digit carries an implicit +1 bias, so each natural
// number has exactly one encoding and no encoding is ever wasted.

// readUvarint reads a variable-length integer from rd.
// It returns ErrCorrupt if rd ends before a terminator digit is seen.
func readUvarint(rd io.ByteReader) (uint64, error) {
	var x uint64
	shift := uint64(1)
	for {
		val, err := rd.ReadByte()
		if err != nil {
			return 0, ErrCorrupt
		}
		x += uint64(val&0x7f) * shift
		if val&0x80 > 0 {
			return x, nil
		}
		shift <<= 7
		x += shift
	}
}

// appendUvarint appends the encoding of x to buf.
func appendUvarint(buf []byte, x uint64) []byte {
	for {
		val := byte(x & 0x7f)
		x >>= 7
		if x == 0 {
			return append(buf, 0x80|val)
		}
		buf = append(buf, val)
		x--
	}
}

// uvarintLen reports the encoded length of x without encoding it.
func uvarintLen(x uint64) (cnt int64) {
	for {
		cnt++
		x >>= 7
		if x == 0 {
			return cnt
		}
		x--
	}
}

// Copy offsets are coded as a varint whose least-significant bit is the sign
// and whose remaining bits are the magnitude.

func packSigned(x int64) uint64 {
	if x < 0 {
		return uint64(-x)<<1 | 1
	}
	return uint64(x) << 1
}

func unpackSigned(x uint64) int64 {
	if x&1 > 0 {
		return -int64(x >> 1)
	}
	return int64(x >> 1)
}
