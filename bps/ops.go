// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bps

import "encoding/binary"

// Op is a single patch operation. A well-formed stream is a Header, then
// body operations whose bytespans sum to exactly the target size, then a
// SourceCRC32 and a TargetCRC32. Operations are plain values; they are
// produced by Decode or Diff and consumed by Encode, Validate, or Apply.
type Op interface {
	// Bytespan reports the number of target bytes this operation produces.
	Bytespan() int64

	// appendEncoding appends the operation's wire encoding to buf. The
	// relative cursors price SourceCopy and TargetCopy offsets; the other
	// kinds ignore them.
	appendEncoding(buf []byte, srcRelOff, tgtRelOff int64) []byte

	// encodedSize reports the length appendEncoding would produce.
	encodedSize(srcRelOff, tgtRelOff int64) int64

	// shrink reduces the bytespan by |n|, from the front when n is positive
	// and from the tail when n is negative. It panics with ErrInvariant when
	// the operation cannot shrink or |n| is not in [1, bytespan).
	shrink(n int64) Op

	// extend concatenates a contiguous operation of the same kind,
	// panicking with ErrInvariant otherwise.
	extend(op Op) Op
}

// Header declares the source and target sizes and carries the patch
// metadata. It is always the first operation of a stream.
type Header struct {
	SourceSize int64
	TargetSize int64
	Metadata   string
}

func (Header) Bytespan() int64 { return 0 }

func (op Header) appendEncoding(buf []byte, _, _ int64) []byte {
	buf = append(buf, magic...)
	buf = appendUvarint(buf, uint64(op.SourceSize))
	buf = appendUvarint(buf, uint64(op.TargetSize))
	buf = appendUvarint(buf, uint64(len(op.Metadata)))
	return append(buf, op.Metadata...)
}

func (op Header) encodedSize(_, _ int64) int64 {
	return int64(len(magic)+len(op.Metadata)) +
		uvarintLen(uint64(op.SourceSize)) +
		uvarintLen(uint64(op.TargetSize)) +
		uvarintLen(uint64(len(op.Metadata)))
}

func (Header) shrink(int64) Op { panic(ErrInvariant) }
func (Header) extend(Op) Op    { panic(ErrInvariant) }

// SourceRead copies bytes from the source at the current write offset.
type SourceRead struct {
	Span int64
}

func (op SourceRead) Bytespan() int64 { return op.Span }

func (op SourceRead) appendEncoding(buf []byte, _, _ int64) []byte {
	return appendUvarint(buf, uint64(op.Span-1)<<opcodeShift|opSourceRead)
}

func (op SourceRead) encodedSize(_, _ int64) int64 {
	return uvarintLen(uint64(op.Span-1)<<opcodeShift | opSourceRead)
}

func (op SourceRead) shrink(n int64) Op {
	checkShrink(n, op.Span)
	return SourceRead{Span: op.Span - abs(n)}
}

func (op SourceRead) extend(other Op) Op {
	op2, ok := other.(SourceRead)
	if !ok {
		panic(ErrInvariant)
	}
	return SourceRead{Span: op.Span + op2.Span}
}

// TargetRead emits literal bytes carried in the patch itself.
type TargetRead struct {
	Payload []byte
}

func (op TargetRead) Bytespan() int64 { return int64(len(op.Payload)) }

func (op TargetRead) appendEncoding(buf []byte, _, _ int64) []byte {
	buf = appendUvarint(buf, uint64(len(op.Payload)-1)<<opcodeShift|opTargetRead)
	return append(buf, op.Payload...)
}

func (op TargetRead) encodedSize(_, _ int64) int64 {
	span := int64(len(op.Payload))
	return uvarintLen(uint64(span-1)<<opcodeShift|opTargetRead) + span
}

func (op TargetRead) shrink(n int64) Op {
	checkShrink(n, op.Bytespan())
	if n > 0 {
		return TargetRead{Payload: op.Payload[n:]}
	}
	return TargetRead{Payload: op.Payload[:op.Bytespan()+n]}
}

func (op TargetRead) extend(other Op) Op {
	op2, ok := other.(TargetRead)
	if !ok {
		panic(ErrInvariant)
	}
	payload := make([]byte, 0, len(op.Payload)+len(op2.Payload))
	payload = append(payload, op.Payload...)
	return TargetRead{Payload: append(payload, op2.Payload...)}
}

// SourceCopy copies bytes from an absolute source offset.
type SourceCopy struct {
	Span   int64
	Offset int64
}

func (op SourceCopy) Bytespan() int64 { return op.Span }

func (op SourceCopy) appendEncoding(buf []byte, srcRelOff, _ int64) []byte {
	buf = appendUvarint(buf, uint64(op.Span-1)<<opcodeShift|opSourceCopy)
	return appendUvarint(buf, packSigned(op.Offset-srcRelOff))
}

func (op SourceCopy) encodedSize(srcRelOff, _ int64) int64 {
	return uvarintLen(uint64(op.Span-1)<<opcodeShift|opSourceCopy) +
		uvarintLen(packSigned(op.Offset-srcRelOff))
}

func (op SourceCopy) shrink(n int64) Op {
	checkShrink(n, op.Span)
	if n > 0 {
		return SourceCopy{Span: op.Span - n, Offset: op.Offset + n}
	}
	return SourceCopy{Span: op.Span + n, Offset: op.Offset}
}

func (op SourceCopy) extend(other Op) Op {
	op2, ok := other.(SourceCopy)
	if !ok || op2.Offset != op.Offset+op.Span {
		panic(ErrInvariant)
	}
	return SourceCopy{Span: op.Span + op2.Span, Offset: op.Offset}
}

// TargetCopy copies bytes from an absolute offset in the already-written
// part of the target. The copied range may straddle the write frontier,
// which turns the operation into a repeating run.
type TargetCopy struct {
	Span   int64
	Offset int64
}

func (op TargetCopy) Bytespan() int64 { return op.Span }

func (op TargetCopy) appendEncoding(buf []byte, _, tgtRelOff int64) []byte {
	buf = appendUvarint(buf, uint64(op.Span-1)<<opcodeShift|opTargetCopy)
	return appendUvarint(buf, packSigned(op.Offset-tgtRelOff))
}

func (op TargetCopy) encodedSize(_, tgtRelOff int64) int64 {
	return uvarintLen(uint64(op.Span-1)<<opcodeShift|opTargetCopy) +
		uvarintLen(packSigned(op.Offset-tgtRelOff))
}

func (op TargetCopy) shrink(n int64) Op {
	checkShrink(n, op.Span)
	if n > 0 {
		return TargetCopy{Span: op.Span - n, Offset: op.Offset + n}
	}
	return TargetCopy{Span: op.Span + n, Offset: op.Offset}
}

func (op TargetCopy) extend(other Op) Op {
	op2, ok := other.(TargetCopy)
	if !ok || op2.Offset != op.Offset+op.Span {
		panic(ErrInvariant)
	}
	return TargetCopy{Span: op.Span + op2.Span, Offset: op.Offset}
}

// SourceCRC32 carries the checksum of the full source buffer.
type SourceCRC32 struct {
	Sum uint32
}

func (SourceCRC32) Bytespan() int64 { return 0 }

func (op SourceCRC32) appendEncoding(buf []byte, _, _ int64) []byte {
	return binary.LittleEndian.AppendUint32(buf, op.Sum)
}

func (SourceCRC32) encodedSize(_, _ int64) int64 { return 4 }
func (SourceCRC32) shrink(int64) Op              { panic(ErrInvariant) }
func (SourceCRC32) extend(Op) Op                 { panic(ErrInvariant) }

// TargetCRC32 carries the checksum of the full target buffer.
type TargetCRC32 struct {
	Sum uint32
}

func (TargetCRC32) Bytespan() int64 { return 0 }

func (op TargetCRC32) appendEncoding(buf []byte, _, _ int64) []byte {
	return binary.LittleEndian.AppendUint32(buf, op.Sum)
}

func (TargetCRC32) encodedSize(_, _ int64) int64 { return 4 }
func (TargetCRC32) shrink(int64) Op              { panic(ErrInvariant) }
func (TargetCRC32) extend(Op) Op                 { panic(ErrInvariant) }

func checkShrink(n, span int64) {
	if n == 0 || abs(n) >= span {
		panic(ErrInvariant)
	}
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

// efficiency is the ratio of target bytes produced to patch bytes spent.
func efficiency(op Op, srcRelOff, tgtRelOff int64) float64 {
	return float64(op.Bytespan()) / float64(op.encodedSize(srcRelOff, tgtRelOff))
}

// opSequenceEfficiency prices a short run of operations against explicit
// relative-cursor state, advancing the cursors as the writer would.
func opSequenceEfficiency(ops []Op, srcRelOff, tgtRelOff int64) float64 {
	var span, size int64
	for _, op := range ops {
		span += op.Bytespan()
		size += op.encodedSize(srcRelOff, tgtRelOff)
		switch op := op.(type) {
		case SourceCopy:
			srcRelOff = op.Offset + op.Span
		case TargetCopy:
			tgtRelOff = op.Offset + op.Span
		}
	}
	return float64(span) / float64(size)
}
