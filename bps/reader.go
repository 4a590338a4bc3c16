// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bps

import "bytes"
import "encoding/binary"
import "io"
import "unicode/utf8"

import "github.com/dsnet/golib/errs"

import "github.com/dsnet/rompatch/internal/crcio"

// Reader decodes a BPS patch into its operation stream.
//
// The Reader checks the syntactic rules of the format, including the
// trailing patch checksum; the semantic rules (offsets in range, bytespans
// summing to the target size) are the Validator's job.
type Reader struct {
	rd          *crcio.Reader
	state       int
	targetSize  int64
	writeOffset int64
	srcRelOff   int64
	tgtRelOff   int64
	err         error // Persistent error
}

const (
	stateHeader = iota
	stateBody
	stateSourceCRC
	stateTargetCRC
	statePatchCRC
)

// NewReader creates a new Reader.
func NewReader(rd io.Reader) *Reader {
	br := new(Reader)
	br.Reset(rd)
	return br
}

// Reset resets the Reader with a new io.Reader.
func (br *Reader) Reset(rd io.Reader) {
	if br.rd == nil {
		br.rd = crcio.NewReader(rd)
	} else {
		br.rd.Reset(rd)
	}
	br.state = stateHeader
	br.targetSize, br.writeOffset = 0, 0
	br.srcRelOff, br.tgtRelOff = 0, 0
	br.err = nil
}

// Next returns the next operation of the patch. It returns io.EOF after the
// trailing patch checksum has been read and verified.
func (br *Reader) Next() (Op, error) {
	if br.err != nil {
		return nil, br.err
	}
	op, err := br.next()
	if err != nil {
		br.err = err
		return nil, err
	}
	return op, nil
}

func (br *Reader) next() (op Op, err error) {
	defer errs.Recover(&err)

	switch br.state {
	case stateHeader:
		var arr [len(magic)]byte
		_, err := io.ReadFull(br.rd, arr[:])
		errs.Assert(err == nil && string(arr[:]) == magic, ErrCorrupt)

		sourceSize := br.readUvarint()
		targetSize := br.readUvarint()
		metadata := make([]byte, br.readUvarint())
		_, err = io.ReadFull(br.rd, metadata)
		errs.Assert(err == nil && utf8.Valid(metadata), ErrCorrupt)

		br.targetSize = int64(targetSize)
		br.state = stateBody
		if br.targetSize == 0 {
			br.state = stateSourceCRC
		}
		return Header{
			SourceSize: int64(sourceSize),
			TargetSize: int64(targetSize),
			Metadata:   string(metadata),
		}, nil

	case stateBody:
		val := br.readUvarint()
		span := int64(val>>opcodeShift) + 1
		switch val & opcodeMask {
		case opSourceRead:
			op = SourceRead{Span: span}
		case opTargetRead:
			payload := make([]byte, span)
			_, err := io.ReadFull(br.rd, payload)
			errs.Assert(err == nil, ErrCorrupt)
			op = TargetRead{Payload: payload}
		case opSourceCopy:
			br.srcRelOff += unpackSigned(br.readUvarint())
			errs.Assert(br.srcRelOff >= 0, ErrCorrupt)
			op = SourceCopy{Span: span, Offset: br.srcRelOff}
			br.srcRelOff += span
		case opTargetCopy:
			br.tgtRelOff += unpackSigned(br.readUvarint())
			errs.Assert(br.tgtRelOff >= 0, ErrCorrupt)
			op = TargetCopy{Span: span, Offset: br.tgtRelOff}
			br.tgtRelOff += span
		}
		br.writeOffset += span
		if br.writeOffset >= br.targetSize {
			br.state = stateSourceCRC
		}
		return op, nil

	case stateSourceCRC:
		br.state = stateTargetCRC
		return SourceCRC32{Sum: br.readUint32()}, nil

	case stateTargetCRC:
		br.state = statePatchCRC
		return TargetCRC32{Sum: br.readUint32()}, nil

	default:
		// All preceding bytes are covered by the trailing checksum, so the
		// accumulator must be snapshotted before the trailer is read.
		crc := br.rd.Sum32()
		errs.Assert(br.readUint32() == crc, ErrCorrupt)
		return nil, io.EOF
	}
}

func (br *Reader) readUvarint() uint64 {
	x, err := readUvarint(br.rd)
	errs.Panic(err)
	return x
}

func (br *Reader) readUint32() uint32 {
	var arr [4]byte
	_, err := io.ReadFull(br.rd, arr[:])
	errs.Assert(err == nil, ErrCorrupt)
	return binary.LittleEndian.Uint32(arr[:])
}

// Decode parses a complete BPS patch into its operation sequence. The result
// is syntactically sound; run it through Validate before applying or
// re-encoding a stream from an untrusted patch.
func Decode(data []byte) ([]Op, error) {
	br := NewReader(bytes.NewReader(data))
	var ops []Op
	for {
		op, err := br.Next()
		if err == io.EOF {
			return ops, nil
		}
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
}
