// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bps

import "bytes"
import "encoding/binary"
import "io"

import "github.com/dsnet/rompatch/internal/crcio"

// Writer encodes a stream of operations into BPS patch bytes, maintaining
// the two relative copy cursors and the running patch checksum.
//
// The Writer performs no semantic validation; feed it through a Validator
// when the stream does not come from Diff.
type Writer struct {
	wr        *crcio.Writer
	srcRelOff int64
	tgtRelOff int64
	buf       []byte // Scratch encoding buffer
	err       error  // Persistent error
}

// NewWriter creates a new Writer.
func NewWriter(wr io.Writer) *Writer {
	bw := new(Writer)
	bw.Reset(wr)
	return bw
}

// Reset resets the Writer with a new io.Writer.
func (bw *Writer) Reset(wr io.Writer) {
	if bw.wr == nil {
		bw.wr = crcio.NewWriter(wr)
	} else {
		bw.wr.Reset(wr)
	}
	bw.srcRelOff, bw.tgtRelOff = 0, 0
	bw.err = nil
}

// WriteOp encodes a single operation, which must be fed in stream order.
func (bw *Writer) WriteOp(op Op) error {
	if bw.err != nil {
		return bw.err
	}
	bw.buf = op.appendEncoding(bw.buf[:0], bw.srcRelOff, bw.tgtRelOff)
	if _, err := bw.wr.Write(bw.buf); err != nil {
		bw.err = err
		return err
	}
	switch op := op.(type) {
	case SourceCopy:
		bw.srcRelOff = op.Offset + op.Span
	case TargetCopy:
		bw.tgtRelOff = op.Offset + op.Span
	}
	return nil
}

// Close emits the trailing patch checksum. The Writer may not be used
// afterwards.
func (bw *Writer) Close() error {
	if bw.err != nil {
		return bw.err
	}
	bw.buf = binary.LittleEndian.AppendUint32(bw.buf[:0], bw.wr.Sum32())
	if _, err := bw.wr.Write(bw.buf); err != nil {
		bw.err = err
		return err
	}
	bw.err = io.ErrClosedPipe
	return nil
}

// Encode validates and encodes a complete operation sequence.
func Encode(ops []Op) ([]byte, error) {
	var bb bytes.Buffer
	bw := NewWriter(&bb)
	var v Validator
	for _, op := range ops {
		if err := v.Check(op); err != nil {
			return nil, err
		}
		if err := bw.WriteOp(op); err != nil {
			return nil, err
		}
	}
	if err := v.Finish(); err != nil {
		return nil, err
	}
	if err := bw.Close(); err != nil {
		return nil, err
	}
	return bb.Bytes(), nil
}
