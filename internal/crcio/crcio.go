// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package crcio provides IO wrappers that maintain a running CRC32 of every
// byte transported through them.
//
// Both patch formats implemented by this module checksum whole byte streams
// with the IEEE CRC32 polynomial, so the wrappers track that and nothing
// else. Seeking is not supported; the only permitted form of truncation is
// back to zero length, which Reset performs.
package crcio

import "bufio"
import "hash/crc32"
import "io"

// The actual read interface needed by Reader.
type byteReader interface {
	io.Reader
	io.ByteReader
}

// Reader wraps an io.Reader and tracks the CRC32 of all bytes read.
type Reader struct {
	rd  byteReader
	crc uint32
	cnt int64
}

// NewReader creates a new Reader.
func NewReader(rd io.Reader) *Reader {
	cr := new(Reader)
	cr.Reset(rd)
	return cr
}

// Sum32 reports the CRC32 of all bytes read so far.
func (cr *Reader) Sum32() uint32 { return cr.crc }

// ReadCount reports the number of bytes read from the underlying reader.
func (cr *Reader) ReadCount() int64 { return cr.cnt }

// Reset resets the Reader with a new io.Reader and clears the accumulator.
func (cr *Reader) Reset(rd io.Reader) {
	// For efficiency, rd should satisfy the io.ByteReader interface as well.
	// Otherwise, it will be wrapped with a buffered reader.
	brd, ok := rd.(byteReader)
	if !ok {
		brd = bufio.NewReader(rd)
	}
	cr.rd, cr.crc, cr.cnt = brd, 0, 0
}

func (cr *Reader) Read(buf []byte) (cnt int, err error) {
	cnt, err = cr.rd.Read(buf)
	cr.crc = crc32.Update(cr.crc, crc32.IEEETable, buf[:cnt])
	cr.cnt += int64(cnt)
	return cnt, err
}

func (cr *Reader) ReadByte() (val byte, err error) {
	val, err = cr.rd.ReadByte()
	if err == nil {
		var arr [1]byte
		arr[0] = val
		cr.crc = crc32.Update(cr.crc, crc32.IEEETable, arr[:])
		cr.cnt++
	}
	return val, err
}

// Writer wraps an io.Writer and tracks the CRC32 of all bytes written.
type Writer struct {
	wr  io.Writer
	crc uint32
	cnt int64
}

// NewWriter creates a new Writer.
func NewWriter(wr io.Writer) *Writer {
	cw := new(Writer)
	cw.Reset(wr)
	return cw
}

// Sum32 reports the CRC32 of all bytes written so far.
func (cw *Writer) Sum32() uint32 { return cw.crc }

// WriteCount reports the number of bytes written to the underlying writer.
func (cw *Writer) WriteCount() int64 { return cw.cnt }

// Reset resets the Writer with a new io.Writer and clears the accumulator.
func (cw *Writer) Reset(wr io.Writer) {
	cw.wr, cw.crc, cw.cnt = wr, 0, 0
}

func (cw *Writer) Write(buf []byte) (cnt int, err error) {
	cnt, err = cw.wr.Write(buf)
	cw.crc = crc32.Update(cw.crc, crc32.IEEETable, buf[:cnt])
	cw.cnt += int64(cnt)
	return cnt, err
}
