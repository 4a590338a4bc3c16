// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bps implements the BPS delta patch format.
//
// BPS is the patch container used by the ROM-hacking community as the
// successor to IPS. A patch declares the source and target sizes, carries an
// opaque UTF-8 metadata string, and then describes the target as a sequence
// of operations over a four-opcode delta virtual machine:
//
//	SourceRead    copy from the source at the current write offset
//	TargetRead    literal bytes carried in the patch
//	SourceCopy    copy from an absolute source offset
//	TargetCopy    copy from already-written target bytes
//
// Copy offsets are coded as signed deltas against a per-opcode running
// cursor, and integers throughout use a self-terminating base-128 coding.
// The patch ends with CRC32 checksums of the source, the target, and the
// patch bytes themselves.
//
// References:
//	https://www.romhacking.net/documents/746/
//	https://github.com/blakesmith/rombp/blob/master/docs/bps_spec.md
package bps

const magic = "BPS1"

// Values used in patch-hunk encoding. The low two bits of each hunk's
// leading varint select the opcode; the remaining bits plus one are the
// operation's bytespan.
const (
	opSourceRead = iota
	opTargetRead
	opSourceCopy
	opTargetCopy

	opcodeMask  = 0x3
	opcodeShift = 2
)

// DefaultBlockSize is a sensible block size for Diff. Larger blocks speed up
// patch creation at some cost in patch size.
const DefaultBlockSize = 64

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string { return "bps: " + string(e) }

var (
	// ErrCorrupt indicates that patch bytes or an operation stream violate
	// the BPS format.
	ErrCorrupt error = Error("patch is corrupted")

	// ErrInvariant indicates a misuse of the operation model, such as
	// shrinking a Header or shrinking an operation by its whole bytespan.
	// It is raised by panicking since it is always a programming error.
	ErrInvariant error = Error("invalid operation transform")
)
