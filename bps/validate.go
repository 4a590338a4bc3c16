// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bps

// Validator checks the semantic rules of an operation stream: a Header
// first, every source and target reference in range, bytespans summing to
// exactly the target size, and both checksum trailers present with nothing
// after them. The zero value is ready for use.
//
// Reader -> Validator -> Writer is the safe pipeline for untrusted patches;
// Apply runs its input through a Validator itself.
type Validator struct {
	state       int
	sourceSize  int64
	targetSize  int64
	writeOffset int64
}

const (
	checkHeader = iota
	checkBody
	checkSourceCRC
	checkTargetCRC
	checkDone
)

// Check validates the next operation of the stream, returning ErrCorrupt if
// it violates the format.
func (v *Validator) Check(op Op) error {
	switch v.state {
	case checkHeader:
		hdr, ok := op.(Header)
		if !ok || hdr.SourceSize < 0 || hdr.TargetSize < 0 {
			return ErrCorrupt
		}
		v.sourceSize, v.targetSize = hdr.SourceSize, hdr.TargetSize
		v.state = checkBody
		if v.targetSize == 0 {
			v.state = checkSourceCRC
		}
	case checkBody:
		switch op := op.(type) {
		case SourceRead:
			// Reads the source at the write offset, so the span must lie
			// within the source as well as the target.
			if op.Span <= 0 || v.writeOffset+op.Span > v.sourceSize {
				return ErrCorrupt
			}
		case TargetRead:
			if len(op.Payload) == 0 {
				return ErrCorrupt
			}
		case SourceCopy:
			if op.Span <= 0 || op.Offset < 0 || op.Offset+op.Span > v.sourceSize {
				return ErrCorrupt
			}
		case TargetCopy:
			// May straddle the write frontier, but cannot start on or past
			// it.
			if op.Span <= 0 || op.Offset < 0 || op.Offset >= v.writeOffset {
				return ErrCorrupt
			}
		default:
			return ErrCorrupt
		}
		v.writeOffset += op.Bytespan()
		if v.writeOffset > v.targetSize {
			return ErrCorrupt
		}
		if v.writeOffset == v.targetSize {
			v.state = checkSourceCRC
		}
	case checkSourceCRC:
		if _, ok := op.(SourceCRC32); !ok {
			return ErrCorrupt
		}
		v.state = checkTargetCRC
	case checkTargetCRC:
		if _, ok := op.(TargetCRC32); !ok {
			return ErrCorrupt
		}
		v.state = checkDone
	default:
		// Nothing is allowed after the target checksum.
		return ErrCorrupt
	}
	return nil
}

// Finish reports whether the stream ended with both checksum trailers.
func (v *Validator) Finish() error {
	if v.state != checkDone {
		return ErrCorrupt
	}
	return nil
}

// Validate checks a complete operation sequence.
func Validate(ops []Op) error {
	var v Validator
	for _, op := range ops {
		if err := v.Check(op); err != nil {
			return err
		}
	}
	return v.Finish()
}
