// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bps

// Optimize rewrites a validated operation sequence into a simpler
// equivalent: contiguous operations of the same kind are merged, and a
// SourceCopy whose offset coincides with the write offset becomes a
// SourceRead, which costs no offset varint.
func Optimize(ops []Op) ([]Op, error) {
	if err := Validate(ops); err != nil {
		return nil, err
	}

	out := make([]Op, 0, len(ops))
	out = append(out, ops[0])

	last := ops[1]
	if op, ok := last.(SourceCopy); ok && op.Offset == 0 {
		last = SourceRead{Span: op.Span}
	}

	var writeOffset int64
	for _, op := range ops[2:] {
		if merged, ok := tryExtend(last, op); ok {
			last = merged
			continue
		}
		if op2, ok := last.(SourceCopy); ok && op2.Offset == writeOffset {
			last = SourceRead{Span: op2.Span}
		}
		out = append(out, last)
		writeOffset += last.Bytespan()
		last = op
	}
	return append(out, last), nil
}

// tryExtend merges contiguous same-kind neighbours.
func tryExtend(last, op Op) (Op, bool) {
	switch last := last.(type) {
	case SourceRead:
		if op, ok := op.(SourceRead); ok {
			return last.extend(op), true
		}
	case TargetRead:
		if op, ok := op.(TargetRead); ok {
			return last.extend(op), true
		}
	case SourceCopy:
		if op, ok := op.(SourceCopy); ok && last.Offset+last.Span == op.Offset {
			return last.extend(op), true
		}
	case TargetCopy:
		if op, ok := op.(TargetCopy); ok && last.Offset+last.Span == op.Offset {
			return last.extend(op), true
		}
	}
	return nil, false
}
