// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bps

// opBuffer accumulates committed operations while Diff runs, supporting
// rollback: a new operation may extend backward over bytes the buffered
// operations already produced. Each row snapshots the write offset and both
// copy cursors in effect after its operation, so candidate rewrites can be
// priced against the exact cursor state the writer will eventually see.
type opBuffer struct {
	target []byte
	rows   []opRow
}

type opRow struct {
	op          Op
	writeOffset int64 // Write offset after op
	srcCopyOff  int64 // Source-copy cursor after op
	tgtCopyOff  int64 // Target-copy cursor after op
}

func newOpBuffer(target []byte) *opBuffer {
	return &opBuffer{target: target}
}

// push commits op, maintaining the per-row cursor snapshots.
func (ob *opBuffer) push(op Op) {
	var row opRow
	if cnt := len(ob.rows); cnt > 0 {
		row = ob.rows[cnt-1]
	}
	row.op = op
	row.writeOffset += op.Bytespan()
	switch op := op.(type) {
	case SourceCopy:
		row.srcCopyOff = op.Offset + op.Span
	case TargetCopy:
		row.tgtCopyOff = op.Offset + op.Span
	}
	ob.rows = append(ob.rows, row)
}

// append commits op, first rolling back the given number of already-produced
// bytes. Whole trailing operations are discarded outright; a remaining
// partial overlap with the previous operation is resolved by whichever of
// three rewrites prices best:
//
//	1. shrink the new operation from its front
//	2. shrink the previous operation from its tail
//	3. replace the previous operation with a literal TargetRead
//
// The rewrites are priced with the cursor state preceding the previous
// operation, since options 2 and 3 change the cursor value the new operation
// is encoded against. Ties go to the lowest-numbered option.
func (ob *opBuffer) append(op Op, rollback int64) {
	for len(ob.rows) > 0 && rollback >= ob.rows[len(ob.rows)-1].op.Bytespan() {
		rollback -= ob.rows[len(ob.rows)-1].op.Bytespan()
		ob.rows = ob.rows[:len(ob.rows)-1]
	}

	switch {
	case rollback > 0 && len(ob.rows) > 0:
		prev := ob.rows[len(ob.rows)-1].op

		var start opRow // Cursor state before prev
		if cnt := len(ob.rows); cnt >= 2 {
			start = ob.rows[cnt-2]
		}

		opt1 := op.shrink(rollback)
		eff1 := opSequenceEfficiency([]Op{prev, opt1}, start.srcCopyOff, start.tgtCopyOff)

		opt2 := prev.shrink(-rollback)
		eff2 := opSequenceEfficiency([]Op{opt2, op}, start.srcCopyOff, start.tgtCopyOff)

		lit := ob.target[start.writeOffset : start.writeOffset+prev.Bytespan()-rollback]
		opt3 := TargetRead{Payload: append([]byte(nil), lit...)}
		eff3 := opSequenceEfficiency([]Op{opt3, op}, start.srcCopyOff, start.tgtCopyOff)

		switch {
		case eff1 >= eff2 && eff1 >= eff3:
			op = opt1
		case eff2 >= eff3:
			ob.rows = ob.rows[:len(ob.rows)-1]
			ob.push(opt2)
		default:
			ob.rows = ob.rows[:len(ob.rows)-1]
			if cnt := len(ob.rows); cnt > 0 {
				if op2, ok := ob.rows[cnt-1].op.(TargetRead); ok {
					// Merge adjacent literals.
					ob.rows = ob.rows[:cnt-1]
					opt3 = op2.extend(opt3).(TargetRead)
				}
			}
			ob.push(opt3)
		}
	case rollback > 0:
		// Rolled back past the first operation.
		op = op.shrink(rollback)
	}
	ob.push(op)
}

// copyOffsets reports the copy-cursor pair in effect the given number of
// bytes before the current write frontier.
func (ob *opBuffer) copyOffsets(rollback int64) (srcCopyOff, tgtCopyOff int64) {
	for cnt := len(ob.rows) - 1; cnt >= 0; cnt-- {
		row := ob.rows[cnt]
		if rollback < row.op.Bytespan() {
			return row.srcCopyOff, row.tgtCopyOff
		}
		rollback -= row.op.Bytespan()
	}
	return 0, 0
}

// ops returns the committed operations in order.
func (ob *opBuffer) ops() []Op {
	ops := make([]Op, 0, len(ob.rows))
	for _, row := range ob.rows {
		ops = append(ops, row.op)
	}
	return ops
}
