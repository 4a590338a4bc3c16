// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bps

import "hash/crc32"

// Diff computes an operation sequence whose application to source produces
// target. The block size trades creation speed against patch size;
// DefaultBlockSize is a reasonable choice for ROM-sized inputs.
//
// The builder never compensates for copier headers; strip them before
// diffing and pass the header size to ApplyHeadered instead.
func Diff(source, target []byte, metadata string, blockSize int) ([]Op, error) {
	if blockSize <= 0 {
		return nil, Error("invalid block size")
	}
	bs, srcLen, tgtLen := int64(blockSize), int64(len(source)), int64(len(target))

	// The whole source is available when a patch is applied, so index every
	// block-aligned window of it up front.
	sourceMap := newBlockMap()
	for off := int64(0); off < srcLen; off += bs {
		sourceMap.add(source[off:min(off+bs, srcLen)], off)
	}

	// Target windows become copy candidates once the encoding cursor has
	// moved past their starting offset; they are indexed lazily as it
	// advances. Indexing ahead of the write frontier is sound: candidate
	// matches are verified byte-for-byte below, and the applier's sequential
	// TargetCopy reproduces exactly those verified equalities, which is also
	// what lets a one-byte literal seed a long repeating run.
	targetMap := newBlockMap()
	nextMapOffset := int64(0)

	opbuf := newOpBuffer(target)

	// writeOffset is the next target byte not yet covered by committed
	// operations. encodingOffset is the byte the search is probing; it runs
	// ahead of writeOffset while no candidate is profitable, on the chance
	// that a later match extends backward over the gap.
	var writeOffset, encodingOffset int64

	for encodingOffset < tgtLen {
		for nextMapOffset < encodingOffset {
			targetMap.add(target[nextMapOffset:min(nextMapOffset+bs, tgtLen)], nextMapOffset)
			nextMapOffset += bs
		}

		block := target[encodingOffset:min(encodingOffset+bs, tgtLen)]

		var best Op
		var bestEff float64
		var bestBack, bestFore int64

		// First-found wins ties: source candidates are considered before
		// target candidates, each in insertion order.
		consider := func(cand Op, back, fore int64) {
			srcOff, tgtOff := opbuf.copyOffsets(back)
			if eff := efficiency(cand, srcOff, tgtOff); eff > bestEff {
				best, bestEff, bestBack, bestFore = cand, eff, back, fore
			}
		}

		for _, srcOff := range sourceMap.lookup(block) {
			back, fore := matchSpans(source, srcOff, target, encodingOffset)
			if fore == 0 {
				continue // Bucket collision; the window is not actually here
			}
			if srcOff == encodingOffset {
				consider(SourceRead{Span: back + fore}, back, fore)
			} else {
				consider(SourceCopy{Span: back + fore, Offset: srcOff - back}, back, fore)
			}
		}
		for _, tgtOff := range targetMap.lookup(block) {
			back, fore := matchSpans(target, tgtOff, target, encodingOffset)
			if fore == 0 {
				continue
			}
			consider(TargetCopy{Span: back + fore, Offset: tgtOff - back}, back, fore)
		}

		// No candidate pays for itself; defer this byte.
		if best == nil || bestEff < 1.0 {
			encodingOffset++
			continue
		}

		// Flush the deferred bytes as a literal, then commit the winner,
		// letting the buffer resolve its backward extension.
		if writeOffset < encodingOffset {
			lit := append([]byte(nil), target[writeOffset:encodingOffset]...)
			opbuf.append(TargetRead{Payload: lit}, 0)
			writeOffset = encodingOffset
		}
		opbuf.append(best, bestBack)

		writeOffset += bestFore
		encodingOffset = writeOffset
	}

	ops := make([]Op, 0, len(opbuf.rows)+4)
	ops = append(ops, Header{SourceSize: srcLen, TargetSize: tgtLen, Metadata: metadata})
	ops = append(ops, opbuf.ops()...)
	if writeOffset < tgtLen {
		ops = append(ops, TargetRead{Payload: append([]byte(nil), target[writeOffset:]...)})
	}
	ops = append(ops, SourceCRC32{Sum: crc32.ChecksumIEEE(source)})
	ops = append(ops, TargetCRC32{Sum: crc32.ChecksumIEEE(target)})
	return ops, nil
}

// matchSpans measures how far the buffers agree around a candidate match,
// walking backward from the aligned positions and forward from them.
func matchSpans(blocksrc []byte, srcOff int64, target []byte, tgtOff int64) (back, fore int64) {
	maxBack := min(srcOff, tgtOff)
	for back < maxBack && blocksrc[srcOff-back-1] == target[tgtOff-back-1] {
		back++
	}
	maxFore := min(int64(len(blocksrc))-srcOff, int64(len(target))-tgtOff)
	for fore < maxFore && blocksrc[srcOff+fore] == target[tgtOff+fore] {
		fore++
	}
	return back, fore
}
