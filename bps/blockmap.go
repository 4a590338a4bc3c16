// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bps

import "hash/crc32"

// blockMapBuckets is the bucket count of a blockMap. The bucket table alone
// is that many slice headers (about 6 MB on 64-bit platforms); each indexed
// block then adds one int64 offset, so the offsets of a multi-megabyte ROM
// add only a few hundred kilobytes on top.
const blockMapBuckets = 1<<18 - 1

// A blockMap indexes the offsets at which fixed-size windows of a buffer
// occur, bucketed by a hash of the window contents. Lookups may return false
// positives from bucket collisions; callers cull those by measuring the
// match (a forward span of zero means the window does not occur there).
type blockMap struct {
	buckets [][]int64
}

func newBlockMap() *blockMap {
	return &blockMap{buckets: make([][]int64, blockMapBuckets)}
}

func blockBucket(block []byte) uint32 {
	return crc32.ChecksumIEEE(block) % blockMapBuckets
}

func (bm *blockMap) add(block []byte, offset int64) {
	idx := blockBucket(block)
	bm.buckets[idx] = append(bm.buckets[idx], offset)
}

// lookup returns candidate offsets in insertion order.
func (bm *blockMap) lookup(block []byte) []int64 {
	return bm.buckets[blockBucket(block)]
}
