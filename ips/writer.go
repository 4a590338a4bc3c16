// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ips

import "sort"

// Diff computes the records that rewrite source into target. The inputs
// must be the same length; IPS has no way to declare a size change short of
// writing past the end, which Diff never does.
func Diff(source, target []byte) (*Patch, error) {
	if len(source) != len(target) {
		return nil, Error("source and target sizes differ")
	}

	patch := new(Patch)
	for pos := 0; pos < len(target); {
		if source[pos] == target[pos] {
			pos++
			continue
		}
		end := pos
		for end < len(target) && source[end] != target[end] {
			end++
		}
		patch.appendRun(target, pos, end)
		pos = end
	}
	return patch, nil
}

// appendRun splits a maximal differing run into records, honoring the
// record size limit and the EOF-sentinel offset restriction.
func (p *Patch) appendRun(target []byte, pos, end int) {
	for pos < end {
		off, cnt := pos, min(end-pos, maxRecordLen)
		if off == eofOffset {
			// A record cannot start on the sentinel; shift one byte left.
			// The extra byte re-writes a value the target already holds.
			off--
			cnt = min(cnt, maxRecordLen-1)
		}
		data := append([]byte(nil), target[off:pos+cnt]...)
		p.Records = append(p.Records, Record{Offset: int64(off), Data: data})
		pos += cnt
	}
}

// Encode serializes the patch, emitting records in ascending offset order
// followed by the EOF marker and the trailer.
func (p *Patch) Encode() []byte {
	recs := sortedRecords(p.Records)

	buf := []byte(magic)
	for _, rec := range recs {
		buf = append(buf, byte(rec.Offset>>16), byte(rec.Offset>>8), byte(rec.Offset))
		buf = append(buf, byte(len(rec.Data)>>8), byte(len(rec.Data)))
		buf = append(buf, rec.Data...)
	}
	buf = append(buf, eofMarker...)
	return append(buf, p.Trailer...)
}

func sortedRecords(records []Record) []Record {
	recs := make([]Record, len(records))
	copy(recs, records)
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Offset < recs[j].Offset
	})
	return recs
}
