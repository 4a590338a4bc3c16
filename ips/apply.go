// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ips

// Apply writes the patch records into buf at their offsets shifted down by
// headerOffset, growing the buffer (zero-filled) as needed, and returns the
// result. The header offset compensates for a copier header the patch did
// not expect; bytes that land below offset zero are dropped. Records are
// applied in ascending offset order.
func (p *Patch) Apply(buf []byte, headerOffset int64) []byte {
	for _, rec := range sortedRecords(p.Records) {
		off, data := rec.Offset-headerOffset, rec.Data
		if off < 0 {
			if -off >= int64(len(data)) {
				continue
			}
			data, off = data[-off:], 0
		}
		if end := off + int64(len(data)); end > int64(len(buf)) {
			grown := make([]byte, end)
			copy(grown, buf)
			buf = grown
		}
		copy(buf[off:], data)
	}
	return buf
}
