// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bench compares the size of delta patches against general-purpose
// compression of the raw target. A delta encoder that loses to blind
// compression of its output is not earning its keep, so this harness is the
// quickest way to sanity-check changes to the Diff heuristics.
package bench

import (
	"bytes"
	"sort"

	"github.com/klauspost/compress/flate"
	"github.com/ulikunitz/xz"

	"github.com/dsnet/rompatch/bps"
	"github.com/dsnet/rompatch/ips"
)

// A Compressor produces a compressed form of the input.
type Compressor func([]byte) ([]byte, error)

// Compressors are the registered reference compressors.
var Compressors = map[string]Compressor{}

func RegisterCompressor(name string, comp Compressor) {
	Compressors[name] = comp
}

func init() {
	RegisterCompressor("flate", func(data []byte) ([]byte, error) {
		var bb bytes.Buffer
		zw, err := flate.NewWriter(&bb, flate.DefaultCompression)
		if err != nil {
			return nil, err
		}
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return bb.Bytes(), nil
	})
	RegisterCompressor("xz", func(data []byte) ([]byte, error) {
		var bb bytes.Buffer
		zw, err := xz.NewWriter(&bb)
		if err != nil {
			return nil, err
		}
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return bb.Bytes(), nil
	})
}

// Result pairs an encoding name with its output size.
type Result struct {
	Name string
	Size int
}

// Measure sizes the BPS patch for the given pair (and the IPS patch when the
// inputs are the same length), alongside every registered compressor run
// over the raw target.
func Measure(source, target []byte, blockSize int) ([]Result, error) {
	ops, err := bps.Diff(source, target, "", blockSize)
	if err != nil {
		return nil, err
	}
	patch, err := bps.Encode(ops)
	if err != nil {
		return nil, err
	}
	results := []Result{{Name: "bps", Size: len(patch)}}

	if len(source) == len(target) {
		ipatch, err := ips.Diff(source, target)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{Name: "ips", Size: len(ipatch.Encode())})
	}

	var names []string
	for name := range Compressors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out, err := Compressors[name](target)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{Name: name, Size: len(out)})
	}
	return results, nil
}
