// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build ignore

// Benchmark tool to compare delta-patch sizes against general-purpose
// compressors.
//
// Example usage:
//	$ go run main.go -source old.sfc -target new.sfc -blocksize 64
//
//	encoding        bytes   ratio
//	bps              1842  0.001x
//	ips              2210  0.001x
//	flate          731482  0.244x
//	xz             602131  0.201x
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dsnet/rompatch/bps"
	"github.com/dsnet/rompatch/internal/tool/bench"
)

func main() {
	source := flag.String("source", "", "path to the source file")
	target := flag.String("target", "", "path to the target file")
	blockSize := flag.Int("blocksize", bps.DefaultBlockSize, "delta search block size")
	flag.Parse()

	sourceData, err := os.ReadFile(*source)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	targetData, err := os.ReadFile(*target)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	results, err := bench.Measure(sourceData, targetData, *blockSize)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("%-12s %8s %7s\n", "encoding", "bytes", "ratio")
	for _, res := range results {
		ratio := float64(res.Size) / float64(len(targetData))
		fmt.Printf("%-12s %8d %6.3fx\n", res.Name, res.Size, ratio)
	}
}
