// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dsnet/rompatch/bps"
	"github.com/dsnet/rompatch/ips"
)

// PatchInfo describes a patch file: sizes, checksums, and metadata for BPS;
// record statistics for IPS.
func PatchInfo(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: rompatch info PATCH")
	}
	patchData, err := os.ReadFile(c.Args().Get(0))
	if err != nil {
		return err
	}

	switch {
	case bytes.HasPrefix(patchData, []byte("BPS1")):
		ops, err := bps.Decode(patchData)
		if err != nil {
			return err
		}
		return bpsInfo(ops)
	case bytes.HasPrefix(patchData, []byte("PATCH")):
		patch, err := ips.Decode(patchData)
		if err != nil {
			return err
		}
		ipsInfo(patch)
		return nil
	default:
		return fmt.Errorf("unrecognized patch format")
	}
}

func bpsInfo(ops []bps.Op) error {
	for _, op := range ops {
		switch op := op.(type) {
		case bps.Header:
			fmt.Printf("format:      BPS\n")
			fmt.Printf("source size: %d\n", op.SourceSize)
			fmt.Printf("target size: %d\n", op.TargetSize)
			printMetadata(op.Metadata)
		case bps.SourceCRC32:
			fmt.Printf("source CRC32: %08X\n", op.Sum)
		case bps.TargetCRC32:
			fmt.Printf("target CRC32: %08X\n", op.Sum)
		}
	}
	return nil
}

func printMetadata(metadata string) {
	if metadata == "" {
		return
	}
	var info patchInfo
	if err := json.Unmarshal([]byte(metadata), &info); err == nil && info.Patcher != "" {
		fmt.Printf("title:       %s\n", info.Title)
		fmt.Printf("author:      %s\n", info.Author)
		fmt.Printf("description: %s\n", info.Description)
		fmt.Printf("patcher:     %s\n", info.Patcher)
		return
	}
	fmt.Printf("metadata:    %s\n", metadata)
}

func ipsInfo(patch *ips.Patch) {
	var total int
	for _, rec := range patch.Records {
		total += len(rec.Data)
	}
	fmt.Printf("format:  IPS\n")
	fmt.Printf("records: %d\n", len(patch.Records))
	fmt.Printf("payload: %d bytes\n", total)
	if len(patch.Trailer) > 0 {
		fmt.Printf("trailer: %d bytes\n", len(patch.Trailer))
	}
}
