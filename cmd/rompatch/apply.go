// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dsnet/rompatch/bps"
	"github.com/dsnet/rompatch/ips"
)

// ApplyPatch applies a BPS or IPS patch, selected by file magic, to a source
// ROM and writes the result.
func ApplyPatch(c *cli.Context) error {
	if c.Args().Len() != 3 {
		return fmt.Errorf("usage: rompatch apply PATCH SOURCE TARGET")
	}
	patchData, err := os.ReadFile(c.Args().Get(0))
	if err != nil {
		return err
	}
	source, err := os.ReadFile(c.Args().Get(1))
	if err != nil {
		return err
	}
	headerSize := c.Int64("snes-header")

	var target []byte
	switch {
	case bytes.HasPrefix(patchData, []byte("BPS1")):
		ops, err := bps.Decode(patchData)
		if err != nil {
			return err
		}
		if target, err = bps.ApplyHeadered(source, ops, headerSize); err != nil {
			return err
		}
		// A shifted application rewrites history the checksums never saw.
		if headerSize == 0 {
			if err := bps.CheckCRCs(ops, source, target); err != nil {
				return fmt.Errorf("%w (wrong source ROM?)", err)
			}
		}
	case bytes.HasPrefix(patchData, []byte("PATCH")):
		patch, err := ips.Decode(patchData)
		if err != nil {
			return err
		}
		target = patch.Apply(append([]byte(nil), source...), headerSize)
	default:
		return fmt.Errorf("unrecognized patch format")
	}
	return os.WriteFile(c.Args().Get(2), target, 0666)
}
