// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dsnet/rompatch/bps"
	"github.com/dsnet/rompatch/ips"
)

// patchInfo is the JSON document embedded as BPS metadata when the
// structured flags are used. The field set matches what the EBPatcher
// lineage of tools reads back.
type patchInfo struct {
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
	Description string `json:"description,omitempty"`
	Patcher     string `json:"patcher"`
}

// CreatePatch builds a BPS or IPS patch from a source/target ROM pair.
func CreatePatch(c *cli.Context) error {
	if c.Args().Len() != 3 {
		return fmt.Errorf("usage: rompatch create SOURCE TARGET PATCH")
	}
	source, err := os.ReadFile(c.Args().Get(0))
	if err != nil {
		return err
	}
	target, err := os.ReadFile(c.Args().Get(1))
	if err != nil {
		return err
	}

	var data []byte
	switch format := c.String("format"); format {
	case "bps":
		metadata := c.String("metadata")
		if metadata == "" && c.String("title")+c.String("author")+c.String("description") != "" {
			doc, err := json.Marshal(patchInfo{
				Title:       c.String("title"),
				Author:      c.String("author"),
				Description: c.String("description"),
				Patcher:     "rompatch",
			})
			if err != nil {
				return err
			}
			metadata = string(doc)
		}
		ops, err := bps.Diff(source, target, metadata, c.Int("blocksize"))
		if err != nil {
			return err
		}
		if data, err = bps.Encode(ops); err != nil {
			return err
		}
	case "ips":
		patch, err := ips.Diff(source, target)
		if err != nil {
			return err
		}
		data = patch.Encode()
	default:
		return fmt.Errorf("unknown patch format %q", format)
	}
	return os.WriteFile(c.Args().Get(2), data, 0666)
}
