// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command rompatch creates, applies, and inspects BPS and IPS ROM patches.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dsnet/rompatch/bps"
)

func main() {
	app := &cli.App{
		Name:  "rompatch",
		Usage: "create, apply, and inspect BPS and IPS ROM patches",
		Commands: []*cli.Command{
			{
				Name:      "apply",
				Usage:     "apply a patch to a source ROM",
				ArgsUsage: "PATCH SOURCE TARGET",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:  "snes-header",
						Usage: "size of a copier header the patch is unaware of (0 or 512)",
					},
				},
				Action: ApplyPatch,
			},
			{
				Name:      "create",
				Usage:     "build a patch from a source and a target ROM",
				ArgsUsage: "SOURCE TARGET PATCH",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "patch format to produce (bps or ips)",
						Value: "bps",
					},
					&cli.IntFlag{
						Name:  "blocksize",
						Usage: "delta search block size (bps only)",
						Value: bps.DefaultBlockSize,
					},
					&cli.StringFlag{
						Name:  "metadata",
						Usage: "raw metadata string to embed (bps only)",
					},
					&cli.StringFlag{Name: "title", Usage: "patch title"},
					&cli.StringFlag{Name: "author", Usage: "patch author"},
					&cli.StringFlag{Name: "description", Usage: "patch description"},
				},
				Action: CreatePatch,
			},
			{
				Name:      "info",
				Usage:     "describe a patch file",
				ArgsUsage: "PATCH",
				Action:    PatchInfo,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "rompatch: %v\n", err)
		os.Exit(1)
	}
}
