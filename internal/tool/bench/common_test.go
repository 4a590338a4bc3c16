// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"testing"

	"github.com/dsnet/rompatch/internal/testutil"
)

func TestMeasure(t *testing.T) {
	rand := testutil.NewRand(0)
	source := rand.Bytes(2048)
	target := append([]byte(nil), source...)
	copy(target[512:], rand.Bytes(64))

	results, err := Measure(source, target, 64)
	if err != nil {
		t.Fatalf("unexpected Measure error: %v", err)
	}

	got := map[string]int{}
	for _, res := range results {
		if res.Size <= 0 {
			t.Errorf("%s: non-positive size %d", res.Name, res.Size)
		}
		got[res.Name] = res.Size
	}
	for _, name := range []string{"bps", "ips", "flate", "xz"} {
		if _, ok := got[name]; !ok {
			t.Errorf("missing result for %q", name)
		}
	}

	// A small edit should delta-encode far smaller than recompressing the
	// whole target.
	if got["bps"] >= got["flate"] {
		t.Errorf("bps patch (%d bytes) not smaller than flate (%d bytes)", got["bps"], got["flate"])
	}
}
