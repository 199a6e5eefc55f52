// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package voprf_test

import (
	"testing"

	"github.com/bytemare/voprf"
)

func TestMode_String(t *testing.T) {
	cases := []struct {
		mode voprf.Mode
		want string
	}{
		{voprf.ModeOPRF, "OPRF"},
		{voprf.ModeVOPRF, "VOPRF"},
		{voprf.ModePOPRF, "POPRF"},
		{voprf.Mode(0xff), "unknown mode"},
	}

	for _, c := range cases {
		if got := c.mode.String(); got != c.want {
			t.Errorf("Mode(%d).String() = %q, want %q", c.mode, got, c.want)
		}
	}
}

func TestMode_DistinctValues(t *testing.T) {
	modes := []voprf.Mode{voprf.ModeOPRF, voprf.ModeVOPRF, voprf.ModePOPRF}

	for i, a := range modes {
		for j, b := range modes {
			if i != j && a == b {
				t.Fatalf("modes %d and %d share the same byte value", i, j)
			}
		}
	}
}
