// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package voprf

// Mode distinguishes the three protocol variants defined in RFC 9497. It is
// folded into the context string behind every hash-to-group and
// hash-to-scalar call, so the same keys and inputs never collide across
// modes. The final transcript hash (core.FinalizeHash) carries no mode byte
// of its own.
type Mode byte

const (
	// ModeOPRF is the base, non-verifiable mode: the
	// server learns nothing about the client's input, but the client has
	// no proof the server evaluated honestly.
	ModeOPRF Mode = 0x00

	// ModeVOPRF is the verifiable mode: the server additionally proves,
	// with a non-interactive discrete-log-equality proof, that it used the
	// same private key it committed to in its public key.
	ModeVOPRF Mode = 0x01

	// ModePOPRF is the partially-oblivious mode: client and server agree on
	// public Info that tweaks the server's key for this evaluation only,
	// and the server still proves correct evaluation under that tweak.
	ModePOPRF Mode = 0x02
)

// String returns a human-readable label for m.
func (m Mode) String() string {
	switch m {
	case ModeOPRF:
		return "OPRF"
	case ModeVOPRF:
		return "VOPRF"
	case ModePOPRF:
		return "POPRF"
	default:
		return "unknown mode"
	}
}
