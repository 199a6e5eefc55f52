// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package voprf

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by this package. Compare with errors.Is, never
// with equality, since Random wraps the caller's own reader error.
var (
	// ErrBatch indicates a batched operation was called with mismatched or
	// empty input slices, or with more than 65,535 items.
	ErrBatch = errors.New("voprf: mismatched or empty batch")

	// ErrProof indicates a verifiable or partially-oblivious evaluation did
	// not carry a valid proof.
	ErrProof = errors.New("voprf: invalid proof")

	// ErrInfoLength indicates a POPRF Info exceeds 65,535 bytes.
	ErrInfoLength = errors.New("voprf: info too long")

	// ErrInputLength indicates a Blind, Finalize, or Evaluate input exceeds
	// 65,535 bytes, the largest value the wire format's two-byte length
	// prefix can express. Byte-decode failures use ErrFromRepr instead.
	ErrInputLength = errors.New("voprf: invalid input length")

	// ErrDeriveKeyPair indicates DeriveKeyPair exhausted its retry counter
	// without finding a non-zero scalar.
	ErrDeriveKeyPair = errors.New("voprf: key derivation failed")

	// ErrInvalidInput indicates an element (blinded, evaluated, public key,
	// or hashed input) decoded to, or computed, the group identity, or a
	// secret key decoded to the zero scalar.
	ErrInvalidInput = errors.New("voprf: invalid input")

	// ErrInvalidInfo indicates a POPRF evaluation produced or verified
	// against an identity tweaked key.
	ErrInvalidInfo = errors.New("voprf: invalid info")

	// ErrInvalidInfoDanger indicates a POPRF server's tweaked private key
	// (sk + HashToScalar(info)) is zero: constructing the server under this
	// info would silently leak the private key on evaluation.
	ErrInvalidInfoDanger = errors.New("voprf: info yields a degenerate tweaked key")

	// ErrInvalidCipherSuite indicates a CipherSuite value has an empty or
	// overlong Id or an unavailable group, for example a zero CipherSuite{}
	// that was never built by NewCipherSuite or taken from the standard
	// suites.
	ErrInvalidCipherSuite = errors.New("voprf: invalid cipher suite")

	// ErrWrongMode indicates a PreparedElement was hashed under a different
	// mode's context string than the Blind variant it was passed to.
	ErrWrongMode = errors.New("voprf: prepared element belongs to a different mode")

	// ErrFromRepr indicates a byte string failed to decode into a Scalar or
	// Element (wrong length, or not a valid canonical encoding).
	ErrFromRepr = errors.New("voprf: invalid encoding")

	// ErrRandom indicates the injected randomness source returned an error.
	ErrRandom = errors.New("voprf: randomness source failed")
)

// wrapRandom wraps an error returned by a caller-supplied io.Reader so
// callers can still match it with errors.Is(err, ErrRandom).
func wrapRandom(err error) error {
	return fmt.Errorf("%w: %w", ErrRandom, err)
}
