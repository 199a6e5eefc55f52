// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package group adds the type-level invariants RFC 9497 requires on top of
// github.com/bytemare/ecc's Scalar and Element, plus the batch primitives
// ecc does not itself expose: Montgomery-batched scalar inversion and
// multi-scalar multiplication.
package group

import (
	"errors"
	"io"

	"github.com/bytemare/ecc"
)

// ErrZero indicates a Scalar was unexpectedly the additive identity.
var ErrZero = errors.New("group: scalar is zero")

// ErrIdentity indicates an Element was unexpectedly the group identity.
var ErrIdentity = errors.New("group: element is the identity")

// NonZeroScalar wraps an *ecc.Scalar known, at construction time, not to be
// zero. RFC 9497 private keys and DLEQ blinding values are always of this
// shape; Go has no type-level way to forbid later mutation back to zero, so
// callers must not reach past the wrapper into arithmetic that could zero it
// without re-validating.
type NonZeroScalar struct {
	*ecc.Scalar
}

// NewNonZeroScalar validates s and returns it wrapped, or ErrZero.
func NewNonZeroScalar(s *ecc.Scalar) (NonZeroScalar, error) {
	if s.IsZero() {
		return NonZeroScalar{}, ErrZero
	}

	return NonZeroScalar{s}, nil
}

// maxRandomAttempts bounds the scalar_random rejection-sampling loop. A
// sound RNG and a scalar field of cryptographic size make rejecting this
// many times in a row astronomically unlikely; the bound exists only to
// turn a broken RNG into an error instead of an infinite loop.
const maxRandomAttempts = 256

// RandomNonZeroScalar rejection-samples a uniform non-zero scalar of g,
// reading fresh candidate bytes from rng on every attempt. This is the Go
// shape of RFC 9497's scalar_random: ecc.Scalar.Decode rejects any encoding
// that is not a canonically-reduced field element, which doubles as the
// uniformity check this needs.
func RandomNonZeroScalar(g ecc.Group, rng io.Reader) (NonZeroScalar, error) {
	buf := make([]byte, g.ScalarLength())

	for i := 0; i < maxRandomAttempts; i++ {
		if _, err := io.ReadFull(rng, buf); err != nil {
			return NonZeroScalar{}, err
		}

		s := g.NewScalar()
		if err := s.Decode(buf); err != nil {
			continue
		}

		if z, err := NewNonZeroScalar(s); err == nil {
			return z, nil
		}
	}

	return NonZeroScalar{}, ErrZero
}

// NonIdentityElement wraps an *ecc.Element known, at construction time, not
// to be the group identity.
type NonIdentityElement struct {
	*ecc.Element
}

// NewNonIdentityElement validates e and returns it wrapped, or ErrIdentity.
func NewNonIdentityElement(e *ecc.Element) (NonIdentityElement, error) {
	if e.IsIdentity() {
		return NonIdentityElement{}, ErrIdentity
	}

	return NonIdentityElement{e}, nil
}

// HashToNonIdentityElement maps input to an Element of g under dst, and
// rejects the (cryptographically negligible, but RFC-mandated-to-check)
// chance that it lands on the identity.
func HashToNonIdentityElement(g ecc.Group, input, dst []byte) (NonIdentityElement, error) {
	e := g.HashToGroup(input, dst)
	return NewNonIdentityElement(e)
}

// ScalarBatchInvert inverts every scalar in s in place, computing all n
// inverses with a single field inversion via Montgomery's trick instead of n
// of them. Every entry of s must be non-zero; the caller is responsible for
// that (this package only ever calls it on blinding scalars, which are
// NonZeroScalar by construction).
func ScalarBatchInvert(s []*ecc.Scalar) {
	n := len(s)
	if n == 0 {
		return
	}

	if n == 1 {
		s[0].Invert()
		return
	}

	// acc[i] = s[0] * s[1] * ... * s[i]
	acc := make([]*ecc.Scalar, n)
	acc[0] = s[0].Copy()

	for i := 1; i < n; i++ {
		acc[i] = acc[i-1].Copy().Multiply(s[i])
	}

	inv := acc[n-1].Copy().Invert()

	for i := n - 1; i > 0; i-- {
		next := inv.Copy().Multiply(acc[i-1])
		inv = inv.Multiply(s[i])
		s[i] = next
	}

	s[0] = inv
}

// LinComb computes the multi-scalar multiplication sum(scalars[i] *
// elements[i]), via repeated single-scalar multiplication and addition.
// ecc.Element exposes no windowed or Pippenger-style multi-scalar
// multiplication, so this is the straightforward O(n) fallback: correct, not
// asymptotically optimal.
func LinComb(g ecc.Group, scalars []*ecc.Scalar, elements []*ecc.Element) (*ecc.Element, error) {
	if len(scalars) == 0 || len(scalars) != len(elements) {
		return nil, errors.New("group: lincomb requires equal, non-empty scalar and element slices")
	}

	acc := g.NewElement()

	for i, e := range elements {
		acc = acc.Add(e.Copy().Multiply(scalars[i]))
	}

	return acc, nil
}

// MaybeDouble is the hook RFC 9497's reference implementation uses to double
// elements of quotient groups (e.g. Ristretto, Decaf) before batch
// serialization, so that sharing one field inversion across the batch still
// yields the same encoding a non-batched call would produce. ecc.Element's
// public API exposes no projective representation to double cheaply before
// the final encode, so this is the identity function: every implementation
// that skips the optimization remains interoperable by construction, at the
// cost of the batch speedup.
func MaybeDouble(e *ecc.Element) *ecc.Element { return e }

// MaybeHalve is MaybeDouble's inverse hook, applied to the blinding scalar
// side. Identity for the same reason.
func MaybeHalve(s *ecc.Scalar) *ecc.Scalar { return s }
