// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package voprf

import "github.com/bytemare/ecc"

// Go has no destructor to hook zeroization to, so every type below that
// carries a scalar exposes an explicit Zeroize method instead; callers that
// hold secret material across a longer lifetime (SecretKey, KeyPair,
// POPRFServer) are responsible for calling it once the value is no longer
// needed. It is safe to call more than once.
//
// ecc.Scalar exposes no in-place clear: the only mutating operation this
// package already relies on is arithmetic (Subtract, used by
// internal/core.GenerateProof), so zeroizeScalar drives a scalar to zero by
// subtracting it from itself rather than overwriting its encoding directly.
// For element-only wire types, Zeroize does not touch the element's
// coordinates: it drops this package's reference so the element becomes
// unreachable and eligible for garbage collection. That is weaker than
// overwriting the point in place, and is recorded as such in DESIGN.md
// rather than overstated.
func zeroizeScalar(s *ecc.Scalar) {
	if s == nil {
		return
	}

	s.Subtract(s)
}

// Zeroize overwrites k's scalar with zero and releases it. After Zeroize, k
// must not be used.
func (k *SecretKey) Zeroize() {
	zeroizeScalar(k.scalar)
	k.scalar = nil
}

// Zeroize releases k's element. See the package-level note on why this
// cannot overwrite the element's coordinates in place.
func (k *PublicKey) Zeroize() {
	k.element = nil
}

// Zeroize zeroizes kp's SecretKey and releases its PublicKey.
func (kp *KeyPair) Zeroize() {
	kp.Secret.Zeroize()
	kp.Public.Zeroize()
}

// Zeroize releases e's element. See the package-level note on why this
// cannot overwrite the element's coordinates in place.
func (e *BlindedElement) Zeroize() {
	e.element = nil
}

// Zeroize releases e's element. See the package-level note on why this
// cannot overwrite the element's coordinates in place.
func (e *EvaluationElement) Zeroize() {
	e.element = nil
}

// Zeroize overwrites both of p's scalars with zero and releases them.
func (p *Proof) Zeroize() {
	zeroizeScalar(p.c)
	zeroizeScalar(p.s)
	p.c = nil
	p.s = nil
}

// Zeroize zeroizes s's underlying KeyPair. s holds no independent secret
// scalar of its own.
func (s *OPRFServer) Zeroize() {
	s.key.Zeroize()
}

// Zeroize zeroizes s's underlying KeyPair. s holds no independent secret
// scalar of its own.
func (s *VOPRFServer) Zeroize() {
	s.key.Zeroize()
}

// Zeroize zeroizes s's underlying KeyPair along with the info-tweaked t and
// t-inverse scalars cached at construction, and releases the cached tweaked
// public key.
func (s *POPRFServer) Zeroize() {
	zeroizeScalar(s.t)
	zeroizeScalar(s.tInverted)
	s.t = nil
	s.tInverted = nil
	s.tweakedKey = nil
	s.key.Zeroize()
}
