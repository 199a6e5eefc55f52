// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package voprf

import (
	"github.com/bytemare/ecc"
)

// BlindedElement is the wire value a client sends to a server after Blind:
// a non-identity element with no exploitable relationship to the client's
// input, unless the server also holds the blinding scalar.
type BlindedElement struct {
	element *ecc.Element
}

// EvaluationElement is the wire value a server sends back after
// BlindEvaluate: the blinded input raised to the server's private key or,
// in POPRF, to the inverse of its info-tweaked private key.
type EvaluationElement struct {
	element *ecc.Element
}

// Encode serializes e to the cipher suite's fixed-length element encoding.
func (e BlindedElement) Encode() []byte { return e.element.Encode() }

// Encode serializes e to the cipher suite's fixed-length element encoding.
func (e EvaluationElement) Encode() []byte { return e.element.Encode() }

// DecodeBlindedElement decodes b as a BlindedElement of suite's group,
// rejecting the identity element.
func DecodeBlindedElement(suite CipherSuite, b []byte) (BlindedElement, error) {
	e, err := decodeNonIdentityElement(suite, b)
	if err != nil {
		return BlindedElement{}, err
	}

	return BlindedElement{element: e}, nil
}

// DecodeEvaluationElement decodes b as an EvaluationElement of suite's
// group, rejecting the identity element.
func DecodeEvaluationElement(suite CipherSuite, b []byte) (EvaluationElement, error) {
	e, err := decodeNonIdentityElement(suite, b)
	if err != nil {
		return EvaluationElement{}, err
	}

	return EvaluationElement{element: e}, nil
}

func decodeNonIdentityElement(suite CipherSuite, b []byte) (*ecc.Element, error) {
	e := suite.group.NewElement()
	if err := e.Decode(b); err != nil {
		return nil, ErrFromRepr
	}

	if e.IsIdentity() {
		return nil, ErrInvalidInput
	}

	return e, nil
}

// Proof is the non-interactive discrete-log-equality proof VOPRF and POPRF
// servers attach to a (batched) evaluation, letting a client confirm the
// evaluation used the key committed to by the server's public key (VOPRF)
// or the info-tweaked key derived from it (POPRF).
type Proof struct {
	c *ecc.Scalar
	s *ecc.Scalar
}

// Encode serializes p as c || s, each in the cipher suite's fixed-length
// scalar encoding.
func (p Proof) Encode() []byte {
	c := p.c.Encode()
	out := make([]byte, 0, 2*len(c))
	out = append(out, c...)
	out = append(out, p.s.Encode()...)

	return out
}

// DecodeProof splits b at the cipher suite's scalar length and decodes both
// halves. Returns ErrFromRepr if b is not exactly twice that length, or if
// either half is not a canonical scalar encoding.
func DecodeProof(suite CipherSuite, b []byte) (Proof, error) {
	n := suite.group.ScalarLength()
	if len(b) != 2*n {
		return Proof{}, ErrFromRepr
	}

	c := suite.group.NewScalar()
	if err := c.Decode(b[:n]); err != nil {
		return Proof{}, ErrFromRepr
	}

	s := suite.group.NewScalar()
	if err := s.Decode(b[n:]); err != nil {
		return Proof{}, ErrFromRepr
	}

	return Proof{c: c, s: s}, nil
}
