// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package voprf

import (
	"io"

	"github.com/bytemare/ecc"

	"github.com/bytemare/voprf/internal/core"
	igroup "github.com/bytemare/voprf/internal/group"
)

// PreparedElement caches HashToGroup(input) independently of any blinding
// scalar. Blind hashes its input and then blinds it in the same call, which
// is wasteful when a caller wants to retry blinding the same input with
// fresh randomness (for example, after a network failure loses the first
// blind) without rehashing. Prepare does the hashing once; Blind then only
// has to sample r and multiply.
type PreparedElement struct {
	suite   CipherSuite
	mode    Mode
	element *ecc.Element
}

// Prepare hashes input to a non-identity element of suite's group under
// mode's context string, ready to be blinded one or more times by
// BlindFromPrepared, VOPRFBlindFromPrepared, or POPRFBlindFromPrepared.
func Prepare(suite CipherSuite, mode Mode, input []byte) (PreparedElement, error) {
	if !suite.valid() {
		return PreparedElement{}, ErrInvalidCipherSuite
	}

	context := core.ContextString(byte(mode), string(suite.id))
	p := suite.group.HashToGroup(input, core.HashToGroupDST(context))

	if p.IsIdentity() {
		return PreparedElement{}, ErrInvalidInput
	}

	return PreparedElement{suite: suite, mode: mode, element: p}, nil
}

// Element returns the hashed element, for callers that want to feed it
// directly into a lower-level blinding call of their own.
func (p PreparedElement) Element() *ecc.Element { return p.element }

// Mode returns the mode p was prepared under.
func (p PreparedElement) Mode() Mode { return p.mode }

// blindPrepared samples a fresh blinding scalar and multiplies it into p's
// cached element, the shared second half of BlindFromPrepared/
// VOPRFBlindFromPrepared/POPRFBlindFromPrepared across all three modes: only
// the client type wrapping the result differs between them.
func blindPrepared(p PreparedElement, rng io.Reader, mode Mode) (*ecc.Scalar, *ecc.Element, error) {
	if p.mode != mode {
		return nil, nil, ErrWrongMode
	}

	blind, err := igroup.RandomNonZeroScalar(p.suite.group, rng)
	if err != nil {
		return nil, nil, wrapRandom(err)
	}

	return blind.Scalar, p.element.Copy().Multiply(blind.Scalar), nil
}

// BlindFromPrepared is Blind, but starting from a PreparedElement instead of
// hashing input again. p must have been prepared under ModeOPRF.
func BlindFromPrepared(rng io.Reader, p PreparedElement) (OPRFClient, BlindedElement, error) {
	blind, blinded, err := blindPrepared(p, rng, ModeOPRF)
	if err != nil {
		return OPRFClient{}, BlindedElement{}, err
	}

	return OPRFClient{suite: p.suite, blind: blind}, BlindedElement{element: blinded}, nil
}

// VOPRFBlindFromPrepared is VOPRFBlind, but starting from a PreparedElement
// instead of hashing input again. p must have been prepared under
// ModeVOPRF.
func VOPRFBlindFromPrepared(rng io.Reader, p PreparedElement) (VOPRFClient, BlindedElement, error) {
	blind, blinded, err := blindPrepared(p, rng, ModeVOPRF)
	if err != nil {
		return VOPRFClient{}, BlindedElement{}, err
	}

	return VOPRFClient{suite: p.suite, blind: blind, blinded: blinded}, BlindedElement{element: blinded}, nil
}

// POPRFBlindFromPrepared is POPRFBlind, but starting from a PreparedElement
// instead of hashing input again. p must have been prepared under
// ModePOPRF.
func POPRFBlindFromPrepared(rng io.Reader, p PreparedElement) (POPRFClient, BlindedElement, error) {
	blind, blinded, err := blindPrepared(p, rng, ModePOPRF)
	if err != nil {
		return POPRFClient{}, BlindedElement{}, err
	}

	return POPRFClient{suite: p.suite, blind: blind, blinded: blinded}, BlindedElement{element: blinded}, nil
}
