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

// POPRFClient runs the client side of a partially-oblivious OPRF
// evaluation: Blind, then Finalize once the server has responded with an
// EvaluationElement and a Proof binding it to the info-tweaked public key
// both sides derive from the given Info.
type POPRFClient struct {
	suite   CipherSuite
	blind   *ecc.Scalar
	blinded *ecc.Element
}

// POPRFBlind blinds input for suite's POPRF mode. info is not involved in
// blinding; it only enters at Finalize and on the server's BlindEvaluate.
func POPRFBlind(suite CipherSuite, rng io.Reader, input []byte) (POPRFClient, BlindedElement, error) {
	clients, blinded, err := POPRFBlindBatch(suite, rng, [][]byte{input})
	if err != nil {
		return POPRFClient{}, BlindedElement{}, err
	}

	return clients[0], blinded[0], nil
}

// POPRFBlindBatch blinds every entry of inputs independently. The i-th
// returned client and BlindedElement correspond to the i-th input.
func POPRFBlindBatch(suite CipherSuite, rng io.Reader, inputs [][]byte) ([]POPRFClient, []BlindedElement, error) {
	if !suite.valid() {
		return nil, nil, ErrInvalidCipherSuite
	}

	if len(inputs) == 0 || len(inputs) > core.MaxBatchSize {
		return nil, nil, ErrBatch
	}

	context := core.ContextString(byte(ModePOPRF), string(suite.id))

	clients := make([]POPRFClient, len(inputs))
	blinded := make([]BlindedElement, len(inputs))

	for i, input := range inputs {
		if len(input) > core.MaxInputLength {
			return nil, nil, ErrInputLength
		}

		blind, element, err := core.BlindInput(suite.group, rng, context, input)
		if err != nil {
			return nil, nil, translateBlindErr(err)
		}

		clients[i] = POPRFClient{suite: suite, blind: blind.Scalar, blinded: element}
		blinded[i] = BlindedElement{element: element}
	}

	return clients, blinded, nil
}

// tweakedKey computes RFC 9497's tweaked public key: publicKey + m*G, where
// m = HashToScalar("Info" || I2OSP_2(len(info)) || info). The client
// recomputes this from the server's untweaked public key; the server caches
// the equivalent private-key-side quantities in FromKeyPair.
func tweakedKey(suite CipherSuite, publicKey PublicKey, info Info) (*ecc.Element, error) {
	context := core.ContextString(byte(ModePOPRF), string(suite.id))
	framedInfo := core.Concat([]byte("Info"), core.I2OSP(len(info), 2), info)
	m := suite.group.HashToScalar(framedInfo, core.HashToScalarDST(context))

	key := suite.group.Base().Multiply(m).Add(publicKey.element)
	if key.IsIdentity() {
		return nil, ErrInvalidInfo
	}

	return key, nil
}

// Finalize completes the evaluation c started with POPRFBlind, verifying
// proof against the info-tweaked public key before unblinding.
func (c POPRFClient) Finalize(publicKey PublicKey, input []byte, info Info, evaluation EvaluationElement, proof Proof) ([]byte, error) {
	out, err := POPRFFinalizeBatch(
		c.suite, publicKey, info,
		[]POPRFClient{c}, [][]byte{input}, []EvaluationElement{evaluation}, proof,
	)
	if err != nil {
		return nil, err
	}

	return out[0], nil
}

// POPRFFinalizeBatch completes every evaluation in clients/inputs/evaluations
// against a single combined Proof and the given Info, all under one batched
// blind inversion. The i-th entries of clients, inputs, and evaluations must
// all describe the same evaluation.
func POPRFFinalizeBatch(
	suite CipherSuite,
	publicKey PublicKey,
	info Info,
	clients []POPRFClient,
	inputs [][]byte,
	evaluations []EvaluationElement,
	proof Proof,
) ([][]byte, error) {
	n := len(clients)
	if n == 0 || n > core.MaxBatchSize || n != len(inputs) || n != len(evaluations) {
		return nil, ErrBatch
	}

	if len(info) > maxInfoLength {
		return nil, ErrInfoLength
	}

	tweaked, err := tweakedKey(suite, publicKey, info)
	if err != nil {
		return nil, err
	}

	context := core.ContextString(byte(ModePOPRF), string(suite.id))

	blindedElements := make([]*ecc.Element, n)
	evaluationElements := make([]*ecc.Element, n)
	blinds := make([]*ecc.Scalar, n)

	for i, c := range clients {
		blindedElements[i] = c.blinded
		evaluationElements[i] = evaluations[i].element
		blinds[i] = c.blind
	}

	// POPRF swaps the roles ComputeComposites' cs/ds play relative to VOPRF:
	// M is built from the evaluation elements and Z (when k is nil) from the
	// blinded elements, because the server's fast path below multiplies the
	// *evaluation* side by t to recover what is, up to that factor, the
	// blinded side.
	composites, err := core.ComputeComposites(
		suite.hashSum, context, nil, suite.group,
		tweaked, evaluationElements, blindedElements,
	)
	if err != nil {
		return nil, ErrBatch
	}

	if err := core.VerifyProof(suite.group, context, tweaked, composites, proof.c, proof.s); err != nil {
		return nil, ErrProof
	}

	return suite.finalizeBatch(inputs, blinds, evaluationElements, true, info)
}

// POPRFServer runs the server side of a partially-oblivious OPRF. Unlike
// OPRFServer and VOPRFServer, it is scoped to a single Info: constructing it
// computes and caches the info-tweaked scalar t = secretKey +
// HashToScalar(info), its inverse, and the corresponding tweaked public key,
// all of which every BlindEvaluate and Evaluate call on this value reuses.
// A server wanting to answer requests under a different Info constructs a
// new POPRFServer.
type POPRFServer struct {
	suite      CipherSuite
	key        KeyPair
	info       Info
	t          *ecc.Scalar
	tInverted  *ecc.Scalar
	tweakedKey *ecc.Element
}

// NewPOPRFServer generates a fresh random KeyPair for suite and wraps it in
// a POPRFServer tweaked for info.
func NewPOPRFServer(suite CipherSuite, rng io.Reader, info []byte) (POPRFServer, error) {
	if !suite.valid() {
		return POPRFServer{}, ErrInvalidCipherSuite
	}

	kp, err := GenerateKeyPair(suite, rng)
	if err != nil {
		return POPRFServer{}, err
	}

	return POPRFServerFromKeyPair(suite, kp, info)
}

// POPRFServerFromSeed deterministically derives a POPRFServer's KeyPair via
// DeriveKeyPair, then tweaks it for info.
func POPRFServerFromSeed(suite CipherSuite, seed, keyInfo, info []byte) (POPRFServer, error) {
	if !suite.valid() {
		return POPRFServer{}, ErrInvalidCipherSuite
	}

	kp, err := DeriveKeyPair(suite, ModePOPRF, seed, keyInfo)
	if err != nil {
		return POPRFServer{}, err
	}

	return POPRFServerFromKeyPair(suite, kp, info)
}

// POPRFServerFromKeyPair wraps an already-generated KeyPair in a POPRFServer
// tweaked for info.
//
// Returns ErrInvalidInfoDanger if info happens to tweak kp's secret key to
// zero. RFC 9497 treats this as a fatal construction error rather than
// something to retry past: a client who already knows this degenerate info
// would be able to recover the server's untweaked secret key from a single
// evaluation, so the server must change its Info (or, if that is not under
// its control, its key) rather than proceed.
func POPRFServerFromKeyPair(suite CipherSuite, kp KeyPair, info []byte) (POPRFServer, error) {
	if !suite.valid() {
		return POPRFServer{}, ErrInvalidCipherSuite
	}

	poprfInfo, err := NewInfo(info)
	if err != nil {
		return POPRFServer{}, err
	}

	context := core.ContextString(byte(ModePOPRF), string(suite.id))
	framedInfo := core.Concat([]byte("Info"), core.I2OSP(len(poprfInfo), 2), poprfInfo)
	m := suite.group.HashToScalar(framedInfo, core.HashToScalarDST(context))

	t := kp.Secret.scalar.Copy().Add(m)
	if t.IsZero() {
		return POPRFServer{}, ErrInvalidInfoDanger
	}

	tInverted := t.Copy().Invert()
	tweaked := suite.group.Base().Multiply(t.Copy())

	return POPRFServer{
		suite:      suite,
		key:        kp,
		info:       poprfInfo,
		t:          t,
		tInverted:  tInverted,
		tweakedKey: tweaked,
	}, nil
}

// KeyPair returns the server's untweaked KeyPair.
func (s POPRFServer) KeyPair() KeyPair { return s.key }

// PublicKey returns the server's untweaked public key. Clients combine this
// with the agreed-upon Info themselves to arrive at the same tweaked key
// the server verifies proofs against.
func (s POPRFServer) PublicKey() PublicKey { return s.key.Public }

// BlindEvaluate raises blinded to the inverse of the server's info-tweaked
// private key and attaches a Proof that it did so correctly.
func (s POPRFServer) BlindEvaluate(rng io.Reader, blinded BlindedElement) (EvaluationElement, Proof, error) {
	evals, proof, err := s.BlindEvaluateBatch(rng, []BlindedElement{blinded})
	if err != nil {
		return EvaluationElement{}, Proof{}, err
	}

	return evals[0], proof, nil
}

// BlindEvaluateBatch is BlindEvaluate over a batch of BlindedElements,
// producing a single combined Proof for the whole batch.
//
// Each evaluation element is blinded*tInverted, not blinded*t: t_inverted is
// what cancels the client's own blind at Finalize time to leave
// input*t_inverted, matching what Evaluate computes directly. The proof
// instead uses t, proving knowledge of the discrete log of the tweaked
// public key relative to the generator, tied to these evaluation elements
// through ComputeComposites' roles being swapped relative to VOPRF (see
// POPRFFinalizeBatch).
func (s POPRFServer) BlindEvaluateBatch(rng io.Reader, blinded []BlindedElement) ([]EvaluationElement, Proof, error) {
	n := len(blinded)
	if n == 0 || n > core.MaxBatchSize {
		return nil, Proof{}, ErrBatch
	}

	context := core.ContextString(byte(ModePOPRF), string(s.suite.id))

	blindedElements := make([]*ecc.Element, n)
	evaluationElements := make([]*ecc.Element, n)

	for i, b := range blinded {
		blindedElements[i] = b.element
		evaluationElements[i] = b.element.Copy().Multiply(s.tInverted)
	}

	composites, err := core.ComputeComposites(
		s.suite.hashSum, context, s.t, s.suite.group,
		s.tweakedKey, evaluationElements, blindedElements,
	)
	if err != nil {
		return nil, Proof{}, ErrBatch
	}

	c, proofS, err := core.GenerateProof(s.suite.group, rng, context, s.t, s.tweakedKey, composites)
	if err != nil {
		return nil, Proof{}, wrapRandom(err)
	}

	out := make([]EvaluationElement, n)
	for i, e := range evaluationElements {
		out[i] = EvaluationElement{element: e}
	}

	return out, Proof{c: c, s: proofS}, nil
}

// Evaluate computes the full POPRF output for input directly, without a
// client round trip or a proof.
func (s POPRFServer) Evaluate(input []byte) ([]byte, error) {
	out, err := s.EvaluateBatch([][]byte{input})
	if err != nil {
		return nil, err
	}

	return out[0], nil
}

// EvaluateBatch is Evaluate over a batch of inputs.
func (s POPRFServer) EvaluateBatch(inputs [][]byte) ([][]byte, error) {
	if len(inputs) == 0 || len(inputs) > core.MaxBatchSize {
		return nil, ErrBatch
	}

	context := core.ContextString(byte(ModePOPRF), string(s.suite.id))

	out := make([][]byte, len(inputs))

	for i, input := range inputs {
		if len(input) > core.MaxInputLength {
			return nil, ErrInputLength
		}

		hashed, err := igroup.HashToNonIdentityElement(s.suite.group, input, core.HashToGroupDST(context))
		if err != nil {
			return nil, ErrInvalidInput
		}

		evaluated := hashed.Element.Copy().Multiply(s.tInverted)
		out[i] = core.FinalizeHash(s.suite.hashSum, input, true, s.info, evaluated)
	}

	return out, nil
}
