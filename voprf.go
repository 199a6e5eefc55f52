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
)

// VOPRFClient runs the client side of a verifiable OPRF evaluation: Blind,
// then Finalize once the server has responded with an EvaluationElement and
// a Proof binding it to the server's public key.
type VOPRFClient struct {
	suite   CipherSuite
	blind   *ecc.Scalar
	blinded *ecc.Element
}

// VOPRFBlind blinds input for suite's VOPRF mode.
func VOPRFBlind(suite CipherSuite, rng io.Reader, input []byte) (VOPRFClient, BlindedElement, error) {
	clients, blinded, err := VOPRFBlindBatch(suite, rng, [][]byte{input})
	if err != nil {
		return VOPRFClient{}, BlindedElement{}, err
	}

	return clients[0], blinded[0], nil
}

// VOPRFBlindBatch blinds every entry of inputs independently. The i-th
// returned client and BlindedElement correspond to the i-th input.
func VOPRFBlindBatch(suite CipherSuite, rng io.Reader, inputs [][]byte) ([]VOPRFClient, []BlindedElement, error) {
	if !suite.valid() {
		return nil, nil, ErrInvalidCipherSuite
	}

	if len(inputs) == 0 || len(inputs) > core.MaxBatchSize {
		return nil, nil, ErrBatch
	}

	context := core.ContextString(byte(ModeVOPRF), string(suite.id))

	clients := make([]VOPRFClient, len(inputs))
	blinded := make([]BlindedElement, len(inputs))

	for i, input := range inputs {
		if len(input) > core.MaxInputLength {
			return nil, nil, ErrInputLength
		}

		blind, element, err := core.BlindInput(suite.group, rng, context, input)
		if err != nil {
			return nil, nil, translateBlindErr(err)
		}

		clients[i] = VOPRFClient{suite: suite, blind: blind.Scalar, blinded: element}
		blinded[i] = BlindedElement{element: element}
	}

	return clients, blinded, nil
}

// Finalize completes the evaluation c started with VOPRFBlind, verifying
// proof against the server's public key before unblinding.
func (c VOPRFClient) Finalize(publicKey PublicKey, input []byte, evaluation EvaluationElement, proof Proof) ([]byte, error) {
	out, err := VOPRFFinalizeBatch(
		c.suite, publicKey,
		[]VOPRFClient{c}, [][]byte{input}, []EvaluationElement{evaluation}, proof,
	)
	if err != nil {
		return nil, err
	}

	return out[0], nil
}

// VOPRFFinalizeBatch completes every evaluation in clients/inputs/evaluations
// against a single combined Proof, all under one batched blind inversion.
// The i-th entries of clients, inputs, and evaluations must all describe the
// same evaluation.
func VOPRFFinalizeBatch(
	suite CipherSuite,
	publicKey PublicKey,
	clients []VOPRFClient,
	inputs [][]byte,
	evaluations []EvaluationElement,
	proof Proof,
) ([][]byte, error) {
	n := len(clients)
	if n == 0 || n > core.MaxBatchSize || n != len(inputs) || n != len(evaluations) {
		return nil, ErrBatch
	}

	context := core.ContextString(byte(ModeVOPRF), string(suite.id))

	blindedElements := make([]*ecc.Element, n)
	evaluationElements := make([]*ecc.Element, n)
	blinds := make([]*ecc.Scalar, n)

	for i, c := range clients {
		blindedElements[i] = c.blinded
		evaluationElements[i] = evaluations[i].element
		blinds[i] = c.blind
	}

	composites, err := core.ComputeComposites(
		suite.hashSum, context, nil, suite.group,
		publicKey.element, blindedElements, evaluationElements,
	)
	if err != nil {
		return nil, ErrBatch
	}

	if err := core.VerifyProof(suite.group, context, publicKey.element, composites, proof.c, proof.s); err != nil {
		return nil, ErrProof
	}

	return suite.finalizeBatch(inputs, blinds, evaluationElements, false, nil)
}

// VOPRFServer runs the server side of a verifiable OPRF: it answers
// BlindEvaluate requests with an EvaluationElement and a Proof that it used
// the private key matching its public key, or shortcuts the whole protocol
// with Evaluate when it also knows the input.
type VOPRFServer struct {
	suite CipherSuite
	key   KeyPair
}

// NewVOPRFServer generates a fresh random KeyPair for suite and wraps it in
// a VOPRFServer.
func NewVOPRFServer(suite CipherSuite, rng io.Reader) (VOPRFServer, error) {
	if !suite.valid() {
		return VOPRFServer{}, ErrInvalidCipherSuite
	}

	kp, err := GenerateKeyPair(suite, rng)
	if err != nil {
		return VOPRFServer{}, err
	}

	return VOPRFServer{suite: suite, key: kp}, nil
}

// VOPRFServerFromSeed deterministically derives a VOPRFServer's KeyPair via
// DeriveKeyPair.
func VOPRFServerFromSeed(suite CipherSuite, seed, keyInfo []byte) (VOPRFServer, error) {
	if !suite.valid() {
		return VOPRFServer{}, ErrInvalidCipherSuite
	}

	kp, err := DeriveKeyPair(suite, ModeVOPRF, seed, keyInfo)
	if err != nil {
		return VOPRFServer{}, err
	}

	return VOPRFServer{suite: suite, key: kp}, nil
}

// VOPRFServerFromKeyPair wraps an already-generated KeyPair in a
// VOPRFServer.
func VOPRFServerFromKeyPair(suite CipherSuite, kp KeyPair) VOPRFServer {
	return VOPRFServer{suite: suite, key: kp}
}

// PublicKey returns the server's public key, which clients need to verify
// its proofs.
func (s VOPRFServer) PublicKey() PublicKey { return s.key.Public }

// BlindEvaluate raises blinded to the server's private key and attaches a
// Proof that it did so correctly.
func (s VOPRFServer) BlindEvaluate(rng io.Reader, blinded BlindedElement) (EvaluationElement, Proof, error) {
	evals, proof, err := s.BlindEvaluateBatch(rng, []BlindedElement{blinded})
	if err != nil {
		return EvaluationElement{}, Proof{}, err
	}

	return evals[0], proof, nil
}

// BlindEvaluateBatch is BlindEvaluate over a batch of BlindedElements,
// producing a single combined Proof for the whole batch.
func (s VOPRFServer) BlindEvaluateBatch(rng io.Reader, blinded []BlindedElement) ([]EvaluationElement, Proof, error) {
	n := len(blinded)
	if n == 0 || n > core.MaxBatchSize {
		return nil, Proof{}, ErrBatch
	}

	context := core.ContextString(byte(ModeVOPRF), string(s.suite.id))

	blindedElements := make([]*ecc.Element, n)
	evaluationElements := make([]*ecc.Element, n)

	for i, b := range blinded {
		blindedElements[i] = b.element
		evaluationElements[i] = b.element.Copy().Multiply(s.key.Secret.scalar)
	}

	composites, err := core.ComputeComposites(
		s.suite.hashSum, context, s.key.Secret.scalar, s.suite.group,
		s.key.Public.element, blindedElements, evaluationElements,
	)
	if err != nil {
		return nil, Proof{}, ErrBatch
	}

	c, proofS, err := core.GenerateProof(s.suite.group, rng, context, s.key.Secret.scalar, s.key.Public.element, composites)
	if err != nil {
		return nil, Proof{}, wrapRandom(err)
	}

	out := make([]EvaluationElement, n)
	for i, e := range evaluationElements {
		out[i] = EvaluationElement{element: e}
	}

	return out, Proof{c: c, s: proofS}, nil
}

// Evaluate computes the full VOPRF output for input directly, without a
// client round trip or a proof.
func (s VOPRFServer) Evaluate(input []byte) ([]byte, error) {
	out, err := s.EvaluateBatch([][]byte{input})
	if err != nil {
		return nil, err
	}

	return out[0], nil
}

// EvaluateBatch is Evaluate over a batch of inputs.
func (s VOPRFServer) EvaluateBatch(inputs [][]byte) ([][]byte, error) {
	oprf := OPRFServer{suite: s.suite, key: s.key}
	return oprf.evaluateBatch(ModeVOPRF, inputs)
}
