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

// OPRFClient runs the client side of a base (non-verifiable) OPRF
// evaluation: Blind, then Finalize once the server has responded. A client
// value is single-use: it holds the blinding scalar for exactly the input it
// blinded.
type OPRFClient struct {
	suite CipherSuite
	blind *ecc.Scalar
}

// Blind blinds input for suite's OPRF mode, returning the client state
// needed to finalize the evaluation and the BlindedElement to send to a
// server.
func Blind(suite CipherSuite, rng io.Reader, input []byte) (OPRFClient, BlindedElement, error) {
	clients, blinded, err := BlindBatch(suite, rng, [][]byte{input})
	if err != nil {
		return OPRFClient{}, BlindedElement{}, err
	}

	return clients[0], blinded[0], nil
}

// BlindBatch blinds every entry of inputs independently, each with its own
// fresh blinding scalar. The i-th returned client and BlindedElement
// correspond to the i-th input.
func BlindBatch(suite CipherSuite, rng io.Reader, inputs [][]byte) ([]OPRFClient, []BlindedElement, error) {
	if !suite.valid() {
		return nil, nil, ErrInvalidCipherSuite
	}

	if len(inputs) == 0 || len(inputs) > core.MaxBatchSize {
		return nil, nil, ErrBatch
	}

	context := core.ContextString(byte(ModeOPRF), string(suite.id))

	clients := make([]OPRFClient, len(inputs))
	blinded := make([]BlindedElement, len(inputs))

	for i, input := range inputs {
		if len(input) > core.MaxInputLength {
			return nil, nil, ErrInputLength
		}

		blind, element, err := core.BlindInput(suite.group, rng, context, input)
		if err != nil {
			return nil, nil, translateBlindErr(err)
		}

		clients[i] = OPRFClient{suite: suite, blind: blind.Scalar}
		blinded[i] = BlindedElement{element: element}
	}

	return clients, blinded, nil
}

func translateBlindErr(err error) error {
	if err == core.ErrInvalidInput {
		return ErrInvalidInput
	}

	return wrapRandom(err)
}

// Finalize completes the evaluation c started with Blind, given the server's
// EvaluationElement for the same input.
func (c OPRFClient) Finalize(input []byte, evaluation EvaluationElement) ([]byte, error) {
	out, err := c.suite.finalizeBatch([][]byte{input}, []*ecc.Scalar{c.blind}, []*ecc.Element{evaluation.element}, false, nil)
	if err != nil {
		return nil, err
	}

	return out[0], nil
}

// FinalizeBatch completes every evaluation in clients/inputs/evaluations,
// all under one batched blind inversion. The i-th entries of clients,
// inputs, and evaluations must all describe the same evaluation.
func FinalizeBatch(suite CipherSuite, clients []OPRFClient, inputs [][]byte, evaluations []EvaluationElement) ([][]byte, error) {
	n := len(clients)
	if n == 0 || n > core.MaxBatchSize || n != len(inputs) || n != len(evaluations) {
		return nil, ErrBatch
	}

	blinds := make([]*ecc.Scalar, len(clients))
	elements := make([]*ecc.Element, len(clients))

	for i, c := range clients {
		blinds[i] = c.blind
		elements[i] = evaluations[i].element
	}

	return suite.finalizeBatch(inputs, blinds, elements, false, nil)
}

// finalizeBatch unblinds evaluationElements against blinds and hashes each
// resulting transcript. withInfo/info apply only to POPRF callers.
func (c CipherSuite) finalizeBatch(inputs [][]byte, blinds []*ecc.Scalar, evaluationElements []*ecc.Element, withInfo bool, info []byte) ([][]byte, error) {
	if n := len(inputs); n == 0 || n > core.MaxBatchSize {
		return nil, ErrBatch
	}

	for _, input := range inputs {
		if len(input) > core.MaxInputLength {
			return nil, ErrInputLength
		}
	}

	unblinded, err := core.UnblindBatch(blinds, evaluationElements)
	if err != nil {
		return nil, ErrBatch
	}

	out := make([][]byte, len(inputs))
	for i, input := range inputs {
		out[i] = core.FinalizeHash(c.hashSum, input, withInfo, info, unblinded[i])
	}

	return out, nil
}

// OPRFServer runs the server side of a base OPRF: it holds the private key
// and answers BlindEvaluate requests, or shortcuts the whole protocol with
// Evaluate when it also knows the input.
type OPRFServer struct {
	suite CipherSuite
	key   KeyPair
}

// NewOPRFServer generates a fresh random KeyPair for suite and wraps it in
// an OPRFServer.
func NewOPRFServer(suite CipherSuite, rng io.Reader) (OPRFServer, error) {
	if !suite.valid() {
		return OPRFServer{}, ErrInvalidCipherSuite
	}

	kp, err := GenerateKeyPair(suite, rng)
	if err != nil {
		return OPRFServer{}, err
	}

	return OPRFServer{suite: suite, key: kp}, nil
}

// OPRFServerFromSeed deterministically derives an OPRFServer's KeyPair via
// DeriveKeyPair.
func OPRFServerFromSeed(suite CipherSuite, seed, keyInfo []byte) (OPRFServer, error) {
	if !suite.valid() {
		return OPRFServer{}, ErrInvalidCipherSuite
	}

	kp, err := DeriveKeyPair(suite, ModeOPRF, seed, keyInfo)
	if err != nil {
		return OPRFServer{}, err
	}

	return OPRFServer{suite: suite, key: kp}, nil
}

// OPRFServerFromKeyPair wraps an already-generated KeyPair in an OPRFServer.
func OPRFServerFromKeyPair(suite CipherSuite, kp KeyPair) OPRFServer {
	return OPRFServer{suite: suite, key: kp}
}

// PublicKey returns the server's public key. The base OPRF never sends this
// to clients as part of the protocol, but callers commonly need it for key
// management.
func (s OPRFServer) PublicKey() PublicKey { return s.key.Public }

// BlindEvaluate raises blinded to the server's private key, producing the
// EvaluationElement to return to the client.
func (s OPRFServer) BlindEvaluate(blinded BlindedElement) EvaluationElement {
	out, _ := s.BlindEvaluateBatch([]BlindedElement{blinded})
	return out[0]
}

// BlindEvaluateBatch is BlindEvaluate over a batch of BlindedElements.
func (s OPRFServer) BlindEvaluateBatch(blinded []BlindedElement) ([]EvaluationElement, error) {
	if len(blinded) == 0 || len(blinded) > core.MaxBatchSize {
		return nil, ErrBatch
	}

	out := make([]EvaluationElement, len(blinded))
	for i, b := range blinded {
		out[i] = EvaluationElement{element: b.element.Copy().Multiply(s.key.Secret.scalar)}
	}

	return out, nil
}

// Evaluate computes the full OPRF output for input directly, without a
// client round trip.
func (s OPRFServer) Evaluate(input []byte) ([]byte, error) {
	out, err := s.EvaluateBatch([][]byte{input})
	if err != nil {
		return nil, err
	}

	return out[0], nil
}

// EvaluateBatch is Evaluate over a batch of inputs.
func (s OPRFServer) EvaluateBatch(inputs [][]byte) ([][]byte, error) {
	return s.evaluateBatch(ModeOPRF, inputs)
}

// evaluateBatch hashes each input to the group under mode's context string
// and evaluates it with the untweaked private key (OPRF and VOPRF).
func (s OPRFServer) evaluateBatch(mode Mode, inputs [][]byte) ([][]byte, error) {
	if len(inputs) == 0 || len(inputs) > core.MaxBatchSize {
		return nil, ErrBatch
	}

	context := core.ContextString(byte(mode), string(s.suite.id))

	out := make([][]byte, len(inputs))

	for i, input := range inputs {
		if len(input) > core.MaxInputLength {
			return nil, ErrInputLength
		}

		hashed, err := igroup.HashToNonIdentityElement(s.suite.group, input, core.HashToGroupDST(context))
		if err != nil {
			return nil, ErrInvalidInput
		}

		evaluated := hashed.Element.Copy().Multiply(s.key.Secret.scalar)
		out[i] = core.FinalizeHash(s.suite.hashSum, input, false, nil, evaluated)
	}

	return out, nil
}
