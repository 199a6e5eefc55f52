// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package voprf_test

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/bytemare/voprf"
)

func TestBlindedElement_EncodeDecodeRoundTrip(t *testing.T) {
	_, blinded, err := voprf.Blind(voprf.Ristretto255Sha512, rand.Reader, []byte("input"))
	if err != nil {
		t.Fatalf("Blind: %v", err)
	}

	decoded, err := voprf.DecodeBlindedElement(voprf.Ristretto255Sha512, blinded.Encode())
	if err != nil {
		t.Fatalf("DecodeBlindedElement: %v", err)
	}

	if !bytes.Equal(decoded.Encode(), blinded.Encode()) {
		t.Fatal("decoded blinded element does not round-trip")
	}
}

func TestEvaluationElement_EncodeDecodeRoundTrip(t *testing.T) {
	server, err := voprf.NewOPRFServer(voprf.Ristretto255Sha512, rand.Reader)
	if err != nil {
		t.Fatalf("NewOPRFServer: %v", err)
	}

	_, blinded, err := voprf.Blind(voprf.Ristretto255Sha512, rand.Reader, []byte("input"))
	if err != nil {
		t.Fatalf("Blind: %v", err)
	}

	eval := server.BlindEvaluate(blinded)

	decoded, err := voprf.DecodeEvaluationElement(voprf.Ristretto255Sha512, eval.Encode())
	if err != nil {
		t.Fatalf("DecodeEvaluationElement: %v", err)
	}

	if !bytes.Equal(decoded.Encode(), eval.Encode()) {
		t.Fatal("decoded evaluation element does not round-trip")
	}
}

func TestDecodeBlindedElement_RejectsIdentity(t *testing.T) {
	identity := voprf.Ristretto255Sha512.Group().NewElement().Encode()

	if _, err := voprf.DecodeBlindedElement(voprf.Ristretto255Sha512, identity); !errors.Is(err, voprf.ErrInvalidInput) {
		t.Fatalf("got %v, want %v", err, voprf.ErrInvalidInput)
	}
}

func TestDecodeEvaluationElement_RejectsIdentity(t *testing.T) {
	identity := voprf.Ristretto255Sha512.Group().NewElement().Encode()

	if _, err := voprf.DecodeEvaluationElement(voprf.Ristretto255Sha512, identity); !errors.Is(err, voprf.ErrInvalidInput) {
		t.Fatalf("got %v, want %v", err, voprf.ErrInvalidInput)
	}
}

func TestDecodeBlindedElement_RejectsMalformedEncoding(t *testing.T) {
	if _, err := voprf.DecodeBlindedElement(voprf.Ristretto255Sha512, []byte{0x01}); !errors.Is(err, voprf.ErrFromRepr) {
		t.Fatalf("got %v, want %v", err, voprf.ErrFromRepr)
	}
}

func TestProof_EncodeDecodeRoundTrip(t *testing.T) {
	server, err := voprf.NewVOPRFServer(voprf.Ristretto255Sha512, rand.Reader)
	if err != nil {
		t.Fatalf("NewVOPRFServer: %v", err)
	}

	_, blinded, err := voprf.VOPRFBlind(voprf.Ristretto255Sha512, rand.Reader, []byte("input"))
	if err != nil {
		t.Fatalf("VOPRFBlind: %v", err)
	}

	_, proof, err := server.BlindEvaluate(rand.Reader, blinded)
	if err != nil {
		t.Fatalf("BlindEvaluate: %v", err)
	}

	decoded, err := voprf.DecodeProof(voprf.Ristretto255Sha512, proof.Encode())
	if err != nil {
		t.Fatalf("DecodeProof: %v", err)
	}

	if !bytes.Equal(decoded.Encode(), proof.Encode()) {
		t.Fatal("decoded proof does not round-trip")
	}
}

func TestDecodeProof_RejectsWrongLength(t *testing.T) {
	if _, err := voprf.DecodeProof(voprf.Ristretto255Sha512, []byte{0x01, 0x02, 0x03}); !errors.Is(err, voprf.ErrFromRepr) {
		t.Fatalf("got %v, want %v", err, voprf.ErrFromRepr)
	}
}
