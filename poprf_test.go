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

func TestPOPRF_EndToEnd(t *testing.T) {
	for _, suite := range standardSuites {
		t.Run(string(suite.Id()), func(t *testing.T) {
			info := voprf.Info("shared context info")

			server, err := voprf.NewPOPRFServer(suite, rand.Reader, info)
			if err != nil {
				t.Fatalf("NewPOPRFServer: %v", err)
			}

			input := []byte("a password")

			client, blinded, err := voprf.POPRFBlind(suite, rand.Reader, input)
			if err != nil {
				t.Fatalf("POPRFBlind: %v", err)
			}

			eval, proof, err := server.BlindEvaluate(rand.Reader, blinded)
			if err != nil {
				t.Fatalf("BlindEvaluate: %v", err)
			}

			output, err := client.Finalize(server.PublicKey(), input, info, eval, proof)
			if err != nil {
				t.Fatalf("Finalize: %v", err)
			}

			if len(output) == 0 {
				t.Fatal("got an empty output")
			}
		})
	}
}

func TestPOPRF_FinalizeMatchesDirectEvaluate(t *testing.T) {
	info := voprf.Info("shared context info")

	server, err := voprf.NewPOPRFServer(voprf.Ristretto255Sha512, rand.Reader, info)
	if err != nil {
		t.Fatalf("NewPOPRFServer: %v", err)
	}

	input := []byte("a password")

	client, blinded, err := voprf.POPRFBlind(voprf.Ristretto255Sha512, rand.Reader, input)
	if err != nil {
		t.Fatalf("POPRFBlind: %v", err)
	}

	eval, proof, err := server.BlindEvaluate(rand.Reader, blinded)
	if err != nil {
		t.Fatalf("BlindEvaluate: %v", err)
	}

	viaProtocol, err := client.Finalize(server.PublicKey(), input, info, eval, proof)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	viaShortcut, err := server.Evaluate(input)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if !bytes.Equal(viaProtocol, viaShortcut) {
		t.Fatal("the blind/evaluate/finalize protocol and the direct Evaluate shortcut disagree")
	}
}

// TestPOPRF_EmptyInfoProducesAUsableTweakedKey is the end-to-end analogue of
// the FinalizeHash regression test in internal/core: a genuinely empty Info
// is a legal, distinct POPRF context, not the same thing as OPRF's absent
// info field, and a full round trip under it must still succeed.
func TestPOPRF_EmptyInfoProducesAUsableTweakedKey(t *testing.T) {
	server, err := voprf.NewPOPRFServer(voprf.Ristretto255Sha512, rand.Reader, voprf.Info{})
	if err != nil {
		t.Fatalf("NewPOPRFServer with empty info: %v", err)
	}

	input := []byte("a password")

	client, blinded, err := voprf.POPRFBlind(voprf.Ristretto255Sha512, rand.Reader, input)
	if err != nil {
		t.Fatalf("POPRFBlind: %v", err)
	}

	eval, proof, err := server.BlindEvaluate(rand.Reader, blinded)
	if err != nil {
		t.Fatalf("BlindEvaluate: %v", err)
	}

	if _, err := client.Finalize(server.PublicKey(), input, voprf.Info{}, eval, proof); err != nil {
		t.Fatalf("Finalize with empty info: %v", err)
	}
}

func TestPOPRF_FinalizeRejectsWrongInfo(t *testing.T) {
	server, err := voprf.NewPOPRFServer(voprf.Ristretto255Sha512, rand.Reader, voprf.Info("info-a"))
	if err != nil {
		t.Fatalf("NewPOPRFServer: %v", err)
	}

	input := []byte("a password")

	client, blinded, err := voprf.POPRFBlind(voprf.Ristretto255Sha512, rand.Reader, input)
	if err != nil {
		t.Fatalf("POPRFBlind: %v", err)
	}

	eval, proof, err := server.BlindEvaluate(rand.Reader, blinded)
	if err != nil {
		t.Fatalf("BlindEvaluate: %v", err)
	}

	if _, err := client.Finalize(server.PublicKey(), input, voprf.Info("info-b"), eval, proof); !errors.Is(err, voprf.ErrProof) {
		t.Fatalf("got %v, want %v", err, voprf.ErrProof)
	}
}

func TestPOPRF_FinalizeRejectsWrongPublicKey(t *testing.T) {
	info := voprf.Info("shared context info")

	server, err := voprf.NewPOPRFServer(voprf.Ristretto255Sha512, rand.Reader, info)
	if err != nil {
		t.Fatalf("NewPOPRFServer: %v", err)
	}

	other, err := voprf.NewPOPRFServer(voprf.Ristretto255Sha512, rand.Reader, info)
	if err != nil {
		t.Fatalf("NewPOPRFServer: %v", err)
	}

	input := []byte("a password")

	client, blinded, err := voprf.POPRFBlind(voprf.Ristretto255Sha512, rand.Reader, input)
	if err != nil {
		t.Fatalf("POPRFBlind: %v", err)
	}

	eval, proof, err := server.BlindEvaluate(rand.Reader, blinded)
	if err != nil {
		t.Fatalf("BlindEvaluate: %v", err)
	}

	if _, err := client.Finalize(other.PublicKey(), input, info, eval, proof); !errors.Is(err, voprf.ErrProof) {
		t.Fatalf("got %v, want %v", err, voprf.ErrProof)
	}
}

func TestPOPRF_BatchMatchesIndividualCalls(t *testing.T) {
	info := voprf.Info("shared context info")

	server, err := voprf.NewPOPRFServer(voprf.Ristretto255Sha512, rand.Reader, info)
	if err != nil {
		t.Fatalf("NewPOPRFServer: %v", err)
	}

	inputs := [][]byte{[]byte("alpha"), []byte("beta"), []byte("gamma")}

	clients, blinded, err := voprf.POPRFBlindBatch(voprf.Ristretto255Sha512, rand.Reader, inputs)
	if err != nil {
		t.Fatalf("POPRFBlindBatch: %v", err)
	}

	evals, proof, err := server.BlindEvaluateBatch(rand.Reader, blinded)
	if err != nil {
		t.Fatalf("BlindEvaluateBatch: %v", err)
	}

	batched, err := voprf.POPRFFinalizeBatch(voprf.Ristretto255Sha512, server.PublicKey(), info, clients, inputs, evals, proof)
	if err != nil {
		t.Fatalf("POPRFFinalizeBatch: %v", err)
	}

	for i, input := range inputs {
		individual, err := clients[i].Finalize(server.PublicKey(), input, info, evals[i], proof)
		if err != nil {
			t.Fatalf("Finalize(%d): %v", i, err)
		}

		if !bytes.Equal(individual, batched[i]) {
			t.Errorf("index %d: batched finalize diverged from individual finalize", i)
		}
	}
}

func TestPOPRF_ServerFromSeedDeterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{0x33}, 32)
	keyInfo := []byte("server key info")
	info := voprf.Info("shared context info")

	a, err := voprf.POPRFServerFromSeed(voprf.Ristretto255Sha512, seed, keyInfo, info)
	if err != nil {
		t.Fatalf("POPRFServerFromSeed: %v", err)
	}

	b, err := voprf.POPRFServerFromSeed(voprf.Ristretto255Sha512, seed, keyInfo, info)
	if err != nil {
		t.Fatalf("POPRFServerFromSeed: %v", err)
	}

	if !bytes.Equal(a.PublicKey().Encode(), b.PublicKey().Encode()) {
		t.Fatal("POPRFServerFromSeed is not deterministic")
	}
}

func TestPOPRF_RejectsOverlongInfo(t *testing.T) {
	server, err := voprf.NewPOPRFServer(voprf.Ristretto255Sha512, rand.Reader, nil)
	if err != nil {
		t.Fatalf("NewPOPRFServer: %v", err)
	}

	input := []byte("a password")

	client, blinded, err := voprf.POPRFBlind(voprf.Ristretto255Sha512, rand.Reader, input)
	if err != nil {
		t.Fatalf("POPRFBlind: %v", err)
	}

	eval, proof, err := server.BlindEvaluate(rand.Reader, blinded)
	if err != nil {
		t.Fatalf("BlindEvaluate: %v", err)
	}

	overlong := bytes.Repeat([]byte{0x00}, 70_000)

	if _, err := client.Finalize(server.PublicKey(), input, overlong, eval, proof); !errors.Is(err, voprf.ErrInfoLength) {
		t.Fatalf("got %v, want %v", err, voprf.ErrInfoLength)
	}
}

func TestPOPRF_BlindRejectsOverlongInput(t *testing.T) {
	overlong := bytes.Repeat([]byte{0x00}, 70_000)

	if _, _, err := voprf.POPRFBlind(voprf.Ristretto255Sha512, rand.Reader, overlong); !errors.Is(err, voprf.ErrInputLength) {
		t.Fatalf("got %v, want %v", err, voprf.ErrInputLength)
	}
}

func TestPOPRF_EvaluateRejectsOverlongInput(t *testing.T) {
	server, err := voprf.NewPOPRFServer(voprf.Ristretto255Sha512, rand.Reader, nil)
	if err != nil {
		t.Fatalf("NewPOPRFServer: %v", err)
	}

	overlong := bytes.Repeat([]byte{0x00}, 70_000)

	if _, err := server.Evaluate(overlong); !errors.Is(err, voprf.ErrInputLength) {
		t.Fatalf("got %v, want %v", err, voprf.ErrInputLength)
	}
}

func TestPOPRF_FinalizeRejectsOverlongInput(t *testing.T) {
	info := voprf.Info("shared context info")

	server, err := voprf.NewPOPRFServer(voprf.Ristretto255Sha512, rand.Reader, info)
	if err != nil {
		t.Fatalf("NewPOPRFServer: %v", err)
	}

	client, blinded, err := voprf.POPRFBlind(voprf.Ristretto255Sha512, rand.Reader, []byte("input"))
	if err != nil {
		t.Fatalf("POPRFBlind: %v", err)
	}

	eval, proof, err := server.BlindEvaluate(rand.Reader, blinded)
	if err != nil {
		t.Fatalf("BlindEvaluate: %v", err)
	}

	overlong := bytes.Repeat([]byte{0x00}, 70_000)

	if _, err := client.Finalize(server.PublicKey(), overlong, info, eval, proof); !errors.Is(err, voprf.ErrInputLength) {
		t.Fatalf("got %v, want %v", err, voprf.ErrInputLength)
	}
}

func TestPOPRF_RejectsOversizedBatch(t *testing.T) {
	server, err := voprf.NewPOPRFServer(voprf.Ristretto255Sha512, rand.Reader, nil)
	if err != nil {
		t.Fatalf("NewPOPRFServer: %v", err)
	}

	oversized := make([][]byte, 65_536)

	if _, _, err := voprf.POPRFBlindBatch(voprf.Ristretto255Sha512, rand.Reader, oversized); !errors.Is(err, voprf.ErrBatch) {
		t.Fatalf("POPRFBlindBatch: got %v, want %v", err, voprf.ErrBatch)
	}

	if _, _, err := server.BlindEvaluateBatch(rand.Reader, make([]voprf.BlindedElement, 65_536)); !errors.Is(err, voprf.ErrBatch) {
		t.Fatalf("BlindEvaluateBatch: got %v, want %v", err, voprf.ErrBatch)
	}

	if _, err := server.EvaluateBatch(oversized); !errors.Is(err, voprf.ErrBatch) {
		t.Fatalf("EvaluateBatch: got %v, want %v", err, voprf.ErrBatch)
	}
}

func TestPOPRF_EmptyBatchCallsFail(t *testing.T) {
	server, err := voprf.NewPOPRFServer(voprf.Ristretto255Sha512, rand.Reader, nil)
	if err != nil {
		t.Fatalf("NewPOPRFServer: %v", err)
	}

	if _, _, err := server.BlindEvaluateBatch(rand.Reader, nil); !errors.Is(err, voprf.ErrBatch) {
		t.Fatalf("got %v, want %v", err, voprf.ErrBatch)
	}

	if _, err := server.EvaluateBatch(nil); !errors.Is(err, voprf.ErrBatch) {
		t.Fatalf("got %v, want %v", err, voprf.ErrBatch)
	}
}
