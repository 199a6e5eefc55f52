// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package core implements the protocol-level primitives shared by every
// RFC 9497 mode: the context string, the composite-element computation that
// feeds both the discrete-log-equality proof and its verification, the proof
// itself, and the length-framed transcript hash Finalize and Evaluate both
// reduce to. Façade packages call into here; this package never touches the
// wire-format or client/server bookkeeping types.
package core

import (
	"errors"
	"io"

	"github.com/bytemare/ecc"

	"github.com/bytemare/voprf/internal/group"
)

// ErrBatch indicates mismatched, empty, or oversized (more than
// MaxBatchSize items) batch input slices.
var ErrBatch = errors.New("core: mismatched or empty batch")

// ErrProof indicates a DLEQ proof failed verification.
var ErrProof = errors.New("core: invalid proof")

// ErrInvalidInput indicates an operation produced the group identity where
// RFC 9497 requires rejecting it.
var ErrInvalidInput = errors.New("core: invalid input")

// MaxInputLength and MaxBatchSize bound the two places a caller-controlled
// count flows into a two-byte I2OSP framing: a single length-prefixed byte
// string (section 3.1's Input) and the per-item index ComputeComposites
// folds into its hash (section 2.2.1). Both top out at what two bytes can
// express; exceeding either must be rejected by callers before it reaches
// I2OSP, which panics rather than truncating silently.
const (
	MaxInputLength = 65_535
	MaxBatchSize   = 65_535
)

// Domain-separation label prefixes from RFC 9497 section 4 (Table 2) and the
// composite/proof derivations of section 2.2.
const (
	labelHashToGroup  = "HashToGroup-"
	labelHashToScalar = "HashToScalar-"
	labelDeriveKeyPair = "DeriveKeyPair"
	labelSeed          = "Seed-"
	labelComposite     = "Composite"
	labelChallenge     = "Challenge"
	labelFinalize      = "Finalize"
)

// I2OSP encodes the non-negative integer x as a big-endian byte string of
// exactly length bytes. length must be large enough to hold x; this package
// only ever calls it with a length it controls (1 for Mode, 2 for lengths
// bounded by math.MaxUint16), so it panics rather than returning an error on
// misuse by its own callers.
func I2OSP(x, length int) []byte {
	out := make([]byte, length)

	for i := length - 1; i >= 0; i-- {
		out[i] = byte(x & 0xff)
		x >>= 8
	}

	if x != 0 {
		panic("core: I2OSP: integer too large for length")
	}

	return out
}

// ContextString builds RFC 9497's CreateContextString: "OPRFV1-" ||
// I2OSP(mode, 1) || "-" || id.
func ContextString(mode byte, id string) []byte {
	out := make([]byte, 0, 7+1+1+len(id))
	out = append(out, "OPRFV1-"...)
	out = append(out, I2OSP(int(mode), 1)...)
	out = append(out, '-')
	out = append(out, id...)

	return out
}

func dst(context []byte, label string) []byte {
	out := make([]byte, 0, len(label)+len(context))
	out = append(out, label...)
	out = append(out, context...)

	return out
}

// HashToGroupDST returns the DST for hash-to-curve calls under context.
func HashToGroupDST(context []byte) []byte { return dst(context, labelHashToGroup) }

// HashToScalarDST returns the default DST for hash-to-scalar calls under
// context. DeriveKeyPair uses its own label instead (see DeriveKeyPairDST).
func HashToScalarDST(context []byte) []byte { return dst(context, labelHashToScalar) }

// DeriveKeyPairDST returns the DST DeriveKeyPair's hash-to-scalar call uses.
func DeriveKeyPairDST(context []byte) []byte { return dst(context, labelDeriveKeyPair) }

// lengthPrefixed returns I2OSP_2(len(b)) || b. RFC 9497 frames every
// variable-length byte string this way before folding it into a hash.
func lengthPrefixed(b []byte) []byte {
	out := make([]byte, 0, 2+len(b))
	out = append(out, I2OSP(len(b), 2)...)
	out = append(out, b...)

	return out
}

// Composites holds the M and Z elements ComputeComposites (RFC 9497
// section 2.2.1) produces, and that GenerateProof/VerifyProof consume.
type Composites struct {
	M *ecc.Element
	Z *ecc.Element
}

// ComputeComposites implements both ComputeComposites (client side, k is
// nil and Z is a second linear combination over ds) and
// ComputeCompositesFast (server side, k is the evaluation key and Z = k*M is
// computed directly). Both paths need ds: every per-item weight hashes cs[i]
// and ds[i] together, so cs and ds must have the same, non-zero length.
func ComputeComposites(
	hashSum func(...[]byte) []byte,
	context []byte,
	k *ecc.Scalar,
	g ecc.Group,
	b *ecc.Element,
	cs []*ecc.Element,
	ds []*ecc.Element,
) (Composites, error) {
	n := len(cs)
	if n == 0 || n > MaxBatchSize || n != len(ds) {
		return Composites{}, ErrBatch
	}

	bRepr := b.Encode()
	seedDST := dst(context, labelSeed)
	seed := hashSum(lengthPrefixed(bRepr), lengthPrefixed(seedDST))

	scalars := make([]*ecc.Scalar, n)
	htsDST := HashToScalarDST(context)

	for i := 0; i < n; i++ {
		di := g.HashToScalar(
			concat(
				lengthPrefixed(seed),
				I2OSP(i, 2),
				lengthPrefixed(cs[i].Encode()),
				lengthPrefixed(ds[i].Encode()),
				[]byte(labelComposite),
			),
			htsDST,
		)
		di = group.MaybeHalve(di)
		scalars[i] = di
	}

	m, err := group.LinComb(g, scalars, cs)
	if err != nil {
		return Composites{}, err
	}

	if k != nil {
		z := m.Copy().Multiply(k)
		return Composites{M: m, Z: z}, nil
	}

	z, err := group.LinComb(g, scalars, ds)
	if err != nil {
		return Composites{}, err
	}

	return Composites{M: m, Z: z}, nil
}

// Concat concatenates parts into a single newly-allocated byte slice.
func Concat(parts ...[]byte) []byte {
	return concat(parts...)
}

func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}

	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}

// computeChallenge implements the shared compute_c helper: the hash that
// binds the public key B, the composites M and Z, and the proof's two
// commitments t2, t3 into a single scalar challenge.
func computeChallenge(
	g ecc.Group,
	context []byte,
	b, m, z, t2, t3 *ecc.Element,
) *ecc.Scalar {
	return g.HashToScalar(
		concat(
			lengthPrefixed(b.Encode()),
			lengthPrefixed(m.Encode()),
			lengthPrefixed(z.Encode()),
			lengthPrefixed(t2.Encode()),
			lengthPrefixed(t3.Encode()),
			[]byte(labelChallenge),
		),
		HashToScalarDST(context),
	)
}

// GenerateProof implements GenerateProof (RFC 9497 section 2.2.1): it
// proves, without revealing k, that composites.Z = k * composites.M and
// that b = k * G (b is the caller's public key in VOPRF, or the tweaked key
// in POPRF).
func GenerateProof(
	g ecc.Group,
	rng io.Reader,
	context []byte,
	k *ecc.Scalar,
	b *ecc.Element,
	composites Composites,
) (c, s *ecc.Scalar, err error) {
	r, err := group.RandomNonZeroScalar(g, rng)
	if err != nil {
		return nil, nil, err
	}

	t2 := g.Base().Multiply(group.MaybeHalve(r.Scalar))
	t3 := composites.M.Copy().Multiply(r.Scalar)

	c = computeChallenge(g, context, b, composites.M, composites.Z, t2, t3)
	s = r.Scalar.Copy().Subtract(c.Copy().Multiply(k))

	return c, s, nil
}

// VerifyProof implements VerifyProof (RFC 9497 section 2.2.2): it recomputes
// the commitments t2, t3 from the proof's (c, s) and checks the challenge
// hash matches.
func VerifyProof(
	g ecc.Group,
	context []byte,
	b *ecc.Element,
	composites Composites,
	c, s *ecc.Scalar,
) error {
	t2, err := group.LinComb(g, []*ecc.Scalar{group.MaybeHalve(s), group.MaybeHalve(c)}, []*ecc.Element{g.Base(), b})
	if err != nil {
		return err
	}

	t3, err := group.LinComb(g, []*ecc.Scalar{s, c}, []*ecc.Element{composites.M, composites.Z})
	if err != nil {
		return err
	}

	expected := computeChallenge(g, context, b, composites.M, composites.Z, t2, t3)
	if !expected.Equal(c) {
		return ErrProof
	}

	return nil
}

// BlindInput hashes input to a non-identity element of g under context, then
// multiplies it by a freshly sampled blinding scalar. This is the shared
// first half of Blind across all three modes; only the context string (via
// mode's byte in ContextString) differs between them.
func BlindInput(g ecc.Group, rng io.Reader, context, input []byte) (group.NonZeroScalar, *ecc.Element, error) {
	hashed, err := group.HashToNonIdentityElement(g, input, HashToGroupDST(context))
	if err != nil {
		return group.NonZeroScalar{}, nil, ErrInvalidInput
	}

	blind, err := group.RandomNonZeroScalar(g, rng)
	if err != nil {
		return group.NonZeroScalar{}, nil, err
	}

	blinded := hashed.Element.Copy().Multiply(blind.Scalar)

	return blind, blinded, nil
}

// UnblindBatch inverts every entry of blinds with a single batched field
// inversion and multiplies each inverse into the matching entry of
// evaluationElements. This is the shared second half of Finalize across all
// three modes: a POPRF server's tweaked key never appears here, since it was
// already folded into the evaluation element before the server returned it.
func UnblindBatch(blinds []*ecc.Scalar, evaluationElements []*ecc.Element) ([]*ecc.Element, error) {
	n := len(blinds)
	if n == 0 || n > MaxBatchSize || n != len(evaluationElements) {
		return nil, ErrBatch
	}

	inverted := make([]*ecc.Scalar, n)
	for i, b := range blinds {
		inverted[i] = b.Copy()
	}

	group.ScalarBatchInvert(inverted)

	out := make([]*ecc.Element, n)
	for i, e := range evaluationElements {
		out[i] = e.Copy().Multiply(group.MaybeHalve(inverted[i]))
	}

	return out, nil
}

// FinalizeHash implements the transcript hash shared by Finalize and
// Evaluate: H(len(input) || input || [len(info) || info] || len(element) ||
// element || "Finalize"). The info field is framed in iff withInfo is true
// (POPRF), regardless of whether info itself is empty — a zero-length POPRF
// Info still contributes its two-byte length prefix, which a nil-ness check
// on info alone cannot distinguish from "no info field at all" (OPRF/VOPRF).
func FinalizeHash(hashSum func(...[]byte) []byte, input []byte, withInfo bool, info []byte, element *ecc.Element) []byte {
	parts := make([][]byte, 0, 5)
	parts = append(parts, lengthPrefixed(input))

	if withInfo {
		parts = append(parts, lengthPrefixed(info))
	}

	parts = append(parts, lengthPrefixed(element.Encode()), []byte(labelFinalize))

	return hashSum(parts...)
}
