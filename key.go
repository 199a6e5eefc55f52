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

// maxInfoLength is RFC 9497's limit on a POPRF Info string.
const maxInfoLength = 65_535

// Info is an opaque, public byte string the client and server agree on out
// of band before a POPRF evaluation. It is folded into the server's tweaked
// key and into every transcript hash of that evaluation; anything longer
// than 65,535 bytes cannot be length-prefixed by the wire format and is
// rejected at construction.
type Info []byte

// NewInfo validates b and returns it as an Info, or ErrInfoLength.
func NewInfo(b []byte) (Info, error) {
	if len(b) > maxInfoLength {
		return nil, ErrInfoLength
	}

	return Info(b), nil
}

// SecretKey is an RFC 9497 private key: a non-zero scalar of the cipher
// suite's group.
type SecretKey struct {
	scalar *ecc.Scalar
}

// PublicKey is an RFC 9497 public key: a non-identity element of the cipher
// suite's group.
type PublicKey struct {
	element *ecc.Element
}

// KeyPair is a matched SecretKey and PublicKey.
type KeyPair struct {
	Secret SecretKey
	Public PublicKey
}

// Scalar returns the underlying non-zero scalar.
func (k SecretKey) Scalar() *ecc.Scalar { return k.scalar }

// Encode serializes the secret key to its fixed-length group encoding.
func (k SecretKey) Encode() []byte { return k.scalar.Encode() }

// Element returns the underlying non-identity element.
func (k PublicKey) Element() *ecc.Element { return k.element }

// Encode serializes the public key to its fixed-length group encoding.
func (k PublicKey) Encode() []byte { return k.element.Encode() }

// DecodeSecretKey decodes b as a SecretKey of suite's group. Rejects the
// zero scalar and malformed encodings.
func DecodeSecretKey(suite CipherSuite, b []byte) (SecretKey, error) {
	s := suite.group.NewScalar()
	if err := s.Decode(b); err != nil {
		return SecretKey{}, ErrFromRepr
	}

	if s.IsZero() {
		return SecretKey{}, ErrInvalidInput
	}

	return SecretKey{scalar: s}, nil
}

// DecodePublicKey decodes b as a PublicKey of suite's group. Rejects the
// identity element and malformed encodings.
func DecodePublicKey(suite CipherSuite, b []byte) (PublicKey, error) {
	e := suite.group.NewElement()
	if err := e.Decode(b); err != nil {
		return PublicKey{}, ErrFromRepr
	}

	if e.IsIdentity() {
		return PublicKey{}, ErrInvalidInput
	}

	return PublicKey{element: e}, nil
}

// GenerateKeyPair implements RFC 9497's GenerateKeyPair: a fresh, uniformly
// random private key and its corresponding public key.
func GenerateKeyPair(suite CipherSuite, rng io.Reader) (KeyPair, error) {
	sk, err := igroup.RandomNonZeroScalar(suite.group, rng)
	if err != nil {
		return KeyPair{}, wrapRandom(err)
	}

	pk := suite.group.Base().Multiply(sk.Scalar)

	return KeyPair{
		Secret: SecretKey{scalar: sk.Scalar},
		Public: PublicKey{element: pk},
	}, nil
}

// FromSecretKey derives the KeyPair a SecretKey belongs to.
func FromSecretKey(suite CipherSuite, sk SecretKey) KeyPair {
	pk := suite.group.Base().Multiply(sk.scalar.Copy())

	return KeyPair{Secret: sk, Public: PublicKey{element: pk}}
}

// DeriveKeyPair implements RFC 9497's DeriveKeyPair (section 3.2.1): a
// deterministic key pair derived from a 32-byte (or longer) seed and
// optional key info, suitable for reproducible server key material. mode
// selects which mode's context string binds the derivation, matching
// whichever façade (OPRF/VOPRF/POPRF) the resulting key will be used with.
func DeriveKeyPair(suite CipherSuite, mode Mode, seed, keyInfo []byte) (KeyPair, error) {
	if len(keyInfo) > maxInfoLength {
		return KeyPair{}, ErrInfoLength
	}

	context := core.ContextString(byte(mode), string(suite.id))
	dkpDST := core.DeriveKeyPairDST(context)

	derive := make([]byte, 0, len(seed)+2+len(keyInfo)+1)
	derive = append(derive, seed...)
	derive = append(derive, core.I2OSP(len(keyInfo), 2)...)
	derive = append(derive, keyInfo...)
	derive = append(derive, 0)

	for counter := 0; counter <= 0xff; counter++ {
		derive[len(derive)-1] = byte(counter)

		s := suite.group.HashToScalar(derive, dkpDST)
		if !s.IsZero() {
			sk := SecretKey{scalar: s}
			return FromSecretKey(suite, sk), nil
		}
	}

	return KeyPair{}, ErrDeriveKeyPair
}
