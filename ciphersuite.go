// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package voprf implements the Oblivious, Verifiable, and Partially-Oblivious
// Pseudorandom Functions defined in RFC 9497 (OPRF, VOPRF, POPRF), over the
// prime-order group and hash-function abstractions of github.com/bytemare/ecc
// and github.com/bytemare/hash. It has no notion of network transport,
// sessions, or long-term key storage: callers blind, evaluate, and finalize
// in-process, and are responsible for moving the resulting wire values
// between client and server themselves.
package voprf

import (
	"github.com/bytemare/ecc"
	"github.com/bytemare/hash"
)

// maxIDLength is RFC 9497's upper bound on a CipherSuite Id: 65,535 minus the
// bytes CreateContextString and ComputeComposites add around it with 2-byte
// I2OSP length prefixes.
const maxIDLength = 65_521

// ExpandMsg identifies the RFC 9380 expand_message variant a CipherSuite's
// hash-to-curve and hash-to-scalar calls use internally. It is carried here
// for fidelity with RFC 9497's cipher suite table even though
// github.com/bytemare/ecc performs the expansion itself and never asks the
// caller to pick one explicitly.
type ExpandMsg byte

const (
	// ExpandMsgXMD is expand_message_xmd, built on a fixed-output hash
	// (used by the three NIST-curve suites and Ristretto255).
	ExpandMsgXMD ExpandMsg = iota

	// ExpandMsgXOF is expand_message_xof, built on an extendable-output
	// function (used by the Decaf448 suite, over SHAKE-256).
	ExpandMsgXOF
)

// Id names a CipherSuite, following RFC 9497's contextString construction.
// An Id longer than 65,521 bytes cannot be used: see maxIDLength.
type Id string

// CipherSuite binds together the prime-order group, the fixed-output hash
// function, the expand_message variant, and the textual identifier that
// RFC 9497 requires every OPRF/VOPRF/POPRF operation to be parameterized by.
// A CipherSuite value is immutable once constructed and safe to share across
// goroutines: every operation in this package takes it by value or pointer
// and never mutates it.
type CipherSuite struct {
	id        Id
	group     ecc.Group
	hash      hash.Hashing
	expandMsg ExpandMsg
}

// NewCipherSuite validates id and returns a CipherSuite bound to group,
// h, and expandMsg. Used to register non-standard suites; prefer the five
// package-level suites below for interoperability with RFC 9497 peers.
func NewCipherSuite(id Id, group ecc.Group, h hash.Hashing, expandMsg ExpandMsg) (CipherSuite, error) {
	if len(id) == 0 || len(id) > maxIDLength {
		return CipherSuite{}, ErrInvalidCipherSuite
	}

	if !group.Available() {
		return CipherSuite{}, ErrInvalidCipherSuite
	}

	return CipherSuite{id: id, group: group, hash: h, expandMsg: expandMsg}, nil
}

// Id returns the cipher suite's textual identifier.
func (c CipherSuite) Id() Id { return c.id }

// Group returns the underlying prime-order group.
func (c CipherSuite) Group() ecc.Group { return c.group }

// Hash returns the cipher suite's fixed-output hash function identifier.
func (c CipherSuite) Hash() hash.Hashing { return c.hash }

// ExpandMsg returns the RFC 9380 expand_message variant this suite uses.
func (c CipherSuite) ExpandMsg() ExpandMsg { return c.expandMsg }

// valid reports whether c was constructed through NewCipherSuite or one of
// the package-level suite values, rather than left as a zero CipherSuite{}.
func (c CipherSuite) valid() bool {
	return len(c.id) != 0 && len(c.id) <= maxIDLength && c.group.Available()
}

// hashSum hashes the concatenation of data under the cipher suite's fixed
// fixed-output hash function.
func (c CipherSuite) hashSum(data ...[]byte) []byte {
	return c.hash.Get().Hash(data...)
}

// The five standard RFC 9497 cipher suites (section 4).
var (
	// P256Sha256 pairs NIST P-256 with SHA-256 and expand_message_xmd.
	P256Sha256 = CipherSuite{
		id:        "P256-SHA256",
		group:     ecc.P256Sha256,
		hash:      hash.SHA256,
		expandMsg: ExpandMsgXMD,
	}

	// P384Sha384 pairs NIST P-384 with SHA-384 and expand_message_xmd.
	P384Sha384 = CipherSuite{
		id:        "P384-SHA384",
		group:     ecc.P384Sha384,
		hash:      hash.SHA384,
		expandMsg: ExpandMsgXMD,
	}

	// P521Sha512 pairs NIST P-521 with SHA-512 and expand_message_xmd.
	P521Sha512 = CipherSuite{
		id:        "P521-SHA512",
		group:     ecc.P521Sha512,
		hash:      hash.SHA512,
		expandMsg: ExpandMsgXMD,
	}

	// Ristretto255Sha512 pairs ristretto255 with SHA-512 and
	// expand_message_xmd.
	Ristretto255Sha512 = CipherSuite{
		id:        "ristretto255-SHA512",
		group:     ecc.Ristretto255Sha512,
		hash:      hash.SHA512,
		expandMsg: ExpandMsgXMD,
	}

	// Decaf448Shake256 pairs decaf448 with SHAKE-256 and expand_message_xof.
	Decaf448Shake256 = CipherSuite{
		id:        "decaf448-SHAKE256",
		group:     ecc.Decaf448Shake256,
		hash:      hash.SHAKE256,
		expandMsg: ExpandMsgXOF,
	}
)
