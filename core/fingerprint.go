// Copyright 2025 RodeoAI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"encoding/hex"
	"fmt"

	"github.com/go-crypt/x/blake2b"
)

// FingerprintSize is the digest length in bytes (BLAKE2b-256).
const FingerprintSize = 32

// Fingerprint is a fixed-size cryptographic digest used as a proxy for
// exact content identity.
type Fingerprint [FingerprintSize]byte

// HashBytes computes the fingerprint of raw file content.
// It is deterministic and collision-resistant; identical bytes always
// produce identical fingerprints.
func HashBytes(data []byte) Fingerprint {
	h, _ := blake2b.New(FingerprintSize, nil)
	h.Write(data)
	var fp Fingerprint
	copy(fp[:], h.Sum(nil))
	return fp
}

// IsZero reports whether the fingerprint is the zero value.
func (f Fingerprint) IsZero() bool {
	return f == Fingerprint{}
}

// Hex returns the lower-case hexadecimal form of the fingerprint.
func (f Fingerprint) Hex() string {
	return hex.EncodeToString(f[:])
}

// String implements fmt.Stringer using the hexadecimal form.
func (f Fingerprint) String() string {
	return f.Hex()
}

// ParseFingerprint decodes a hexadecimal fingerprint produced by Hex.
func ParseFingerprint(s string) (Fingerprint, error) {
	var fp Fingerprint
	raw, err := hex.DecodeString(s)
	if err != nil {
		return fp, fmt.Errorf("%w: %v", ErrInvalidFingerprint, err)
	}
	if len(raw) != FingerprintSize {
		return fp, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidFingerprint, len(raw), FingerprintSize)
	}
	copy(fp[:], raw)
	return fp, nil
}
