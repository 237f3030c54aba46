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
	"errors"
	"testing"
)

func TestHashBytes_Deterministic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"simple content", []byte("event,rider,score")},
		{"empty content", []byte{}},
		{"binary content", []byte{0x00, 0xFF, 0x10, 0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp1 := HashBytes(tt.data)
			fp2 := HashBytes(tt.data)

			if fp1 != fp2 {
				t.Errorf("HashBytes() produced different fingerprints for same content: %s vs %s", fp1, fp2)
			}
		})
	}
}

func TestHashBytes_Different(t *testing.T) {
	fp1 := HashBytes([]byte("results_2024.csv contents"))
	fp2 := HashBytes([]byte("results_2025.csv contents"))

	if fp1 == fp2 {
		t.Error("HashBytes() produced same fingerprint for different content")
	}
}

func TestFingerprint_HexRoundTrip(t *testing.T) {
	fp := HashBytes([]byte("round trip"))

	parsed, err := ParseFingerprint(fp.Hex())
	if err != nil {
		t.Fatalf("ParseFingerprint() error: %v", err)
	}
	if parsed != fp {
		t.Errorf("ParseFingerprint(Hex()) = %s, want %s", parsed, fp)
	}
}

func TestParseFingerprint_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"not hex", "zzzz"},
		{"wrong length", "deadbeef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFingerprint(tt.input)
			if !errors.Is(err, ErrInvalidFingerprint) {
				t.Errorf("ParseFingerprint(%q) error = %v, want ErrInvalidFingerprint", tt.input, err)
			}
		})
	}
}

func TestFingerprint_IsZero(t *testing.T) {
	var zero Fingerprint
	if !zero.IsZero() {
		t.Error("zero fingerprint should report IsZero")
	}

	fp := HashBytes([]byte("content"))
	if fp.IsZero() {
		t.Error("computed fingerprint should not report IsZero")
	}
}
