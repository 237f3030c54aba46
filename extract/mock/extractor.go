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


// Package mock provides a test double for the extract.Extractor interface.
package mock

import (
	"context"
	"sync"

	"github.com/rodeoai/chute/core"
	"github.com/rodeoai/chute/extract"
)

// MockExtractor is a test double for extract.Extractor.
// It allows custom behavior injection via function fields.
type MockExtractor struct {
	// ExtractFunc is called by Extract if set.
	// If nil, a single-prediction result is returned.
	ExtractFunc func(ctx context.Context, raw []byte, filename string) (*core.ExtractionResult, error)

	mu        sync.Mutex
	callCount int
}

var _ extract.Extractor = (*MockExtractor)(nil)

// NewMockExtractor creates a mock extractor with default behavior.
// Note: Returns concrete type to allow test assertions via CallCount.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

// WithExtractFunc sets the behavior of Extract and returns the mock for
// chaining.
func (m *MockExtractor) WithExtractFunc(fn func(ctx context.Context, raw []byte, filename string) (*core.ExtractionResult, error)) *MockExtractor {
	m.ExtractFunc = fn
	return m
}

// Extract returns the injected behavior's result, or a default
// single-prediction result derived from the filename.
func (m *MockExtractor) Extract(ctx context.Context, raw []byte, filename string) (*core.ExtractionResult, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, raw, filename)
	}

	return &core.ExtractionResult{
		Predictions: []core.Prediction{
			{
				EventName:      "Mock Event",
				RiderName:      "Mock Rider",
				PredictionType: "winner",
				PredictedValue: string(raw),
				Confidence:     80,
			},
		},
		Source:     filename,
		Confidence: 90,
	}, nil
}

// CallCount returns the number of times Extract was called.
func (m *MockExtractor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockExtractor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.ExtractFunc = nil
}
