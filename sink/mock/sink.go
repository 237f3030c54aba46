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


// Package mock provides a test double for the sink.Sink interface.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/rodeoai/chute/core"
	"github.com/rodeoai/chute/sink"
)

// MockSink is a test double for sink.Sink.
// It allows custom behavior injection via function fields.
type MockSink struct {
	// PushFunc is called by Push if set.
	// If nil, every record is reported as successfully pushed.
	PushFunc func(ctx context.Context, result *core.ExtractionResult) ([]core.RecordStatus, error)

	mu        sync.Mutex
	callCount int
	pushed    []*core.ExtractionResult
}

var _ sink.Sink = (*MockSink)(nil)

// NewMockSink creates a mock sink with default all-success behavior.
// Note: Returns concrete type to allow test assertions via CallCount and
// Pushed.
func NewMockSink() *MockSink {
	return &MockSink{}
}

// WithPushFunc sets the behavior of Push and returns the mock for chaining.
func (m *MockSink) WithPushFunc(fn func(ctx context.Context, result *core.ExtractionResult) ([]core.RecordStatus, error)) *MockSink {
	m.PushFunc = fn
	return m
}

// Push records the call and returns the injected behavior's result, or one
// success status per prediction and result record.
func (m *MockSink) Push(ctx context.Context, result *core.ExtractionResult) ([]core.RecordStatus, error) {
	m.mu.Lock()
	m.callCount++
	m.pushed = append(m.pushed, result)
	m.mu.Unlock()

	if m.PushFunc != nil {
		return m.PushFunc(ctx, result)
	}
	if result == nil {
		return nil, nil
	}

	var statuses []core.RecordStatus
	for i, p := range result.Predictions {
		statuses = append(statuses, core.RecordStatus{
			Kind:   "prediction",
			Key:    fmt.Sprintf("%s - %s (#%d)", p.EventName, p.RiderName, i),
			Status: "success",
		})
	}
	for i, r := range result.Results {
		statuses = append(statuses, core.RecordStatus{
			Kind:   "result",
			Key:    fmt.Sprintf("%s - %s (#%d)", r.EventName, r.RiderName, i),
			Status: "success",
		})
	}
	return statuses, nil
}

// CallCount returns the number of times Push was called.
func (m *MockSink) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Pushed returns the results passed to Push, in call order.
func (m *MockSink) Pushed() []*core.ExtractionResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*core.ExtractionResult, len(m.pushed))
	copy(out, m.pushed)
	return out
}

// Reset clears recorded calls and injected behavior.
func (m *MockSink) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.pushed = nil
	m.PushFunc = nil
}
