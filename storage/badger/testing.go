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


package badger

import "github.com/rodeoai/chute/storage"

// Stores bundles the Badger-backed store implementations sharing one backend.
type Stores struct {
	Backend *Backend
	Index   storage.DuplicateIndex
	Queue   storage.ReviewQueue
}

// Close releases the queue sequence and closes the underlying database.
func (s *Stores) Close() error {
	if err := s.Queue.Close(); err != nil {
		s.Backend.Close()
		return err
	}
	return s.Backend.Close()
}

// NewStores opens a Badger database at filePath and wires the duplicate
// index and review queue on top of it.
func NewStores(filePath string, opts ...ReviewQueueOption) (*Stores, error) {
	return newStores(filePath, false, opts...)
}

// NewMemoryStores creates in-memory stores for testing.
func NewMemoryStores(opts ...ReviewQueueOption) (*Stores, error) {
	return newStores("", true, opts...)
}

func newStores(filePath string, inMemory bool, opts ...ReviewQueueOption) (*Stores, error) {
	backend, err := OpenBackend(filePath, inMemory)
	if err != nil {
		return nil, err
	}

	queue, err := NewReviewQueue(backend, opts...)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Stores{
		Backend: backend,
		Index:   NewDuplicateIndex(backend),
		Queue:   queue,
	}, nil
}
