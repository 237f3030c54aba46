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


package storage

import (
	"context"

	"github.com/rodeoai/chute/core"
)

// DuplicateIndex tracks fingerprints that have been seen before.
// File and data fingerprints live in independent namespaces.
// Implementations must be thread-safe and support concurrent access.
type DuplicateIndex interface {
	// SeenFile reports whether the file fingerprint has been recorded.
	// It never mutates the index.
	SeenFile(ctx context.Context, fp core.Fingerprint) (bool, error)

	// RecordFile records the file fingerprint. Idempotent.
	RecordFile(ctx context.Context, fp core.Fingerprint) error

	// ObserveFile atomically checks and records the file fingerprint.
	// Returns true if the fingerprint had been recorded before this call.
	// Exactly one of any set of concurrent callers for the same
	// fingerprint observes false.
	ObserveFile(ctx context.Context, fp core.Fingerprint) (bool, error)

	// SeenData reports whether the data fingerprint has been recorded.
	// It never mutates the index.
	SeenData(ctx context.Context, fp core.Fingerprint) (bool, error)

	// RecordData records the data fingerprint. Idempotent.
	RecordData(ctx context.Context, fp core.Fingerprint) error

	// ObserveData atomically checks and records the data fingerprint.
	// Same contract as ObserveFile, over the data namespace.
	ObserveData(ctx context.Context, fp core.Fingerprint) (bool, error)

	// Close releases resources held by the index.
	Close() error
}

// ReviewQueue is a durable FIFO log of items awaiting human review.
// Implementations must be thread-safe; concurrent appends must not lose
// or corrupt entries.
type ReviewQueue interface {
	// Enqueue appends an entry to the tail of the queue.
	// Generates the entry ID and stamps AddedAt when unset, and defaults
	// Status to pending. Returns the stored entry.
	// Returns ErrQueueFull when an operational cap is configured and
	// reached; entries are never silently dropped.
	Enqueue(ctx context.Context, entry *core.ReviewQueueEntry) (*core.ReviewQueueEntry, error)

	// List returns a snapshot of all entries in insertion order.
	// The snapshot is independent of later queue mutations.
	List(ctx context.Context) ([]*core.ReviewQueueEntry, error)

	// ListPending returns a snapshot of entries still awaiting review,
	// in insertion order.
	ListPending(ctx context.Context) ([]*core.ReviewQueueEntry, error)

	// Resolve marks the oldest pending entry for the file fingerprint as
	// resolved. Resolution is one-directional and idempotent: resolving
	// an already-resolved entry is a no-op.
	// Returns ErrNotFound when no entry exists for the fingerprint.
	Resolve(ctx context.Context, fp core.Fingerprint) error

	// Close releases resources held by the queue.
	Close() error
}
