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

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/rodeoai/chute/core"
	"github.com/rodeoai/chute/storage"
)

// ReviewQueue implements storage.ReviewQueue for BadgerDB.
// Entries are keyed by a monotonic sequence so key order equals insertion
// order; a secondary index maps file fingerprints to entry sequences for
// resolution.
type ReviewQueue struct {
	backend *Backend
	idSeq   *badger.Sequence
	cap     int
	logger  *slog.Logger
}

var _ storage.ReviewQueue = (*ReviewQueue)(nil)

// ReviewQueueOption configures a ReviewQueue.
type ReviewQueueOption func(*ReviewQueue)

// WithQueueCap sets an operational cap on pending entries.
// When the cap is reached, Enqueue returns storage.ErrQueueFull and logs
// the overflow; entries are never silently dropped. Zero means uncapped.
func WithQueueCap(n int) ReviewQueueOption {
	return func(q *ReviewQueue) {
		if n < 0 {
			n = 0
		}
		q.cap = n
	}
}

// WithQueueLogger sets a custom logger. Default is slog.Default().
func WithQueueLogger(logger *slog.Logger) ReviewQueueOption {
	return func(q *ReviewQueue) {
		if logger == nil {
			logger = slog.Default()
		}
		q.logger = logger
	}
}

// NewReviewQueue creates a new ReviewQueue.
func NewReviewQueue(backend *Backend, opts ...ReviewQueueOption) (*ReviewQueue, error) {
	idSeq, err := backend.GetSequence(reviewEntrySeq)
	if err != nil {
		return nil, err
	}

	q := &ReviewQueue{
		backend: backend,
		idSeq:   idSeq,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q, nil
}

// Close releases the entry sequence.
func (q *ReviewQueue) Close() error {
	return q.idSeq.Release()
}

// Enqueue appends an entry to the tail of the queue.
func (q *ReviewQueue) Enqueue(ctx context.Context, entry *core.ReviewQueueEntry) (*core.ReviewQueueEntry, error) {
	if entry != nil {
		if entry.ID == uuid.Nil {
			entry.ID = uuid.New()
		}
		if entry.AddedAt.IsZero() {
			entry.AddedAt = time.Now().UTC()
		}
		if entry.Status == 0 {
			entry.Status = core.ReviewPending
		}
	}
	if err := core.ValidateReviewEntry(entry); err != nil {
		return nil, err
	}

	if q.cap > 0 {
		pending, err := q.countPending()
		if err != nil {
			return nil, err
		}
		if pending >= q.cap {
			q.logger.Warn("review queue is full, rejecting entry",
				"cap", q.cap,
				"filename", entry.Filename,
				"fingerprint", entry.FileFingerprint.Hex())
			return nil, storage.ErrQueueFull
		}
	}

	seq, err := q.nextSeq()
	if err != nil {
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		err := q.backend.WithTx(func(tx *badger.Txn) error {
			if err := tx.Set(makeReviewEntryKey(seq), storage.MarshalReviewEntry(entry)); err != nil {
				return err
			}
			if err := tx.Set(makeReviewFpKey(entry.FileFingerprint, seq), nil); err != nil {
				return err
			}
			return tx.Commit()
		}, true)
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return entry, nil
	}
}

// List returns a snapshot of all entries in insertion order.
func (q *ReviewQueue) List(ctx context.Context) ([]*core.ReviewQueueEntry, error) {
	return q.list(func(*core.ReviewQueueEntry) bool { return true })
}

// ListPending returns a snapshot of pending entries in insertion order.
func (q *ReviewQueue) ListPending(ctx context.Context) ([]*core.ReviewQueueEntry, error) {
	return q.list(func(e *core.ReviewQueueEntry) bool { return e.Status == core.ReviewPending })
}

// Resolve marks the oldest pending entry for the fingerprint as resolved.
func (q *ReviewQueue) Resolve(ctx context.Context, fp core.Fingerprint) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := q.resolveOnce(fp)
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		return err
	}
}

func (q *ReviewQueue) resolveOnce(fp core.Fingerprint) error {
	return q.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialReviewFpKey(fp)
		iter := tx.NewIterator(opts)

		var seqs []uint64
		for iter.Rewind(); iter.Valid(); iter.Next() {
			seqs = append(seqs, reviewSeqFromFpKey(iter.Item().Key()))
		}
		iter.Close()

		if len(seqs) == 0 {
			return storage.ErrNotFound
		}

		for _, seq := range seqs {
			key := makeReviewEntryKey(seq)
			entry, err := q.readEntry(tx, key)
			if err != nil {
				return err
			}
			if entry == nil || entry.Status != core.ReviewPending {
				continue
			}

			entry.Status = core.ReviewResolved
			if err := tx.Set(key, storage.MarshalReviewEntry(entry)); err != nil {
				return err
			}
			return tx.Commit()
		}

		// All entries already resolved; resolution is idempotent.
		return nil
	}, true)
}

func (q *ReviewQueue) list(keep func(*core.ReviewQueueEntry) bool) ([]*core.ReviewQueueEntry, error) {
	var entries []*core.ReviewQueueEntry
	err := q.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(reviewEntryPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *core.ReviewQueueEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalReviewEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if entry != nil && keep(entry) {
				entries = append(entries, entry)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (q *ReviewQueue) countPending() (int, error) {
	pending, err := q.list(func(e *core.ReviewQueueEntry) bool { return e.Status == core.ReviewPending })
	if err != nil {
		return 0, err
	}
	return len(pending), nil
}

func (q *ReviewQueue) readEntry(tx *badger.Txn, key []byte) (*core.ReviewQueueEntry, error) {
	item, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry *core.ReviewQueueEntry
	err = item.Value(func(val []byte) error {
		var err error
		entry, err = storage.UnmarshalReviewEntry(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// nextSeq returns the next entry sequence, skipping the zero value that
// Badger sequences can return on first use.
func (q *ReviewQueue) nextSeq() (uint64, error) {
	seq, err := q.idSeq.Next()
	if err != nil {
		return 0, err
	}
	if seq == 0 {
		seq, err = q.idSeq.Next()
		if err != nil {
			return 0, err
		}
	}
	return seq, nil
}
