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

	"github.com/dgraph-io/badger/v4"

	"github.com/rodeoai/chute/core"
	"github.com/rodeoai/chute/storage"
)

// DuplicateIndex implements storage.DuplicateIndex for BadgerDB.
// Membership keys carry no value; key presence alone marks a fingerprint
// as seen. File and data fingerprints use separate key prefixes.
type DuplicateIndex struct {
	backend *Backend
}

var _ storage.DuplicateIndex = (*DuplicateIndex)(nil)

// NewDuplicateIndex creates a new DuplicateIndex.
func NewDuplicateIndex(backend *Backend) *DuplicateIndex {
	return &DuplicateIndex{backend: backend}
}

// Close releases resources. The underlying backend is owned by the caller.
func (i *DuplicateIndex) Close() error {
	return nil
}

// SeenFile reports whether the file fingerprint has been recorded.
func (i *DuplicateIndex) SeenFile(ctx context.Context, fp core.Fingerprint) (bool, error) {
	return i.seen(makeFileSeenKey(fp))
}

// RecordFile records the file fingerprint. Idempotent.
func (i *DuplicateIndex) RecordFile(ctx context.Context, fp core.Fingerprint) error {
	return i.record(ctx, makeFileSeenKey(fp))
}

// ObserveFile atomically checks and records the file fingerprint.
func (i *DuplicateIndex) ObserveFile(ctx context.Context, fp core.Fingerprint) (bool, error) {
	return i.observe(ctx, makeFileSeenKey(fp))
}

// SeenData reports whether the data fingerprint has been recorded.
func (i *DuplicateIndex) SeenData(ctx context.Context, fp core.Fingerprint) (bool, error) {
	return i.seen(makeDataSeenKey(fp))
}

// RecordData records the data fingerprint. Idempotent.
func (i *DuplicateIndex) RecordData(ctx context.Context, fp core.Fingerprint) error {
	return i.record(ctx, makeDataSeenKey(fp))
}

// ObserveData atomically checks and records the data fingerprint.
func (i *DuplicateIndex) ObserveData(ctx context.Context, fp core.Fingerprint) (bool, error) {
	return i.observe(ctx, makeDataSeenKey(fp))
}

func (i *DuplicateIndex) seen(key []byte) (bool, error) {
	var found bool
	err := i.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	}, false)
	return found, err
}

func (i *DuplicateIndex) record(ctx context.Context, key []byte) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := i.backend.WithTx(func(tx *badger.Txn) error {
			if err := tx.Set(key, nil); err != nil {
				return err
			}
			return tx.Commit()
		}, true)
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		return err
	}
}

// observe performs the check-and-record for one key in a single write
// transaction. Badger's SSI detects concurrent writers of the same key at
// commit time; conflicted transactions are retried, so of any set of
// concurrent callers exactly one observes "not seen".
func (i *DuplicateIndex) observe(ctx context.Context, key []byte) (bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		var found bool
		err := i.backend.WithTx(func(tx *badger.Txn) error {
			_, err := tx.Get(key)
			if err == nil {
				found = true
				return nil
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}

			if err := tx.Set(key, nil); err != nil {
				return err
			}
			return tx.Commit()
		}, true)
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		return found, err
	}
}
