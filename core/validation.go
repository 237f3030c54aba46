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

import "fmt"

// ValidateIngestItem validates an IngestItem before it enters the pipeline.
//
// Validation rules:
//   - RawBytes must not be empty
//
// NOT validated:
//   - Filename (advisory only; an empty filename is acceptable)
func ValidateIngestItem(item *IngestItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidItem)
	}

	if len(item.RawBytes) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrEmptyContent)
	}

	return nil
}

// ValidateReviewEntry validates a ReviewQueueEntry before it is stored.
//
// Validation rules:
//   - FileFingerprint must be set
//   - Reason must be set
//   - Status must be a valid ReviewStatus
//
// NOT validated (populated by the queue):
//   - ID (generated on enqueue when zero)
//   - AddedAt (stamped on enqueue when zero)
func ValidateReviewEntry(entry *ReviewQueueEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidReviewEntry)
	}

	if entry.FileFingerprint.IsZero() {
		return fmt.Errorf("%w: file fingerprint is required", ErrInvalidReviewEntry)
	}

	if entry.Reason == "" {
		return fmt.Errorf("%w: reason is required", ErrInvalidReviewEntry)
	}

	if err := ValidateReviewStatus(entry.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidReviewEntry, err)
	}

	return nil
}

// ValidateReviewStatus validates that a ReviewStatus has a valid value.
func ValidateReviewStatus(status ReviewStatus) error {
	if status != ReviewPending && status != ReviewResolved {
		return fmt.Errorf("%w: value %d", ErrInvalidReviewStatus, status)
	}
	return nil
}
