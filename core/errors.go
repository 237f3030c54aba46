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

import "errors"

// Domain validation errors
var (
	// ErrInvalidItem indicates an IngestItem failed validation.
	ErrInvalidItem = errors.New("invalid ingest item")

	// ErrEmptyContent indicates the submitted file has no bytes.
	ErrEmptyContent = errors.New("file content cannot be empty")

	// ErrInvalidFingerprint indicates a malformed fingerprint encoding.
	ErrInvalidFingerprint = errors.New("invalid fingerprint")

	// ErrInvalidReviewEntry indicates a ReviewQueueEntry failed validation.
	ErrInvalidReviewEntry = errors.New("invalid review entry")

	// ErrInvalidReviewStatus indicates an invalid ReviewStatus value.
	ErrInvalidReviewStatus = errors.New("invalid review status")
)
