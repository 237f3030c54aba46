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


// Package storage defines the persistence contracts of the ingestion gate.
//
// Two stores back the pipeline:
//
//   - DuplicateIndex: two independent membership namespaces over content
//     fingerprints, one for raw file bytes and one for canonicalized
//     extracted data. Membership is monotonic: once a fingerprint has been
//     recorded it stays recorded for the life of the store.
//
//   - ReviewQueue: a durable FIFO append log of items requiring human
//     disposition. Entries are never deleted automatically; a reviewer
//     resolves them through a separate administrative path.
//
// Implementations must be safe for concurrent use. The check-and-record
// operations on the DuplicateIndex must be atomic per fingerprint so that
// two concurrent submissions of identical content cannot both observe
// "not seen".
package storage
