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


// Package extract defines the contract between the ingestion pipeline and
// content extractors.
//
// The pipeline never parses file content itself; it hands raw bytes to an
// Extractor and works with the typed records that come back. Two
// implementation sub-packages are provided:
//
//   - extract/tabular: production extractor for CSV, Excel and plain text
//   - extract/mock: test double with behavior injection
//
// Extraction failures (malformed or unsupported input) are reported as
// *FailureError and routed to human review by the pipeline; they are never
// treated as pipeline bugs.
package extract
