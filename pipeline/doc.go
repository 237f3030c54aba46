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


// Package pipeline orchestrates the ingestion gate: the ordered sequence of
// filters every submitted file passes through before its records may reach
// the sink.
//
// The stages run in a fixed order, cheapest first:
//
//  1. file-level duplicate check (raw byte fingerprint)
//  2. relevance triage (keyword scoring on a bounded sample)
//  3. extraction (external collaborator)
//  4. data-level duplicate check (canonical record fingerprint)
//  5. quality assessment
//  6. admission and sink push
//
// Every submission terminates in exactly one caller-visible
// core.PipelineDecision; no input is ever silently dropped. Unexpected
// faults after triage degrade to a Review decision so a human sees the
// item rather than losing it.
package pipeline
