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

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// HashCanonical computes the data fingerprint of an extraction result.
//
// The result is first canonicalized: every record is rendered with a fixed
// field order, string fields are lower-cased with collapsed whitespace,
// records are sorted within their kind, and kinds appear in a fixed order.
// Two extraction results that represent the same facts therefore hash
// identically regardless of source file format, record order, or cosmetic
// formatting differences. Source, Confidence, and NeedsMapping are metadata
// about the extraction, not facts, and are excluded.
func HashCanonical(r *ExtractionResult) Fingerprint {
	h, _ := blake2b.New(FingerprintSize, nil)
	h.Write([]byte(canonicalize(r)))
	var fp Fingerprint
	copy(fp[:], h.Sum(nil))
	return fp
}

func canonicalize(r *ExtractionResult) string {
	var b strings.Builder

	writeSection(&b, "event", canonicalEvents(r.Events))
	writeSection(&b, "rider", canonicalRiders(r.Riders))
	writeSection(&b, "prediction", canonicalPredictions(r.Predictions))
	writeSection(&b, "result", canonicalResults(r.Results))

	return b.String()
}

func writeSection(b *strings.Builder, kind string, lines []string) {
	slices.Sort(lines)
	for _, line := range lines {
		b.WriteString(kind)
		b.WriteByte('|')
		b.WriteString(line)
		b.WriteByte('\n')
	}
}

func canonicalEvents(events []Event) []string {
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, strings.Join([]string{
			normalizeText(e.Name),
			normalizeText(e.Location),
			canonicalTime(e.EventDate),
			normalizeText(e.EventType),
			canonicalFloatPtr(e.PrizePool),
		}, "|"))
	}
	return lines
}

func canonicalRiders(riders []Rider) []string {
	lines := make([]string, 0, len(riders))
	for _, r := range riders {
		lines = append(lines, strings.Join([]string{
			normalizeText(r.Name),
			canonicalIntPtr(r.Rank),
			canonicalFloatPtr(r.WinRate),
		}, "|"))
	}
	return lines
}

func canonicalPredictions(predictions []Prediction) []string {
	lines := make([]string, 0, len(predictions))
	for _, p := range predictions {
		lines = append(lines, strings.Join([]string{
			normalizeText(p.EventName),
			normalizeText(p.RiderName),
			normalizeText(p.PredictionType),
			normalizeText(p.PredictedValue),
			canonicalFloat(p.Confidence),
			canonicalFloatPtr(p.Odds),
			normalizeText(p.ModelVersion),
			normalizeText(p.Analysis),
		}, "|"))
	}
	return lines
}

func canonicalResults(results []Result) []string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, strings.Join([]string{
			normalizeText(r.EventName),
			normalizeText(r.RiderName),
			normalizeText(r.ActualValue),
			canonicalFloatPtr(r.Score),
			canonicalIntPtr(r.Placement),
		}, "|"))
	}
	return lines
}

// normalizeText lower-cases a string and collapses all whitespace runs to a
// single space, so "Bull  Riding" and "bull riding" canonicalize identically.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func canonicalTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func canonicalFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func canonicalFloatPtr(f *float64) string {
	if f == nil {
		return "-"
	}
	return canonicalFloat(*f)
}

func canonicalIntPtr(i *int) string {
	if i == nil {
		return "-"
	}
	return strconv.Itoa(*i)
}
