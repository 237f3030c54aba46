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


// Package quality scores extraction results with rule-based deductions.
// The assessor is a pure function of the extraction result; it performs
// no I/O and never recomputes what the extractor already reported.
package quality

import (
	"fmt"

	"github.com/rodeoai/chute/core"
)

const (
	maxScore = 100

	// minRecords is the record count below which a result is considered
	// too thin to be trusted on its own.
	minRecords = 5

	// minExtractorConfidence is the extractor-reported confidence below
	// which a deduction fires.
	minExtractorConfidence = 50

	deductTooFewRecords = 30
	deductNoEventName   = 20
	deductNoRiderName   = 20
	deductAmbiguity     = 25
	deductLowConfidence = 15

	// issueThreshold separates blocking issues from warnings.
	issueThreshold = 20
)

// Assessor produces quality reports for extraction results.
type Assessor struct{}

// NewAssessor creates an Assessor.
func NewAssessor() *Assessor {
	return &Assessor{}
}

// Assess scores the extraction result starting at 100 and applying every
// deduction that fires. Deductions are independent and additive. A result
// with zero records floors at 0 regardless of anything else. Deductions of
// 20 or more are reported as issues, smaller ones as warnings.
func (a *Assessor) Assess(result *core.ExtractionResult) core.QualityReport {
	if result == nil || result.TotalRecords() == 0 {
		return core.QualityReport{
			Score:   0,
			Verdict: core.QualityVeryPoor,
			Issues:  []string{"no records could be extracted"},
		}
	}

	report := core.QualityReport{Score: maxScore}
	total := result.TotalRecords()

	if total < minRecords {
		deduct(&report, deductTooFewRecords,
			fmt.Sprintf("only %d records extracted (minimum %d)", total, minRecords))
	}
	if !hasEventName(result) {
		deduct(&report, deductNoEventName, "no record carries an event name")
	}
	if !hasRiderName(result) {
		deduct(&report, deductNoRiderName, "no record carries a rider name")
	}
	if result.NeedsMapping {
		deduct(&report, deductAmbiguity, "structure is ambiguous and needs field mapping")
	}
	if result.Confidence < minExtractorConfidence {
		deduct(&report, deductLowConfidence,
			fmt.Sprintf("extractor reported low confidence (%d)", result.Confidence))
	}

	if report.Score < 0 {
		report.Score = 0
	}
	report.Verdict = verdictForScore(report.Score)
	return report
}

func deduct(report *core.QualityReport, points int, reason string) {
	report.Score -= points
	if points >= issueThreshold {
		report.Issues = append(report.Issues, reason)
	} else {
		report.Warnings = append(report.Warnings, reason)
	}
}

// hasEventName reports whether any extracted record names its event.
func hasEventName(result *core.ExtractionResult) bool {
	for _, e := range result.Events {
		if e.Name != "" {
			return true
		}
	}
	for _, p := range result.Predictions {
		if p.EventName != "" {
			return true
		}
	}
	for _, r := range result.Results {
		if r.EventName != "" {
			return true
		}
	}
	return false
}

// hasRiderName reports whether any extracted record names its rider.
func hasRiderName(result *core.ExtractionResult) bool {
	for _, r := range result.Riders {
		if r.Name != "" {
			return true
		}
	}
	for _, p := range result.Predictions {
		if p.RiderName != "" {
			return true
		}
	}
	for _, r := range result.Results {
		if r.RiderName != "" {
			return true
		}
	}
	return false
}

// verdictForScore maps a clamped score onto its verdict band.
func verdictForScore(score int) core.QualityVerdict {
	switch {
	case score >= 80:
		return core.QualityExcellent
	case score >= 60:
		return core.QualityGood
	case score >= 40:
		return core.QualityFair
	case score >= 20:
		return core.QualityPoor
	default:
		return core.QualityVeryPoor
	}
}
