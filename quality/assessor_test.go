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


package quality

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/rodeoai/chute/core"
)

// fullResult builds a result with n complete prediction records and the
// given extractor confidence.
func fullResult(n, confidence int) *core.ExtractionResult {
	result := &core.ExtractionResult{Confidence: confidence}
	for i := range n {
		result.Predictions = append(result.Predictions, core.Prediction{
			EventName:      fmt.Sprintf("Cheyenne Frontier Days %d", i),
			RiderName:      fmt.Sprintf("Rider %d", i),
			PredictionType: "win",
			PredictedValue: "1",
			Confidence:     80,
		})
	}
	return result
}

func TestAssessEmptyResultFloorsAtZero(t *testing.T) {
	a := NewAssessor()

	for _, result := range []*core.ExtractionResult{
		nil,
		{},
		{Confidence: 95}, // high confidence cannot rescue zero records
	} {
		report := a.Assess(result)
		if report.Score != 0 {
			t.Errorf("score: got %d, want 0", report.Score)
		}
		if report.Verdict != core.QualityVeryPoor {
			t.Errorf("verdict: got %v, want VeryPoor", report.Verdict)
		}
		if len(report.Issues) == 0 {
			t.Error("empty result must report an issue")
		}
	}
}

func TestAssessCleanResult(t *testing.T) {
	a := NewAssessor()

	report := a.Assess(fullResult(50, 90))
	if report.Score != 100 {
		t.Errorf("score: got %d, want 100", report.Score)
	}
	if report.Verdict != core.QualityExcellent {
		t.Errorf("verdict: got %v, want Excellent", report.Verdict)
	}
	if len(report.Issues) != 0 || len(report.Warnings) != 0 {
		t.Errorf("clean result must carry no findings: %+v", report)
	}
}

func TestAssessDeductions(t *testing.T) {
	a := NewAssessor()

	tests := []struct {
		name     string
		result   *core.ExtractionResult
		score    int
		verdict  core.QualityVerdict
		issues   int
		warnings int
	}{
		{
			name: "few records missing rider names",
			result: &core.ExtractionResult{
				Events: []core.Event{
					{Name: "Calgary Stampede"},
					{Name: "Cheyenne Frontier Days"},
					{Name: "National Western"},
				},
				Confidence: 85,
			},
			score:   50, // -30 few records, -20 no rider
			verdict: core.QualityFair,
			issues:  2,
		},
		{
			name: "no event names",
			result: func() *core.ExtractionResult {
				r := &core.ExtractionResult{Confidence: 80}
				for i := range 10 {
					r.Riders = append(r.Riders, core.Rider{Name: fmt.Sprintf("R%d", i)})
				}
				return r
			}(),
			score:   80,
			verdict: core.QualityExcellent,
			issues:  1,
		},
		{
			name:     "low extractor confidence is a warning",
			result:   fullResult(10, 30),
			score:    85,
			verdict:  core.QualityExcellent,
			warnings: 1,
		},
		{
			name: "ambiguous structure",
			result: func() *core.ExtractionResult {
				r := fullResult(10, 90)
				r.NeedsMapping = true
				return r
			}(),
			score:   75,
			verdict: core.QualityGood,
			issues:  1,
		},
		{
			name: "everything wrong clamps at zero",
			result: &core.ExtractionResult{
				Events:       []core.Event{{}, {}},
				NeedsMapping: true,
				Confidence:   10,
			},
			score:   0, // 100-30-20-20-25-15 = -10, clamped
			verdict: core.QualityVeryPoor,
			issues:  4,
			warnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := a.Assess(tt.result)
			if report.Score != tt.score {
				t.Errorf("score: got %d, want %d", report.Score, tt.score)
			}
			if report.Verdict != tt.verdict {
				t.Errorf("verdict: got %v, want %v", report.Verdict, tt.verdict)
			}
			if len(report.Issues) != tt.issues {
				t.Errorf("issues: got %d (%v), want %d", len(report.Issues), report.Issues, tt.issues)
			}
			if len(report.Warnings) != tt.warnings {
				t.Errorf("warnings: got %d (%v), want %d", len(report.Warnings), report.Warnings, tt.warnings)
			}
		})
	}
}

func TestAssessMonotoneUnderDeductions(t *testing.T) {
	a := NewAssessor()

	prev := a.Assess(fullResult(10, 90)).Score
	steps := []func(*core.ExtractionResult){
		func(r *core.ExtractionResult) { r.Confidence = 30 },
		func(r *core.ExtractionResult) { r.NeedsMapping = true },
		func(r *core.ExtractionResult) { r.Predictions = r.Predictions[:3] },
		func(r *core.ExtractionResult) {
			for i := range r.Predictions {
				r.Predictions[i].RiderName = ""
			}
		},
	}

	result := fullResult(10, 90)
	for i, step := range steps {
		step(result)
		score := a.Assess(result).Score
		if score > prev {
			t.Fatalf("step %d: score increased from %d to %d", i, prev, score)
		}
		prev = score
	}
}

func TestAssessIsPure(t *testing.T) {
	a := NewAssessor()
	result := fullResult(3, 40)

	first := a.Assess(result)
	second := a.Assess(result)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated assessment diverged: %+v vs %+v", first, second)
	}
}

func TestVerdictBands(t *testing.T) {
	bands := []struct {
		score   int
		verdict core.QualityVerdict
	}{
		{100, core.QualityExcellent},
		{80, core.QualityExcellent},
		{79, core.QualityGood},
		{60, core.QualityGood},
		{59, core.QualityFair},
		{40, core.QualityFair},
		{39, core.QualityPoor},
		{20, core.QualityPoor},
		{19, core.QualityVeryPoor},
		{0, core.QualityVeryPoor},
	}
	for _, b := range bands {
		if got := verdictForScore(b.score); got != b.verdict {
			t.Errorf("score %d: got %v, want %v", b.score, got, b.verdict)
		}
	}
}
