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
	"time"

	"github.com/google/uuid"
)

// IngestItem is a single submitted file. RawBytes are owned by the pipeline
// for the duration of one request and must not be mutated by the caller.
type IngestItem struct {
	RawBytes []byte
	Filename string // advisory only, never trusted for content identity
}

// Event describes a rodeo event extracted from an uploaded file.
type Event struct {
	Name      string
	Location  string
	EventDate time.Time
	EventType string // bull_riding, saddle_bronc, bareback, barrel_racing, ...
	PrizePool *float64
}

// Rider describes a competitor extracted from an uploaded file.
type Rider struct {
	Name    string
	Rank    *int
	WinRate *float64 // 0-100
}

// Prediction describes a historical prediction record.
type Prediction struct {
	EventName      string
	RiderName      string
	PredictionType string // winner, score_range, placement
	PredictedValue string
	Confidence     float64 // 0-100
	Odds           *float64
	ModelVersion   string
	Analysis       string
}

// Result describes an actual outcome record.
type Result struct {
	EventName   string
	RiderName   string
	ActualValue string
	Score       *float64
	Placement   *int
}

// ExtractionResult is the structured output of an extractor run.
// It is owned exclusively by the pipeline invocation that produced it
// and is never mutated after extraction.
type ExtractionResult struct {
	Events      []Event
	Riders      []Rider
	Predictions []Prediction
	Results     []Result

	Source     string // originating filename, advisory
	Confidence int    // extractor self-reported confidence, 0-100

	// NeedsMapping is set when the extractor could not resolve the file's
	// structure into identified record kinds (generic fallback parsing).
	NeedsMapping bool
}

// TotalRecords returns the number of extracted records across all kinds.
func (r *ExtractionResult) TotalRecords() int {
	return len(r.Events) + len(r.Riders) + len(r.Predictions) + len(r.Results)
}

// TriageLabel identifies the relevance verdict of the triage stage.
type TriageLabel int

const (
	// TriageRelevant marks content that clearly belongs to the rodeo domain.
	TriageRelevant TriageLabel = iota + 1
	// TriageIrrelevant marks content that clearly does not.
	TriageIrrelevant
	// TriageUncertain marks content the keyword scorer cannot decide on.
	// Uncertain items still proceed to extraction.
	TriageUncertain
)

// String returns the lower-case label name.
func (l TriageLabel) String() string {
	switch l {
	case TriageRelevant:
		return "relevant"
	case TriageIrrelevant:
		return "irrelevant"
	case TriageUncertain:
		return "uncertain"
	default:
		return "unknown"
	}
}

// TriageVerdict is the output of the relevance triage stage.
// It is a pure function of its input and is never persisted on its own.
type TriageVerdict struct {
	Label      TriageLabel
	Score      int
	Confidence int      // 0-100, monotonic in |Score|
	Reasons    []string // which keyword groups matched, in match order
}

// QualityVerdict maps a quality score to a fixed band.
type QualityVerdict int

const (
	QualityExcellent QualityVerdict = iota + 1 // [80,100]
	QualityGood                                // [60,79]
	QualityFair                                // [40,59]
	QualityPoor                                // [20,39]
	QualityVeryPoor                            // [0,19]
)

// String returns the lower-case verdict name.
func (v QualityVerdict) String() string {
	switch v {
	case QualityExcellent:
		return "excellent"
	case QualityGood:
		return "good"
	case QualityFair:
		return "fair"
	case QualityPoor:
		return "poor"
	case QualityVeryPoor:
		return "very_poor"
	default:
		return "unknown"
	}
}

// QualityReport is the output of the quality assessment stage.
type QualityReport struct {
	Score    int // clamped to [0,100]
	Verdict  QualityVerdict
	Issues   []string // blocking problems (deduction impact >= 20)
	Warnings []string // non-blocking observations
}

// ReviewStatus tracks the disposition of a review queue entry.
type ReviewStatus int

const (
	// ReviewPending means the entry awaits human disposition.
	ReviewPending ReviewStatus = iota + 1
	// ReviewResolved means a reviewer has dispositioned the entry.
	// Resolution is one-directional; a resolved entry never becomes pending.
	ReviewResolved
)

// String returns the lower-case status name.
func (s ReviewStatus) String() string {
	switch s {
	case ReviewPending:
		return "pending_review"
	case ReviewResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// ReviewQueueEntry is an item queued for human attention.
// Entries are owned by the review queue: created when the pipeline queues an
// item, mutated only by reviewer resolution, never deleted automatically.
type ReviewQueueEntry struct {
	ID              uuid.UUID
	Filename        string
	FileFingerprint Fingerprint
	Reason          ReasonCode
	Triage          *TriageVerdict
	Quality         *QualityReport
	AddedAt         time.Time
	Status          ReviewStatus
}

// Action is the terminal outcome of a pipeline run.
type Action int

const (
	// ActionProcess admits the extraction result to the sink.
	ActionProcess Action = iota + 1
	// ActionReject terminates the item without processing.
	ActionReject
	// ActionReview terminates the item pending human disposition.
	ActionReview
)

// String returns the lower-case action name.
func (a Action) String() string {
	switch a {
	case ActionProcess:
		return "process"
	case ActionReject:
		return "reject"
	case ActionReview:
		return "review"
	default:
		return "unknown"
	}
}

// ReasonCode explains why the pipeline reached its terminal action.
type ReasonCode string

const (
	ReasonAccepted          ReasonCode = "accepted"
	ReasonFileDuplicate     ReasonCode = "file_duplicate"
	ReasonDataDuplicate     ReasonCode = "data_duplicate"
	ReasonIrrelevantFlagged ReasonCode = "irrelevant_flagged"
	ReasonExtractionFailed  ReasonCode = "extraction_failed"
	ReasonQualityTooLow     ReasonCode = "quality_too_low"
	ReasonUncertainQuality  ReasonCode = "uncertain_quality"
	ReasonInternalError     ReasonCode = "internal_error"
)

// RecordStatus reports the sink outcome for a single pushed record.
type RecordStatus struct {
	Kind   string // "prediction" or "result"
	Key    string // identifying fields, e.g. "event - rider"
	Status string // "success" or "error"
	Error  string // populated when Status is "error"
}

// PipelineDecision is the terminal, caller-visible output of one ingestion.
// It is transient: returned to the caller, never stored by the core.
type PipelineDecision struct {
	Action     Action
	ReasonCode ReasonCode

	FileFingerprint Fingerprint
	DataFingerprint Fingerprint
	FileDuplicate   bool
	DataDuplicate   bool

	Triage  *TriageVerdict
	Quality *QualityReport

	// ReviewEntryID references the queued review entry, when one was created.
	ReviewEntryID uuid.UUID

	// PushResults carries per-record sink statuses for processed items.
	// Sink failures are surfaced as-is; the pipeline never retries them.
	PushResults []RecordStatus
	SinkError   string
}

// Queued reports whether the decision produced a review queue entry.
func (d *PipelineDecision) Queued() bool {
	return d.ReviewEntryID != uuid.Nil
}
