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


package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/rodeoai/chute/core"
	"github.com/rodeoai/chute/extract"
	"github.com/rodeoai/chute/quality"
	"github.com/rodeoai/chute/sink"
	"github.com/rodeoai/chute/storage"
	"github.com/rodeoai/chute/triage"
)

// Quality score bands driving the admission decision.
const (
	// rejectBelowScore rejects (and queues) anything scoring under it.
	rejectBelowScore = 20
	// processAtScore admits directly at or above it; scores between the
	// two bounds are admitted but flagged for review.
	processAtScore = 60
)

// Pipeline runs submissions through the ingestion gate. The only shared
// mutable state between concurrent submissions lives in the duplicate
// index and the review queue; a Pipeline is safe for concurrent use.
type Pipeline struct {
	index      storage.DuplicateIndex
	queue      storage.ReviewQueue
	extractor  extract.Extractor
	sink       sink.Sink
	classifier *triage.Classifier
	assessor   *quality.Assessor
	pool       *ants.Pool
	logger     *slog.Logger
}

// Options are per-submission overrides accepted from the caller.
type Options struct {
	// SkipDeduplication bypasses both duplicate gates entirely. Their
	// index reads and writes are skipped, so a forced re-upload never
	// seeds the index.
	SkipDeduplication bool

	// SkipTriage forces extraction regardless of relevance score.
	SkipTriage bool
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithSink sets the downstream record store. Without a sink, admitted
// items produce a decision but push nothing.
func WithSink(s sink.Sink) Option {
	return func(p *Pipeline) error {
		p.sink = s
		return nil
	}
}

// WithClassifier replaces the default keyword classifier.
func WithClassifier(c *triage.Classifier) Option {
	return func(p *Pipeline) error {
		if c != nil {
			p.classifier = c
		}
		return nil
	}
}

// WithAssessor replaces the default quality assessor.
func WithAssessor(a *quality.Assessor) Option {
	return func(p *Pipeline) error {
		if a != nil {
			p.assessor = a
		}
		return nil
	}
}

// WithPoolSize sets the worker pool size for batch ingestion.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// New creates a Pipeline over the given stores and extractor.
func New(
	index storage.DuplicateIndex,
	queue storage.ReviewQueue,
	extractor extract.Extractor,
	opts ...Option,
) (*Pipeline, error) {
	if index == nil {
		return nil, ErrDuplicateIndexRequired
	}
	if queue == nil {
		return nil, ErrReviewQueueRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		index:      index,
		queue:      queue,
		extractor:  extractor,
		classifier: triage.NewClassifier(triage.DefaultConfig()),
		assessor:   quality.NewAssessor(),
		pool:       pool,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Release releases the batch worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// Ingest runs one file through the gate and returns its decision.
//
// An error is returned only for an invalid item or an ended context;
// everything else, including unexpected internal faults, terminates in a
// decision. Index insertions committed before a cancellation remain
// committed, so a partially processed resubmission counts as seen.
func (p *Pipeline) Ingest(ctx context.Context, item core.IngestItem, opts Options) (decision *core.PipelineDecision, err error) {
	if verr := core.ValidateIngestItem(&item); verr != nil {
		return nil, verr
	}
	if cerr := ctx.Err(); cerr != nil {
		return nil, cerr
	}

	decision = &core.PipelineDecision{FileFingerprint: core.HashBytes(item.RawBytes)}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("panic during ingestion",
				"filename", item.Filename,
				"fingerprint", decision.FileFingerprint.Hex(),
				"panic", r)
			p.degradeToInternalError(context.WithoutCancel(ctx), item, decision)
			err = nil
		}
	}()

	// Stage 1: file-level duplicate gate. The fingerprint is recorded in
	// the same atomic step, so the very next submission of these bytes is
	// recognized no matter how this one ends.
	if !opts.SkipDeduplication {
		seen, ierr := p.index.ObserveFile(ctx, decision.FileFingerprint)
		if ierr != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.logger.Error("file duplicate check failed", "filename", item.Filename, "error", ierr)
			return p.degradeToInternalError(ctx, item, decision), nil
		}
		if seen {
			decision.FileDuplicate = true
			return reject(decision, core.ReasonFileDuplicate), nil
		}
	}

	// Stage 2: relevance triage. Only Irrelevant stops here; Uncertain
	// proceeds, since extraction is the authoritative signal and a false
	// negative would cost a whole file.
	if !opts.SkipTriage {
		verdict := p.classifier.Classify(item.Filename, item.RawBytes)
		decision.Triage = &verdict
		if verdict.Label == core.TriageIrrelevant {
			p.enqueue(ctx, item, decision, core.ReasonIrrelevantFlagged)
			return reject(decision, core.ReasonIrrelevantFlagged), nil
		}
	}

	// Stage 3: extraction.
	result, xerr := p.extractor.Extract(ctx, item.RawBytes, item.Filename)
	if xerr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if extract.IsFailure(xerr) {
			p.logger.Warn("extraction failed", "filename", item.Filename, "error", xerr)
			p.enqueue(ctx, item, decision, core.ReasonExtractionFailed)
			return review(decision, core.ReasonExtractionFailed), nil
		}
		p.logger.Error("extractor fault", "filename", item.Filename, "error", xerr)
		return p.degradeToInternalError(ctx, item, decision), nil
	}

	// Stage 4: data-level duplicate gate, catching the same facts
	// resubmitted in a different file format.
	decision.DataFingerprint = core.HashCanonical(result)
	if !opts.SkipDeduplication {
		seen, ierr := p.index.ObserveData(ctx, decision.DataFingerprint)
		if ierr != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.logger.Error("data duplicate check failed", "filename", item.Filename, "error", ierr)
			return p.degradeToInternalError(ctx, item, decision), nil
		}
		if seen {
			decision.DataDuplicate = true
			return reject(decision, core.ReasonDataDuplicate), nil
		}
	}

	// Stage 5: quality assessment.
	report := p.assessor.Assess(result)
	decision.Quality = &report

	switch {
	case report.Score < rejectBelowScore:
		p.enqueue(ctx, item, decision, core.ReasonQualityTooLow)
		return reject(decision, core.ReasonQualityTooLow), nil
	case report.Score < processAtScore:
		// Mid-band quality is admitted AND flagged: the records still
		// reach the sink, a human just checks them afterwards.
		p.enqueue(ctx, item, decision, core.ReasonUncertainQuality)
		review(decision, core.ReasonUncertainQuality)
	default:
		decision.Action = core.ActionProcess
		decision.ReasonCode = core.ReasonAccepted
	}

	// Stage 6: hand the records to the sink. Sink failures are surfaced
	// as-is; retrying is the caller's policy, not ours.
	if p.sink != nil {
		statuses, serr := p.sink.Push(ctx, result)
		decision.PushResults = statuses
		if serr != nil {
			p.logger.Error("sink push failed", "filename", item.Filename, "error", serr)
			decision.SinkError = serr.Error()
		}
	}

	p.logger.Info("ingestion decided",
		"filename", item.Filename,
		"action", decision.Action,
		"reason", decision.ReasonCode,
		"records", result.TotalRecords())
	return decision, nil
}

// BatchResult pairs one batch input with its outcome.
type BatchResult struct {
	Filename string
	Decision *core.PipelineDecision
	Err      error
}

// IngestBatch runs the items concurrently over the worker pool and returns
// one result per item, in input order.
func (p *Pipeline) IngestBatch(ctx context.Context, items []core.IngestItem, opts Options) []BatchResult {
	results := make([]BatchResult, len(items))

	var wg sync.WaitGroup
	for i := range items {
		item := items[i]
		slot := &results[i]
		slot.Filename = item.Filename

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			slot.Decision, slot.Err = p.Ingest(ctx, item, opts)
		})
		if submitErr != nil {
			wg.Done()
			slot.Err = submitErr
		}
	}
	wg.Wait()

	return results
}

// degradeToInternalError turns an unexpected fault into a human-visible
// Review decision. Correctness bias is toward visibility: never silent
// rejection, never silent admission.
func (p *Pipeline) degradeToInternalError(ctx context.Context, item core.IngestItem, decision *core.PipelineDecision) *core.PipelineDecision {
	p.enqueue(ctx, item, decision, core.ReasonInternalError)
	return review(decision, core.ReasonInternalError)
}

// enqueue adds a review entry carrying whatever verdicts the decision has
// accumulated so far. Queue failures (including a full queue) are logged,
// never swallowed into a silent drop of the decision itself.
func (p *Pipeline) enqueue(ctx context.Context, item core.IngestItem, decision *core.PipelineDecision, reason core.ReasonCode) {
	stored, err := p.queue.Enqueue(ctx, &core.ReviewQueueEntry{
		Filename:        item.Filename,
		FileFingerprint: decision.FileFingerprint,
		Reason:          reason,
		Triage:          decision.Triage,
		Quality:         decision.Quality,
	})
	if err != nil {
		p.logger.Error("failed to enqueue review entry",
			"filename", item.Filename,
			"reason", reason,
			"error", err)
		return
	}
	decision.ReviewEntryID = stored.ID
}

func reject(d *core.PipelineDecision, reason core.ReasonCode) *core.PipelineDecision {
	d.Action = core.ActionReject
	d.ReasonCode = reason
	return d
}

func review(d *core.PipelineDecision, reason core.ReasonCode) *core.PipelineDecision {
	d.Action = core.ActionReview
	d.ReasonCode = reason
	return d
}
