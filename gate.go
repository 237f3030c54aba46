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


package chute

import (
	"context"
	"log/slog"

	"github.com/rodeoai/chute/core"
	"github.com/rodeoai/chute/extract"
	"github.com/rodeoai/chute/extract/tabular"
	"github.com/rodeoai/chute/pipeline"
	"github.com/rodeoai/chute/sink"
	"github.com/rodeoai/chute/storage"
	"github.com/rodeoai/chute/storage/badger"
)

// Gate bundles the stores, extractor and pipeline of one ingestion gate
// behind a single handle. It owns the Badger database and releases it on
// Close.
type Gate struct {
	backend *badger.Backend
	index   storage.DuplicateIndex
	queue   storage.ReviewQueue
	pipe    *pipeline.Pipeline
	logger  *slog.Logger
}

// GateOption configures a Gate.
type GateOption func(*gateOptions)

type gateOptions struct {
	inMemory     bool
	queueCap     int
	extractor    extract.Extractor
	sink         sink.Sink
	pipelineOpts []pipeline.Option
}

// WithInMemoryStorage keeps all state in memory, for tests and dry runs.
func WithInMemoryStorage() GateOption {
	return func(o *gateOptions) {
		o.inMemory = true
	}
}

// WithReviewQueueCap caps the number of pending review entries.
// Zero (the default) means uncapped.
func WithReviewQueueCap(n int) GateOption {
	return func(o *gateOptions) {
		o.queueCap = n
	}
}

// WithExtractor replaces the default tabular extractor.
func WithExtractor(e extract.Extractor) GateOption {
	return func(o *gateOptions) {
		o.extractor = e
	}
}

// WithSink sets the downstream record store. Without one, admitted items
// produce decisions but push nothing.
func WithSink(s sink.Sink) GateOption {
	return func(o *gateOptions) {
		o.sink = s
	}
}

// WithPipelineOptions forwards extra options to the underlying pipeline.
func WithPipelineOptions(opts ...pipeline.Option) GateOption {
	return func(o *gateOptions) {
		o.pipelineOpts = append(o.pipelineOpts, opts...)
	}
}

// NewGate opens (or creates) the gate's database at filePath and wires the
// duplicate index, review queue, extractor and pipeline on top of it.
func NewGate(filePath string, opts ...GateOption) (*Gate, error) {
	options := &gateOptions{
		extractor: tabular.New(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	index := badger.NewDuplicateIndex(backend)

	var queueOpts []badger.ReviewQueueOption
	if options.queueCap > 0 {
		queueOpts = append(queueOpts, badger.WithQueueCap(options.queueCap))
	}
	queue, err := badger.NewReviewQueue(backend, queueOpts...)
	if err != nil {
		backend.Close()
		return nil, err
	}

	pipelineOpts := options.pipelineOpts
	if options.sink != nil {
		pipelineOpts = append(pipelineOpts, pipeline.WithSink(options.sink))
	}
	pipe, err := pipeline.New(index, queue, options.extractor, pipelineOpts...)
	if err != nil {
		queue.Close()
		backend.Close()
		return nil, err
	}

	return &Gate{
		backend: backend,
		index:   index,
		queue:   queue,
		pipe:    pipe,
		logger:  slog.Default(),
	}, nil
}

// Close releases the pipeline's worker pool and the underlying database.
func (g *Gate) Close() error {
	g.pipe.Release()

	if err := g.queue.Close(); err != nil {
		g.logger.Error("error closing review queue", "err", err)
		g.backend.Close()
		return err
	}
	if err := g.backend.Close(); err != nil {
		g.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Ingest runs one file through the gate.
func (g *Gate) Ingest(ctx context.Context, item core.IngestItem, opts pipeline.Options) (*core.PipelineDecision, error) {
	return g.pipe.Ingest(ctx, item, opts)
}

// IngestBatch runs the items concurrently and returns one result per item,
// in input order.
func (g *Gate) IngestBatch(ctx context.Context, items []core.IngestItem, opts pipeline.Options) []pipeline.BatchResult {
	return g.pipe.IngestBatch(ctx, items, opts)
}

// PendingReviews returns the review queue's pending entries in insertion
// order.
func (g *Gate) PendingReviews(ctx context.Context) ([]*core.ReviewQueueEntry, error) {
	return g.queue.ListPending(ctx)
}

// AllReviews returns every review entry, resolved ones included.
func (g *Gate) AllReviews(ctx context.Context) ([]*core.ReviewQueueEntry, error) {
	return g.queue.List(ctx)
}

// Resolve marks the oldest pending review entry for the fingerprint as
// resolved.
func (g *Gate) Resolve(ctx context.Context, fp core.Fingerprint) error {
	return g.queue.Resolve(ctx, fp)
}

// DuplicateIndex exposes the gate's duplicate index.
func (g *Gate) DuplicateIndex() storage.DuplicateIndex {
	return g.index
}

// ReviewQueue exposes the gate's review queue.
func (g *Gate) ReviewQueue() storage.ReviewQueue {
	return g.queue
}
