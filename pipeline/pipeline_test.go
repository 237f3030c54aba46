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
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodeoai/chute/core"
	"github.com/rodeoai/chute/extract"
	extractmock "github.com/rodeoai/chute/extract/mock"
	sinkmock "github.com/rodeoai/chute/sink/mock"
	badgerstore "github.com/rodeoai/chute/storage/badger"
)

// richResult builds an extraction result with n complete prediction
// records that scores 100 on quality.
func richResult(n int) *core.ExtractionResult {
	result := &core.ExtractionResult{Confidence: 90}
	for i := range n {
		result.Predictions = append(result.Predictions, core.Prediction{
			EventName:      fmt.Sprintf("Calgary Stampede round %d", i),
			RiderName:      fmt.Sprintf("Rider %d", i),
			PredictionType: "winner",
			PredictedValue: "Win",
			Confidence:     80,
		})
	}
	return result
}

type testGate struct {
	pipeline  *Pipeline
	stores    *badgerstore.Stores
	extractor *extractmock.MockExtractor
	sink      *sinkmock.MockSink
}

func newTestGate(t *testing.T, opts ...Option) *testGate {
	t.Helper()

	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, stores.Close())
	})

	extractor := extractmock.NewMockExtractor()
	mockSink := sinkmock.NewMockSink()

	opts = append([]Option{WithSink(mockSink), WithPoolSize(4)}, opts...)
	p, err := New(stores.Index, stores.Queue, extractor, opts...)
	require.NoError(t, err)
	t.Cleanup(p.Release)

	return &testGate{pipeline: p, stores: stores, extractor: extractor, sink: mockSink}
}

func item(filename, content string) core.IngestItem {
	return core.IngestItem{RawBytes: []byte(content), Filename: filename}
}

// relevantContent clears the triage gate with room to spare.
const relevantContent = "rodeo rider standings, bull riding event results"

func TestIngestCleanFileIsProcessed(t *testing.T) {
	g := newTestGate(t)
	g.extractor.ExtractFunc = func(ctx context.Context, raw []byte, filename string) (*core.ExtractionResult, error) {
		return richResult(50), nil
	}

	decision, err := g.pipeline.Ingest(context.Background(), item("june.csv", relevantContent), Options{})
	require.NoError(t, err)

	assert.Equal(t, core.ActionProcess, decision.Action)
	assert.Equal(t, core.ReasonAccepted, decision.ReasonCode)
	assert.False(t, decision.FileDuplicate)
	assert.False(t, decision.DataDuplicate)
	require.NotNil(t, decision.Quality)
	assert.Equal(t, 100, decision.Quality.Score)
	assert.Equal(t, core.QualityExcellent, decision.Quality.Verdict)
	assert.False(t, decision.Queued())
	assert.Equal(t, 1, g.sink.CallCount())
	assert.Len(t, decision.PushResults, 50)
}

func TestIngestSecondSubmissionIsFileDuplicate(t *testing.T) {
	g := newTestGate(t)
	ctx := context.Background()

	first, err := g.pipeline.Ingest(ctx, item("june.csv", relevantContent), Options{})
	require.NoError(t, err)
	assert.Equal(t, core.ActionProcess, first.Action)

	second, err := g.pipeline.Ingest(ctx, item("june-copy.csv", relevantContent), Options{})
	require.NoError(t, err)
	assert.Equal(t, core.ActionReject, second.Action)
	assert.Equal(t, core.ReasonFileDuplicate, second.ReasonCode)
	assert.True(t, second.FileDuplicate)
	assert.Equal(t, first.FileFingerprint, second.FileFingerprint)

	// The duplicate never reached extraction or the sink.
	assert.Equal(t, 1, g.extractor.CallCount())
	assert.Equal(t, 1, g.sink.CallCount())
}

func TestIngestFileDuplicateEvenAfterRejection(t *testing.T) {
	g := newTestGate(t)
	ctx := context.Background()

	// First attempt is rejected as irrelevant, but its file fingerprint
	// was recorded when it passed the file-duplicate gate.
	irrelevant := item("scan.txt", "invoice for the catering receipt")
	first, err := g.pipeline.Ingest(ctx, irrelevant, Options{})
	require.NoError(t, err)
	assert.Equal(t, core.ReasonIrrelevantFlagged, first.ReasonCode)

	second, err := g.pipeline.Ingest(ctx, irrelevant, Options{})
	require.NoError(t, err)
	assert.Equal(t, core.ReasonFileDuplicate, second.ReasonCode)
}

func TestIngestReformattedDataIsDataDuplicate(t *testing.T) {
	g := newTestGate(t)
	ctx := context.Background()

	// Different bytes, identical extracted facts.
	g.extractor.ExtractFunc = func(ctx context.Context, raw []byte, filename string) (*core.ExtractionResult, error) {
		result := richResult(10)
		result.Source = filename
		return result, nil
	}

	first, err := g.pipeline.Ingest(ctx, item("june.csv", relevantContent+" as csv"), Options{})
	require.NoError(t, err)
	assert.Equal(t, core.ActionProcess, first.Action)

	second, err := g.pipeline.Ingest(ctx, item("june.xlsx", relevantContent+" as excel"), Options{})
	require.NoError(t, err)
	assert.Equal(t, core.ActionReject, second.Action)
	assert.Equal(t, core.ReasonDataDuplicate, second.ReasonCode)
	assert.True(t, second.DataDuplicate)
	assert.Equal(t, first.DataFingerprint, second.DataFingerprint)
	assert.Equal(t, 1, g.sink.CallCount())
}

func TestIngestSkipDeduplication(t *testing.T) {
	g := newTestGate(t)
	g.extractor.ExtractFunc = func(ctx context.Context, raw []byte, filename string) (*core.ExtractionResult, error) {
		return richResult(10), nil
	}
	ctx := context.Background()
	opts := Options{SkipDeduplication: true}

	for range 3 {
		decision, err := g.pipeline.Ingest(ctx, item("june.csv", relevantContent), opts)
		require.NoError(t, err)
		assert.Equal(t, core.ActionProcess, decision.Action)
		assert.False(t, decision.FileDuplicate)
		assert.False(t, decision.DataDuplicate)
	}

	// The skipped gates must not have seeded the index either.
	seen, err := g.stores.Index.SeenFile(ctx, core.HashBytes([]byte(relevantContent)))
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestIngestIrrelevantIsRejectedAndQueued(t *testing.T) {
	g := newTestGate(t)

	decision, err := g.pipeline.Ingest(context.Background(),
		item("junk.txt", "invoice and receipt for the newsletter"), Options{})
	require.NoError(t, err)

	assert.Equal(t, core.ActionReject, decision.Action)
	assert.Equal(t, core.ReasonIrrelevantFlagged, decision.ReasonCode)
	require.NotNil(t, decision.Triage)
	assert.Equal(t, core.TriageIrrelevant, decision.Triage.Label)
	assert.True(t, decision.Queued())
	assert.Zero(t, g.extractor.CallCount(), "irrelevant items are never extracted")

	pending, err := g.stores.Queue.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, core.ReasonIrrelevantFlagged, pending[0].Reason)
	assert.Equal(t, decision.ReviewEntryID, pending[0].ID)
	require.NotNil(t, pending[0].Triage)
}

func TestIngestUncertainTriageProceeds(t *testing.T) {
	g := newTestGate(t)
	g.extractor.ExtractFunc = func(ctx context.Context, raw []byte, filename string) (*core.ExtractionResult, error) {
		return richResult(10), nil
	}

	// One domain keyword: score 1, Uncertain.
	decision, err := g.pipeline.Ingest(context.Background(),
		item("maybe.csv", "rodeo data of some kind"), Options{})
	require.NoError(t, err)

	require.NotNil(t, decision.Triage)
	assert.Equal(t, core.TriageUncertain, decision.Triage.Label)
	assert.Equal(t, core.ActionProcess, decision.Action)
	assert.Equal(t, 1, g.extractor.CallCount())
}

func TestIngestSkipTriage(t *testing.T) {
	g := newTestGate(t)
	g.extractor.ExtractFunc = func(ctx context.Context, raw []byte, filename string) (*core.ExtractionResult, error) {
		return richResult(10), nil
	}

	decision, err := g.pipeline.Ingest(context.Background(),
		item("junk.txt", "invoice and receipt for the newsletter"), Options{SkipTriage: true})
	require.NoError(t, err)

	assert.Nil(t, decision.Triage, "skipped triage must not report a verdict")
	assert.Equal(t, core.ActionProcess, decision.Action)
	assert.Equal(t, 1, g.extractor.CallCount())
}

func TestIngestExtractionFailureGoesToReview(t *testing.T) {
	g := newTestGate(t)
	g.extractor.ExtractFunc = func(ctx context.Context, raw []byte, filename string) (*core.ExtractionResult, error) {
		return nil, extract.NewFailure(filename, "malformed CSV", errors.New("parse error"))
	}

	decision, err := g.pipeline.Ingest(context.Background(), item("broken.csv", relevantContent), Options{})
	require.NoError(t, err)

	assert.Equal(t, core.ActionReview, decision.Action)
	assert.Equal(t, core.ReasonExtractionFailed, decision.ReasonCode)
	assert.True(t, decision.Queued())
	assert.Zero(t, g.sink.CallCount())
}

func TestIngestZeroRecordsRejectedForQuality(t *testing.T) {
	g := newTestGate(t)
	g.extractor.ExtractFunc = func(ctx context.Context, raw []byte, filename string) (*core.ExtractionResult, error) {
		return &core.ExtractionResult{Source: filename, Confidence: 95}, nil
	}

	decision, err := g.pipeline.Ingest(context.Background(), item("empty.csv", relevantContent), Options{})
	require.NoError(t, err)

	assert.Equal(t, core.ActionReject, decision.Action)
	assert.Equal(t, core.ReasonQualityTooLow, decision.ReasonCode)
	require.NotNil(t, decision.Quality)
	assert.Equal(t, 0, decision.Quality.Score)
	assert.Equal(t, core.QualityVeryPoor, decision.Quality.Verdict)
	assert.True(t, decision.Queued())
	assert.Zero(t, g.sink.CallCount())
}

func TestIngestMidBandQualityIsFlaggedAndStillPushed(t *testing.T) {
	g := newTestGate(t)
	g.extractor.ExtractFunc = func(ctx context.Context, raw []byte, filename string) (*core.ExtractionResult, error) {
		// 3 records without rider names: 100 - 30 - 20 = 50.
		return &core.ExtractionResult{
			Events: []core.Event{
				{Name: "Calgary Stampede"},
				{Name: "Cheyenne Frontier Days"},
				{Name: "National Western"},
			},
			Confidence: 85,
		}, nil
	}

	decision, err := g.pipeline.Ingest(context.Background(), item("thin.csv", relevantContent), Options{})
	require.NoError(t, err)

	assert.Equal(t, core.ActionReview, decision.Action)
	assert.Equal(t, core.ReasonUncertainQuality, decision.ReasonCode)
	require.NotNil(t, decision.Quality)
	assert.Equal(t, 50, decision.Quality.Score)
	assert.Equal(t, core.QualityFair, decision.Quality.Verdict)
	assert.True(t, decision.Queued())
	assert.Equal(t, 1, g.sink.CallCount(), "flagged items are still forwarded to the sink")

	pending, err := g.stores.Queue.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.NotNil(t, pending[0].Quality)
	assert.Equal(t, 50, pending[0].Quality.Score)
}

func TestIngestPanicDegradesToInternalError(t *testing.T) {
	g := newTestGate(t)
	g.extractor.ExtractFunc = func(ctx context.Context, raw []byte, filename string) (*core.ExtractionResult, error) {
		panic("extractor bug")
	}

	decision, err := g.pipeline.Ingest(context.Background(), item("cursed.csv", relevantContent), Options{})
	require.NoError(t, err)

	assert.Equal(t, core.ActionReview, decision.Action)
	assert.Equal(t, core.ReasonInternalError, decision.ReasonCode)
	assert.True(t, decision.Queued())

	pending, listErr := g.stores.Queue.ListPending(context.Background())
	require.NoError(t, listErr)
	require.Len(t, pending, 1)
	assert.Equal(t, core.ReasonInternalError, pending[0].Reason)
}

func TestIngestSinkErrorIsSurfaced(t *testing.T) {
	g := newTestGate(t)
	g.extractor.ExtractFunc = func(ctx context.Context, raw []byte, filename string) (*core.ExtractionResult, error) {
		return richResult(10), nil
	}
	g.sink.PushFunc = func(ctx context.Context, result *core.ExtractionResult) ([]core.RecordStatus, error) {
		return nil, errors.New("store unreachable")
	}

	decision, err := g.pipeline.Ingest(context.Background(), item("june.csv", relevantContent), Options{})
	require.NoError(t, err)

	assert.Equal(t, core.ActionProcess, decision.Action, "sink failures do not change the admission decision")
	assert.Equal(t, "store unreachable", decision.SinkError)
}

func TestIngestInvalidItem(t *testing.T) {
	g := newTestGate(t)

	_, err := g.pipeline.Ingest(context.Background(), core.IngestItem{Filename: "hollow.csv"}, Options{})
	assert.ErrorIs(t, err, core.ErrInvalidItem)
}

func TestIngestBatch(t *testing.T) {
	g := newTestGate(t)
	g.extractor.ExtractFunc = func(ctx context.Context, raw []byte, filename string) (*core.ExtractionResult, error) {
		result := richResult(10)
		result.Source = filename
		// Make data fingerprints unique per file.
		result.Predictions[0].Analysis = filename
		return result, nil
	}

	items := make([]core.IngestItem, 6)
	for i := range items {
		items[i] = item(fmt.Sprintf("file-%d.csv", i), fmt.Sprintf("%s #%d", relevantContent, i))
	}
	// A byte-identical resubmission of the first item.
	items[5] = item("file-0-copy.csv", relevantContent+" #0")

	results := g.pipeline.IngestBatch(context.Background(), items, Options{})
	require.Len(t, results, len(items))

	for i, r := range results {
		assert.Equal(t, items[i].Filename, r.Filename, "results keep input order")
		require.NoError(t, r.Err)
		require.NotNil(t, r.Decision)
	}

	var duplicates int
	for _, r := range results {
		if r.Decision.ReasonCode == core.ReasonFileDuplicate {
			duplicates++
		}
	}
	assert.Equal(t, 1, duplicates, "exactly one of the identical pair is a duplicate")
}

func TestNewRequiredDependencies(t *testing.T) {
	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, stores.Close())
	})
	extractor := extractmock.NewMockExtractor()

	_, err = New(nil, stores.Queue, extractor)
	assert.ErrorIs(t, err, ErrDuplicateIndexRequired)
	_, err = New(stores.Index, nil, extractor)
	assert.ErrorIs(t, err, ErrReviewQueueRequired)
	_, err = New(stores.Index, stores.Queue, nil)
	assert.ErrorIs(t, err, ErrExtractorRequired)
}

func TestIngestWithoutSink(t *testing.T) {
	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, stores.Close())
	})

	extractor := extractmock.NewMockExtractor().
		WithExtractFunc(func(ctx context.Context, raw []byte, filename string) (*core.ExtractionResult, error) {
			return richResult(10), nil
		})

	p, err := New(stores.Index, stores.Queue, extractor)
	require.NoError(t, err)
	t.Cleanup(p.Release)

	decision, err := p.Ingest(context.Background(), item("june.csv", relevantContent), Options{})
	require.NoError(t, err)
	assert.Equal(t, core.ActionProcess, decision.Action)
	assert.Empty(t, decision.PushResults)
	assert.Equal(t, uuid.Nil, decision.ReviewEntryID)
}
