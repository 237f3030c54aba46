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


package tabular

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rodeoai/chute/core"
	"github.com/rodeoai/chute/extract"
)

const resultsCSV = `event_name,location,date,event_type,rider_name,rank,win_rate,result,score,placement
Calgary Stampede,Calgary,2024-07-05,bull riding,Jess Lockwood,1,0.62,ride,89.5,1
Calgary Stampede,Calgary,2024-07-05,bull riding,Jose Leme,2,0.58,buckoff,,4
`

func TestExtractResultsCSV(t *testing.T) {
	e := New()

	result, err := e.Extract(context.Background(), []byte(resultsCSV), "results.csv")
	require.NoError(t, err)

	require.Len(t, result.Events, 2)
	require.Len(t, result.Riders, 2)
	require.Len(t, result.Results, 2)
	assert.Equal(t, typedTableConfidence, result.Confidence)
	assert.False(t, result.NeedsMapping)
	assert.Equal(t, "results.csv", result.Source)

	event := result.Events[0]
	assert.Equal(t, "Calgary Stampede", event.Name)
	assert.Equal(t, "Calgary", event.Location)
	assert.Equal(t, time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC), event.EventDate)
	assert.Equal(t, "bull riding", event.EventType)

	rider := result.Riders[0]
	assert.Equal(t, "Jess Lockwood", rider.Name)
	require.NotNil(t, rider.Rank)
	assert.Equal(t, 1, *rider.Rank)
	require.NotNil(t, rider.WinRate)
	assert.InDelta(t, 0.62, *rider.WinRate, 1e-9)

	first := result.Results[0]
	assert.Equal(t, "Calgary Stampede", first.EventName)
	assert.Equal(t, "Jess Lockwood", first.RiderName)
	assert.Equal(t, "ride", first.ActualValue)
	require.NotNil(t, first.Score)
	assert.InDelta(t, 89.5, *first.Score, 1e-9)

	// Missing score cell coerces to nil, not zero.
	assert.Nil(t, result.Results[1].Score)
}

func TestExtractPredictionsCSV(t *testing.T) {
	e := New()
	content := "event,rider,prediction_type,predicted_value,confidence,odds\n" +
		"NFR Round 5,Stetson Wright,winner,Stetson Wright,87.5,2.4\n"

	result, err := e.Extract(context.Background(), []byte(content), "preds.csv")
	require.NoError(t, err)

	require.Len(t, result.Predictions, 1)
	p := result.Predictions[0]
	assert.Equal(t, "NFR Round 5", p.EventName)
	assert.Equal(t, "Stetson Wright", p.RiderName)
	assert.Equal(t, "winner", p.PredictionType)
	assert.InDelta(t, 87.5, p.Confidence, 1e-9)
	require.NotNil(t, p.Odds)
	assert.InDelta(t, 2.4, *p.Odds, 1e-9)
	assert.Empty(t, result.Events)
}

func TestExtractEventsCSV(t *testing.T) {
	e := New()
	// No result or prediction columns, so this detects as an events table.
	content := "name,location,event_type,prize_pool\n" +
		"Cheyenne Frontier Days,Cheyenne,rodeo,1000000\n"

	result, err := e.Extract(context.Background(), []byte(content), "events.csv")
	require.NoError(t, err)

	require.Len(t, result.Events, 1)
	event := result.Events[0]
	assert.Equal(t, "Cheyenne Frontier Days", event.Name)
	require.NotNil(t, event.PrizePool)
	assert.InDelta(t, 1000000, *event.PrizePool, 1e-9)
	assert.True(t, event.EventDate.IsZero())
}

func TestExtractGenericCSVNeedsMapping(t *testing.T) {
	e := New()
	content := "alpha,beta,gamma\n1,2,3\n4,5,6\n"

	result, err := e.Extract(context.Background(), []byte(content), "mystery.csv")
	require.NoError(t, err)

	assert.True(t, result.NeedsMapping)
	assert.Equal(t, genericTableConfidence, result.Confidence)
	assert.Zero(t, result.TotalRecords())
}

func TestExtractCSVWithBOMAndSpacedHeaders(t *testing.T) {
	e := New()
	content := append([]byte{0xEF, 0xBB, 0xBF},
		[]byte("Event Name,Rider Name,Score\nCalgary,Jess,88.25\n")...)

	result, err := e.Extract(context.Background(), content, "bom.csv")
	require.NoError(t, err)

	require.Len(t, result.Results, 1)
	assert.Equal(t, "Calgary", result.Results[0].EventName)
	assert.Equal(t, "Jess", result.Results[0].RiderName)
}

func TestExtractUnsupportedContent(t *testing.T) {
	e := New()
	ctx := context.Background()

	for _, name := range []string{"scan.pdf", "photo.jpg", "archive.zip"} {
		_, err := e.Extract(ctx, []byte("content"), name)
		require.Error(t, err, name)
		assert.True(t, extract.IsFailure(err), "%s must report an extraction failure", name)
	}

	_, err := e.Extract(ctx, nil, "empty.csv")
	assert.True(t, extract.IsFailure(err))
}

func TestExtractTextFile(t *testing.T) {
	e := New()
	ctx := context.Background()

	result, err := e.Extract(ctx, []byte("Jess Lockwood rode 89.5 on 7/5/2024 in Calgary"), "notes.txt")
	require.NoError(t, err)
	assert.True(t, result.NeedsMapping)
	assert.Equal(t, textWithSignalsConfidence, result.Confidence)
	assert.Zero(t, result.TotalRecords())

	result, err = e.Extract(ctx, []byte("nothing quantitative in here"), "memo.txt")
	require.NoError(t, err)
	assert.Equal(t, textNoSignalsConfidence, result.Confidence)

	_, err = e.Extract(ctx, []byte{0xff, 0xfe, 0x01}, "binary.txt")
	assert.True(t, extract.IsFailure(err))
}

func TestExtractExcelWorkbook(t *testing.T) {
	e := New()

	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	rows := [][]any{
		{"event_name", "rider_name", "score", "placement"},
		{"Calgary Stampede", "Jess Lockwood", 89.5, 1},
		{"Calgary Stampede", "Jose Leme", 87.0, 2},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, book.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, book.Write(&buf))
	require.NoError(t, book.Close())

	result, err := e.Extract(context.Background(), buf.Bytes(), "standings.xlsx")
	require.NoError(t, err)

	require.Len(t, result.Results, 2)
	assert.Equal(t, "Jose Leme", result.Results[1].RiderName)
	assert.Equal(t, typedTableConfidence, result.Confidence)
	assert.False(t, result.NeedsMapping)
}

func TestExtractDeterministic(t *testing.T) {
	e := New()
	ctx := context.Background()

	first, err := e.Extract(ctx, []byte(resultsCSV), "results.csv")
	require.NoError(t, err)
	second, err := e.Extract(ctx, []byte(resultsCSV), "results.csv")
	require.NoError(t, err)

	assert.Equal(t, core.HashCanonical(first), core.HashCanonical(second))
}

func TestParseDateLayouts(t *testing.T) {
	want := time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{"2024-07-05", "7/5/2024", "07-05-2024", "2024/07/05"} {
		assert.Equal(t, want, parseDate(s), s)
	}
	assert.True(t, parseDate("thursday-ish").IsZero())
	assert.True(t, parseDate("").IsZero())
}

func TestSafeCoercions(t *testing.T) {
	require.NotNil(t, safeInt("3.0"))
	assert.Equal(t, 3, *safeInt("3.0"))
	assert.Nil(t, safeInt("n/a"))
	assert.Nil(t, safeFloat(""))
	require.NotNil(t, safeFloat(" 12.5 "))
	assert.InDelta(t, 12.5, *safeFloat(" 12.5 "), 1e-9)
}
