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
	"encoding/csv"
	"strings"

	"github.com/rodeoai/chute/core"
	"github.com/rodeoai/chute/extract"
)

// Confidence reported for tables whose kind could be detected versus
// tables that need manual field mapping.
const (
	typedTableConfidence   = 85
	genericTableConfidence = 25
)

type tableKind int

const (
	kindGeneric tableKind = iota
	kindResults
	kindPredictions
	kindEvents
)

// Column-name fragments identifying each table kind. Detection order
// matters: a results table often also carries event columns.
var (
	resultIndicators     = []string{"result", "score", "placement", "winner", "actual"}
	predictionIndicators = []string{"prediction", "confidence", "predicted", "odds"}
	eventIndicators      = []string{"event", "competition", "rodeo", "date", "location"}
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func (e *Extractor) extractCSV(raw []byte, filename string) (*core.ExtractionResult, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, extract.NewFailure(filename, "malformed CSV", err)
	}
	if len(rows) == 0 {
		return nil, extract.NewFailure(filename, "CSV has no rows", nil)
	}

	header := newHeader(rows[0])
	kind := detectKind(header)
	result := parseTable(kind, header, rows[1:], filename)

	e.logger.Debug("parsed CSV",
		"filename", filename,
		"kind", kind,
		"rows", len(rows)-1,
		"records", result.TotalRecords())
	return result, nil
}

// parseTable converts data rows into typed records according to the
// detected table kind.
func parseTable(kind tableKind, header *header, rows [][]string, source string) *core.ExtractionResult {
	result := &core.ExtractionResult{
		Source:     source,
		Confidence: typedTableConfidence,
	}

	switch kind {
	case kindResults:
		for _, row := range rows {
			parseResultRow(header, row, result)
		}
	case kindPredictions:
		for _, row := range rows {
			parsePredictionRow(header, row, result)
		}
	case kindEvents:
		for _, row := range rows {
			parseEventRow(header, row, result)
		}
	default:
		// Unknown structure: surface the table for manual mapping
		// instead of guessing at field meanings.
		result.Confidence = genericTableConfidence
		result.NeedsMapping = true
	}
	return result
}

// parseResultRow emits an event, a rider and a result record from one row
// of a results table.
func parseResultRow(h *header, row []string, out *core.ExtractionResult) {
	event := core.Event{
		Name:      h.field(row, "event_name", "event"),
		Location:  h.field(row, "location"),
		EventDate: parseDate(h.field(row, "date", "event_date")),
		EventType: h.field(row, "event_type", "discipline"),
	}
	rider := core.Rider{
		Name:    h.field(row, "rider_name", "rider", "name"),
		Rank:    safeInt(h.field(row, "rank")),
		WinRate: safeFloat(h.field(row, "win_rate")),
	}
	out.Events = append(out.Events, event)
	out.Riders = append(out.Riders, rider)
	out.Results = append(out.Results, core.Result{
		EventName:   event.Name,
		RiderName:   rider.Name,
		ActualValue: h.field(row, "result", "outcome"),
		Score:       safeFloat(h.field(row, "score")),
		Placement:   safeInt(h.field(row, "placement", "place")),
	})
}

func parsePredictionRow(h *header, row []string, out *core.ExtractionResult) {
	var confidence float64
	if v := safeFloat(h.field(row, "confidence")); v != nil {
		confidence = *v
	}

	prediction := core.Prediction{
		EventName:      h.field(row, "event_name", "event"),
		RiderName:      h.field(row, "rider_name", "rider", "name"),
		PredictionType: h.field(row, "prediction_type"),
		PredictedValue: h.field(row, "predicted_value", "prediction"),
		Confidence:     confidence,
		Odds:           safeFloat(h.field(row, "odds")),
		ModelVersion:   h.field(row, "model_version"),
		Analysis:       h.field(row, "analysis"),
	}
	if prediction.PredictionType == "" {
		prediction.PredictionType = "winner"
	}
	out.Predictions = append(out.Predictions, prediction)
}

func parseEventRow(h *header, row []string, out *core.ExtractionResult) {
	out.Events = append(out.Events, core.Event{
		Name:      h.field(row, "name", "event_name"),
		Location:  h.field(row, "location"),
		EventDate: parseDate(h.field(row, "date", "event_date")),
		EventType: h.field(row, "event_type", "type"),
		PrizePool: safeFloat(h.field(row, "prize_pool")),
	})
}

// header maps normalized column names to their positions.
type header struct {
	index map[string]int
	names []string
}

func newHeader(row []string) *header {
	h := &header{index: make(map[string]int, len(row))}
	for i, name := range row {
		name = normalizeColumn(name)
		h.names = append(h.names, name)
		if _, exists := h.index[name]; !exists {
			h.index[name] = i
		}
	}
	return h
}

// field returns the trimmed cell under the first matching column name.
func (h *header) field(row []string, candidates ...string) string {
	for _, name := range candidates {
		i, ok := h.index[name]
		if !ok || i >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[i]); v != "" {
			return v
		}
	}
	return ""
}

func detectKind(h *header) tableKind {
	switch {
	case h.matchesAny(resultIndicators):
		return kindResults
	case h.matchesAny(predictionIndicators):
		return kindPredictions
	case h.matchesAny(eventIndicators):
		return kindEvents
	default:
		return kindGeneric
	}
}

func (h *header) matchesAny(indicators []string) bool {
	for _, name := range h.names {
		for _, ind := range indicators {
			if strings.Contains(name, ind) {
				return true
			}
		}
	}
	return false
}

// normalizeColumn lowercases a column name and joins its words with
// underscores, so "Event Name" and "event_name" address the same column.
func normalizeColumn(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), "_")
}

func (k tableKind) String() string {
	switch k {
	case kindResults:
		return "results"
	case kindPredictions:
		return "predictions"
	case kindEvents:
		return "events"
	default:
		return "generic"
	}
}
