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

	"github.com/xuri/excelize/v2"

	"github.com/rodeoai/chute/core"
	"github.com/rodeoai/chute/extract"
)

// extractExcel parses every sheet of a workbook with the same kind
// detection used for CSVs and merges the per-sheet records. The merged
// confidence is the lowest sheet confidence; one unmappable sheet flags
// the whole workbook for manual mapping.
func (e *Extractor) extractExcel(raw []byte, filename string) (*core.ExtractionResult, error) {
	book, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, extract.NewFailure(filename, "malformed Excel workbook", err)
	}
	defer book.Close()

	merged := &core.ExtractionResult{Source: filename}
	parsedSheets := 0

	for _, sheet := range book.GetSheetList() {
		rows, err := book.GetRows(sheet)
		if err != nil {
			return nil, extract.NewFailure(filename, "unreadable sheet "+sheet, err)
		}
		if len(rows) == 0 {
			continue
		}

		header := newHeader(rows[0])
		kind := detectKind(header)
		sheetResult := parseTable(kind, header, rows[1:], filename)

		e.logger.Debug("parsed sheet",
			"filename", filename,
			"sheet", sheet,
			"kind", kind,
			"records", sheetResult.TotalRecords())

		merged.Events = append(merged.Events, sheetResult.Events...)
		merged.Riders = append(merged.Riders, sheetResult.Riders...)
		merged.Predictions = append(merged.Predictions, sheetResult.Predictions...)
		merged.Results = append(merged.Results, sheetResult.Results...)
		merged.NeedsMapping = merged.NeedsMapping || sheetResult.NeedsMapping

		if parsedSheets == 0 || sheetResult.Confidence < merged.Confidence {
			merged.Confidence = sheetResult.Confidence
		}
		parsedSheets++
	}

	if parsedSheets == 0 {
		return nil, extract.NewFailure(filename, "workbook has no non-empty sheets", nil)
	}
	return merged, nil
}
