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


// Package tabular extracts rodeo records from CSV, Excel and plain-text
// files. Table kinds (results, predictions, events) are detected from
// column names; tables that match no kind are flagged as needing manual
// field mapping rather than guessed at.
package tabular

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/rodeoai/chute/core"
	"github.com/rodeoai/chute/extract"
)

// Extractor parses tabular rodeo data files. Extraction is deterministic:
// unparsable dates become zero times and missing fields stay empty instead
// of being filled with wall-clock defaults, so identical bytes always
// produce an identical result.
type Extractor struct {
	logger *slog.Logger
}

var _ extract.Extractor = (*Extractor)(nil)

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// New creates a tabular Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract dispatches on the filename extension. PDF and image content is
// not supported (it would need OCR) and reports an extraction failure so
// those files land in human review instead of being dropped.
func (e *Extractor) Extract(ctx context.Context, raw []byte, filename string) (*core.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, extract.NewFailure(filename, "file is empty", nil)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	e.logger.Debug("extracting file", "filename", filename, "ext", ext, "bytes", len(raw))

	switch ext {
	case ".csv":
		return e.extractCSV(raw, filename)
	case ".xlsx", ".xls":
		return e.extractExcel(raw, filename)
	case ".txt":
		return e.extractText(raw, filename)
	case ".pdf":
		return nil, extract.NewFailure(filename, "PDF extraction is not supported without OCR", nil)
	case ".jpg", ".jpeg", ".png":
		return nil, extract.NewFailure(filename, "image extraction is not supported without OCR", nil)
	default:
		return nil, extract.NewFailure(filename, "unsupported file type "+ext, nil)
	}
}
