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
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rodeoai/chute/core"
	"github.com/rodeoai/chute/extract"
)

var (
	datePattern  = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`)
	scorePattern = regexp.MustCompile(`\b\d{1,3}\.\d{1,2}\b`)
)

const (
	textWithSignalsConfidence = 30
	textNoSignalsConfidence   = 10
)

// extractText scans free text for rodeo-looking signals (ride scores and
// dates). Free text always needs manual field mapping; the detected
// signals only inform the reported confidence, no records are guessed.
func (e *Extractor) extractText(raw []byte, filename string) (*core.ExtractionResult, error) {
	if !utf8.Valid(raw) {
		return nil, extract.NewFailure(filename, "content is not valid UTF-8 text", nil)
	}
	text := string(raw)
	if strings.TrimSpace(text) == "" {
		return nil, extract.NewFailure(filename, "file contains no text", nil)
	}

	dates := datePattern.FindAllString(text, -1)
	scores := scorePattern.FindAllString(text, -1)

	confidence := textNoSignalsConfidence
	if len(dates) > 0 || len(scores) > 0 {
		confidence = textWithSignalsConfidence
	}

	e.logger.Debug("scanned text file",
		"filename", filename,
		"dates", len(dates),
		"scores", len(scores))

	return &core.ExtractionResult{
		Source:       filename,
		Confidence:   confidence,
		NeedsMapping: true,
	}, nil
}
