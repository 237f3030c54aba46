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
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order when coercing date cells.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01-02-2006",
	"2006/01/02",
	time.RFC3339,
}

// parseDate coerces a cell to a UTC timestamp. Empty or unparsable values
// yield the zero time; they never fall back to the current time, which
// would make extraction non-deterministic.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// safeFloat coerces a cell to a float, nil when empty or malformed.
func safeFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// safeInt coerces a cell to an int, accepting float formatting ("3.0"),
// nil when empty or malformed.
func safeInt(s string) *int {
	f := safeFloat(s)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}
