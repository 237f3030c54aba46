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


package extract

import (
	"errors"
	"fmt"
)

// FailureError reports that content could not be extracted. It marks the
// expected, recoverable failure mode of an Extractor: malformed or
// unsupported input that a human can still look at. Callers distinguish it
// from internal faults with IsFailure or errors.As.
type FailureError struct {
	Filename string
	Reason   string
	Err      error
}

func (e *FailureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed for %s: %s: %v", e.Filename, e.Reason, e.Err)
	}
	return fmt.Sprintf("extraction failed for %s: %s", e.Filename, e.Reason)
}

func (e *FailureError) Unwrap() error {
	return e.Err
}

// NewFailure creates a FailureError for the given file.
func NewFailure(filename, reason string, err error) *FailureError {
	return &FailureError{Filename: filename, Reason: reason, Err: err}
}

// IsFailure reports whether err is (or wraps) an extraction failure.
func IsFailure(err error) bool {
	var fe *FailureError
	return errors.As(err, &fe)
}
