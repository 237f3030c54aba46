package extract

import (
	"context"

	"github.com/rodeoai/chute/core"
)

// Extractor turns raw file bytes into structured records.
// Implementations must be thread-safe for concurrent use and idempotent:
// the same bytes must produce a logically identical ExtractionResult, so
// that data-level duplicate detection stays meaningful across submissions.
type Extractor interface {
	// Extract parses the raw content of a file into typed records.
	// It must report its own confidence (0-100) on the result.
	// Malformed or unsupported content returns a *FailureError; any
	// other error is treated as an internal fault by callers.
	Extract(ctx context.Context, raw []byte, filename string) (*core.ExtractionResult, error)
}
