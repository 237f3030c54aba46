package sink

import (
	"context"

	"github.com/rodeoai/chute/core"
)

// Sink persists accepted extraction results to a remote store.
// Implementations must be thread-safe for concurrent use. A Sink never
// retries internally; failures are surfaced per record and the caller
// owns any retry policy.
type Sink interface {
	// Push sends every pushable record of the result to the store and
	// returns one status per record, in record order. A non-nil error
	// reports a fault that prevented the push as a whole; partial
	// failures are reported through the statuses instead.
	Push(ctx context.Context, result *core.ExtractionResult) ([]core.RecordStatus, error)
}
