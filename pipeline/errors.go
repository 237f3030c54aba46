package pipeline

import "errors"

var (
	// ErrDuplicateIndexRequired is returned when a duplicate index is not provided.
	ErrDuplicateIndexRequired = errors.New("duplicate index required")

	// ErrReviewQueueRequired is returned when a review queue is not provided.
	ErrReviewQueueRequired = errors.New("review queue required")

	// ErrExtractorRequired is returned when an extractor is not provided.
	ErrExtractorRequired = errors.New("extractor required")
)
