package search

import "errors"

var (
	// ErrQuerierRequired indicates a Retriever was constructed without a
	// querier.
	ErrQuerierRequired = errors.New("querier is required")
)
