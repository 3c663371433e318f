package ingestion

import "errors"

var (
	// ErrStoreRequired indicates a Pipeline was constructed without a store.
	ErrStoreRequired = errors.New("vector store is required")
)
