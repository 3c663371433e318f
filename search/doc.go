// Package search assembles query context from the most relevant corpus
// chunks.
//
// The retriever over-fetches candidates from a similarity querier, drops
// matches below a configurable floor, enforces one chunk per source file
// and joins the survivors into an attributed context block. Queries that
// match nothing produce a fixed no-context answer rather than an error.
package search
