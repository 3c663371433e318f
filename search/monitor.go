package search

import "github.com/poiesic/gait/core"

// RetrievalMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps during context
// assembly.
type RetrievalMonitor interface {
	Start(query string)
	AfterSimilaritySearch(matches []*core.SimilarityMatch)
	BelowFloor(match *core.SimilarityMatch)
	DuplicateSource(match *core.SimilarityMatch)
	Accepted(match *core.SimilarityMatch)
	Finish(result *core.RetrievalResult)
}

// noopMonitor is a no-op implementation of RetrievalMonitor
type noopMonitor struct{}

var _ RetrievalMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                  {}
func (n *noopMonitor) AfterSimilaritySearch(_ []*core.SimilarityMatch) {}
func (n *noopMonitor) BelowFloor(_ *core.SimilarityMatch)              {}
func (n *noopMonitor) DuplicateSource(_ *core.SimilarityMatch)         {}
func (n *noopMonitor) Accepted(_ *core.SimilarityMatch)                {}
func (n *noopMonitor) Finish(_ *core.RetrievalResult)                  {}
