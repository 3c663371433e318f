// Package index provides an in-memory TF-IDF similarity index over the
// ingested corpus.
//
// The index needs no external services: the vectorizer fits a vocabulary
// over the loaded documents and similarity is cosine over L2-normalized
// TF-IDF vectors. It trades recall for availability, serving as the local
// retrieval path when embedding APIs are not configured or unreachable.
package index
