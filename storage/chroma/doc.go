// Package chroma implements the vector store on a ChromaDB server.
// Embedding and nearest-neighbour indexing happen server-side; this
// package only maps documents and query results across the wire.
package chroma
