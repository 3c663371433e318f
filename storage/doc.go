// Copyright 2025 Poiesic Systems
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


// Package storage provides the vector store abstraction for the corpus.
//
// This package defines the VectorStore interface that decouples storage
// implementation from retrieval logic, allowing different backends to be
// used interchangeably.
//
// # Constructor Return Type Pattern
//
// Backend packages follow a "return interface" pattern for their public
// constructors:
//
//	store, err := badger.NewStore(path, embedder)  // returns storage.VectorStore
//
// This design decision prioritizes:
//   - Abstraction: Prevents accidental coupling to backend specifics
//   - Swappability: The embedded BadgerDB store and the ChromaDB client
//     are interchangeable behind the same interface
//   - Testing: Consumers can use in-memory stores without modification
//
// # Backends
//
//   - badger: embedded, persistent, no external services; vectors are
//     computed at upsert time by an injected embedder and queries are a
//     brute-force dot product scan
//   - chroma: client for a running ChromaDB server, which embeds and
//     indexes documents itself
//
// # Thread Safety
//
// All store implementations must be thread-safe and support concurrent
// access from multiple goroutines.
//
// # Context Support
//
// All store methods accept context.Context for cancellation and timeout
// support.
package storage
