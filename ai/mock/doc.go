// Package mock provides test doubles for the ai package interfaces.
//
// The mocks default to deterministic behavior (hash-derived vectors,
// path-derived transcripts) so tests are reproducible without external
// services, and expose function fields for injecting failures.
package mock
