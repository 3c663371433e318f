// Package ingestion turns course source files into stored, chunked
// documents.
//
// The pipeline walks a directory, extracts plain text from PDFs and text
// files, splits each file into overlapping boundary-aware chunks and writes
// them to a vector store in small batches. Per-file failures are contained:
// a corrupt PDF or a failed batch is logged, counted in the run report and
// skipped, so one bad input never aborts an ingestion run.
package ingestion
