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


package core

import (
	"fmt"
	"strings"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Content must not be empty or whitespace-only
//   - Source and Filename must not be empty
//
// NOT validated (populated later):
//   - Vector (can be empty until the store embeds it)
//   - ID (0 is assigned before upsert)
//
// Every persisted unit must carry a non-empty source and non-empty content;
// empty extraction results are dropped, never stored.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if strings.TrimSpace(doc.Content) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	if doc.Source == "" || doc.Filename == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptySource)
	}

	return nil
}

// ValidateTranscriptRecord validates a TranscriptRecord according to domain
// rules: the text and source video path must be non-empty, and the declared
// length must match the text.
func ValidateTranscriptRecord(rec *TranscriptRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidTranscript)
	}

	if strings.TrimSpace(rec.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTranscript, ErrEmptyContent)
	}

	if rec.SourceVideo == "" || rec.Filename == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTranscript, ErrEmptySource)
	}

	if rec.Length != len(rec.Text) {
		return fmt.Errorf("%w: declared length %d does not match text length %d",
			ErrInvalidTranscript, rec.Length, len(rec.Text))
	}

	return nil
}
