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

import "errors"

// Failure taxonomy. Per-item failures (ErrExtraction, ErrTranscription) are
// contained and logged by pipelines; they never abort sibling items. Only
// ErrConfiguration is fatal at startup.
var (
	// ErrExtraction indicates unreadable media or an unextractable document.
	// The affected item is skipped; processing continues.
	ErrExtraction = errors.New("extraction failed")

	// ErrTranscription indicates the speech-to-text service failed after
	// retries were exhausted, or that no chunk of a video survived.
	ErrTranscription = errors.New("transcription failed")

	// ErrIndexNotReady indicates a query arrived before any corpus was
	// loaded. Callers degrade to an empty result rather than surfacing it.
	ErrIndexNotReady = errors.New("corpus index not ready")

	// ErrConfiguration indicates missing credentials or service endpoints
	// at startup. The process must not proceed.
	ErrConfiguration = errors.New("invalid configuration")
)

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidTranscript indicates a TranscriptRecord failed validation.
	ErrInvalidTranscript = errors.New("invalid transcript record")

	// ErrEmptyContent indicates the content/text field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptySource indicates the source/filename field is empty.
	ErrEmptySource = errors.New("source cannot be empty")
)
