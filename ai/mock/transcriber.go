package mock

import (
	"context"
	"path/filepath"
	"sync"
)

// MockTranscriber is a test double for ai.Transcriber.
// It allows custom behavior injection via a function field and records
// every call. Safe for concurrent use, since the video pipeline calls it
// from worker goroutines.
type MockTranscriber struct {
	// TranscribeFunc is called by Transcribe if set.
	// If nil, returns a deterministic transcript derived from the path.
	TranscribeFunc func(ctx context.Context, audioPath string) (string, error)

	mu    sync.Mutex
	calls []string
}

// NewMockTranscriber creates a mock transcriber with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{}
}

// Transcribe records the call and delegates to TranscribeFunc when set.
func (m *MockTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, audioPath)
	m.mu.Unlock()

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audioPath)
	}

	return "transcript of " + filepath.Base(audioPath), nil
}

// CallCount returns the number of Transcribe calls made.
func (m *MockTranscriber) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns a copy of the audio paths passed to Transcribe, in call order.
func (m *MockTranscriber) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Reset clears recorded calls and injected behavior.
func (m *MockTranscriber) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.TranscribeFunc = nil
}
