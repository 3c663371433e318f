package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validDocument() *Document {
	return &Document{
		Content:   "muscle metabolism pathways",
		Source:    "/materials/metabolism.pdf",
		Filename:  "metabolism.pdf",
		Type:      TypePDF,
		ChunkId:   0,
		ChunkSize: 26,
	}
}

func TestValidateDocument(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		assert.NoError(t, ValidateDocument(validDocument()))
	})

	t.Run("nil document", func(t *testing.T) {
		err := ValidateDocument(nil)
		assert.ErrorIs(t, err, ErrInvalidDocument)
	})

	t.Run("empty content", func(t *testing.T) {
		doc := validDocument()
		doc.Content = ""
		err := ValidateDocument(doc)
		assert.ErrorIs(t, err, ErrInvalidDocument)
		assert.ErrorIs(t, err, ErrEmptyContent)
	})

	t.Run("whitespace-only content", func(t *testing.T) {
		doc := validDocument()
		doc.Content = "  \n\t "
		assert.ErrorIs(t, ValidateDocument(doc), ErrEmptyContent)
	})

	t.Run("missing source", func(t *testing.T) {
		doc := validDocument()
		doc.Source = ""
		assert.ErrorIs(t, ValidateDocument(doc), ErrEmptySource)
	})

	t.Run("missing filename", func(t *testing.T) {
		doc := validDocument()
		doc.Filename = ""
		assert.ErrorIs(t, ValidateDocument(doc), ErrEmptySource)
	})
}

func TestValidateTranscriptRecord(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		rec := NewTranscriptRecord("/videos/w1.mp4", "transcribed speech", time.Now().UTC())
		assert.NoError(t, ValidateTranscriptRecord(rec))
	})

	t.Run("nil record", func(t *testing.T) {
		assert.ErrorIs(t, ValidateTranscriptRecord(nil), ErrInvalidTranscript)
	})

	t.Run("empty text", func(t *testing.T) {
		rec := NewTranscriptRecord("/videos/w1.mp4", "", time.Now().UTC())
		err := ValidateTranscriptRecord(rec)
		assert.ErrorIs(t, err, ErrInvalidTranscript)
		assert.ErrorIs(t, err, ErrEmptyContent)
	})

	t.Run("length mismatch", func(t *testing.T) {
		rec := NewTranscriptRecord("/videos/w1.mp4", "transcribed speech", time.Now().UTC())
		rec.Length = 3
		assert.ErrorIs(t, ValidateTranscriptRecord(rec), ErrInvalidTranscript)
	})
}
