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


package ingestion

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/poiesic/gait/core"
)

// ExtractedFile is the raw text pulled from a single source file before
// chunking.
type ExtractedFile struct {
	Path     string
	Filename string
	Type     string
	Text     string
}

// ExtractText reads a single file and returns its plain text content.
// PDF pages that cannot be decoded are skipped rather than failing the
// whole file.
func ExtractText(path string) (string, string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err := extractPDF(path)
		return text, core.TypePDF, err
	case ".txt", ".md":
		b, err := os.ReadFile(path)
		if err != nil {
			return "", core.TypeText, fmt.Errorf("%w: reading %s: %v", core.ErrExtraction, path, err)
		}
		return string(b), core.TypeText, nil
	default:
		return "", "", fmt.Errorf("%w: unsupported file type %s", core.ErrExtraction, path)
	}
}

func extractPDF(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", core.ErrExtraction, path, err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return "", fmt.Errorf("%w: parsing %s: %v", core.ErrExtraction, path, err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Unreadable pages are tolerated, the rest of the
			// document is still usable.
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// ExtractDirectory walks dir and extracts text from every supported file
// (.pdf, .txt, .md). Files that fail extraction are logged and skipped so
// one corrupt document never aborts a run.
func ExtractDirectory(dir string, logger *slog.Logger) ([]ExtractedFile, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var out []ExtractedFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".pdf" && ext != ".txt" && ext != ".md" {
			return nil
		}

		text, docType, exErr := ExtractText(path)
		if exErr != nil {
			logger.Warn("skipping file, extraction failed", "path", path, "error", exErr)
			return nil
		}
		if strings.TrimSpace(text) == "" {
			logger.Warn("skipping file, no extractable text", "path", path)
			return nil
		}

		out = append(out, ExtractedFile{
			Path:     path,
			Filename: filepath.Base(path),
			Type:     docType,
			Text:     text,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: walking %s: %v", core.ErrExtraction, dir, err)
	}

	return out, nil
}
