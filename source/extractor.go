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

package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/curator/core"
)

// DefaultMaxDocumentSize is the largest file FileExtractor reads.
const DefaultMaxDocumentSize = 10 * 1024 * 1024

// Extractor turns an uploaded file into a text document.
type Extractor interface {
	Extract(ctx context.Context, filename string, r io.Reader) (core.Document, error)
}

// FileExtractor reads plain text, markdown and HTML files.
type FileExtractor struct {
	converter *Converter
	maxSize   int64
}

var _ Extractor = (*FileExtractor)(nil)

// NewFileExtractor creates an extractor limited to maxSize bytes per file.
// A non-positive maxSize uses DefaultMaxDocumentSize.
func NewFileExtractor(maxSize int64) *FileExtractor {
	if maxSize <= 0 {
		maxSize = DefaultMaxDocumentSize
	}
	return &FileExtractor{
		converter: NewConverter(),
		maxSize:   maxSize,
	}
}

// Extract reads r and returns a document whose id is derived from filename and content.
func (e *FileExtractor) Extract(ctx context.Context, filename string, r io.Reader) (core.Document, error) {
	if err := ctx.Err(); err != nil {
		return core.Document{}, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", ".md", ".markdown", ".html", ".htm":
	default:
		return core.Document{}, fmt.Errorf("%w: %s", ErrUnsupportedDocument, filename)
	}

	data, err := io.ReadAll(io.LimitReader(r, e.maxSize+1))
	if err != nil {
		return core.Document{}, fmt.Errorf("read %s: %w", filename, err)
	}
	if int64(len(data)) > e.maxSize {
		return core.Document{}, fmt.Errorf("%w: %s exceeds %d bytes", ErrContentTooLarge, filename, e.maxSize)
	}
	if !utf8.Valid(data) {
		return core.Document{}, fmt.Errorf("%w: %s is not UTF-8 text", ErrUnsupportedDocument, filename)
	}

	content := string(data)
	if ext == ".html" || ext == ".htm" {
		page, err := e.converter.Convert(content)
		if err != nil {
			return core.Document{}, fmt.Errorf("convert %s: %w", filename, err)
		}
		content = page.Text()
	}
	content = strings.TrimSpace(content)

	base := filepath.Base(filename)
	return core.Document{
		ID:       DocumentID(base, content),
		Filename: base,
		Content:  content,
	}, nil
}

// ExtractFile opens path and extracts it.
func (e *FileExtractor) ExtractFile(ctx context.Context, path string) (core.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.Document{}, err
	}
	defer f.Close()
	return e.Extract(ctx, path, f)
}

// DocumentID returns a stable id for a document's name and content.
func DocumentID(filename, content string) string {
	return strconv.FormatUint(uint64(core.IDFromContent(filename+"\x00"+content)), 16)
}
