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
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/poiesic/curator/core"
)

// WorkSet is the input to a batch: URLs plus already-extracted documents.
// URLs are unique and keep first-seen order; documents are unique by id.
type WorkSet struct {
	URLs      []string
	Documents []core.Document
}

// NewWorkSet returns an empty work set.
func NewWorkSet() *WorkSet {
	return &WorkSet{}
}

// AddURL validates and appends u. A URL already present is ignored.
func (w *WorkSet) AddURL(u string) error {
	normalized, err := NormalizeURL(u)
	if err != nil {
		return err
	}
	if !slices.Contains(w.URLs, normalized) {
		w.URLs = append(w.URLs, normalized)
	}
	return nil
}

// AddURLs splits text into URLs and adds each one.
// Valid URLs are added even when others fail; failures are joined into the returned error.
func (w *WorkSet) AddURLs(text string) error {
	var errs []error
	for _, u := range SplitURLs(text) {
		if err := w.AddURL(u); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AddDocument appends doc. Documents must have an id and non-blank content.
func (w *WorkSet) AddDocument(doc core.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("%w: %s: missing id", ErrUnsupportedDocument, doc.Filename)
	}
	if strings.TrimSpace(doc.Content) == "" {
		return fmt.Errorf("%w: %s: no text content", ErrUnsupportedDocument, doc.Filename)
	}
	if w.Document(doc.ID) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateDocument, doc.ID)
	}
	w.Documents = append(w.Documents, doc)
	return nil
}

// Document returns the document with id, or nil.
func (w *WorkSet) Document(id string) *core.Document {
	for i := range w.Documents {
		if w.Documents[i].ID == id {
			return &w.Documents[i]
		}
	}
	return nil
}

// IsEmpty reports whether the work set has no URLs and no documents.
func (w *WorkSet) IsEmpty() bool {
	return w == nil || (len(w.URLs) == 0 && len(w.Documents) == 0)
}

// Len returns the total number of sources.
func (w *WorkSet) Len() int {
	if w == nil {
		return 0
	}
	return len(w.URLs) + len(w.Documents)
}
