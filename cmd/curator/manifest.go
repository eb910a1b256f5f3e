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

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/poiesic/curator/source"
	"gopkg.in/yaml.v3"
)

// Manifest lists the sources of one import.
//
//	urls:
//	  - https://example.com/guide
//	documents:
//	  - notes/install.md
type Manifest struct {
	URLs      []string `yaml:"urls"`
	Documents []string `yaml:"documents"`
}

// loadManifest reads a manifest. Relative document paths are resolved
// against the manifest's directory.
func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i, doc := range m.Documents {
		if !filepath.IsAbs(doc) {
			m.Documents[i] = filepath.Join(base, doc)
		}
	}
	return &m, nil
}

// buildWorkSet collects every URL and extracts every document of m.
// All problems are reported together.
func buildWorkSet(ctx context.Context, m *Manifest, extractor *source.FileExtractor) (*source.WorkSet, error) {
	ws := source.NewWorkSet()
	var errs []error

	for _, u := range m.URLs {
		if err := ws.AddURL(u); err != nil {
			errs = append(errs, err)
		}
	}
	for _, path := range m.Documents {
		doc, err := extractor.ExtractFile(ctx, path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := ws.AddDocument(doc); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return ws, nil
}
