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

package mock

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/poiesic/curator/ai"
)

// MockGenerator is a test double for ai.Generator.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, the draft content is the source texts joined by blank lines.
	GenerateFunc func(ctx context.Context, req ai.GenerateRequest) (*ai.GeneratedDraft, error)

	callCount atomic.Int64
}

// NewMockGenerator creates a generator with default behavior.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate implements ai.Generator.
func (m *MockGenerator) Generate(ctx context.Context, req ai.GenerateRequest) (*ai.GeneratedDraft, error) {
	m.callCount.Add(1)

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}

	texts := make([]string, 0, len(req.Sources))
	labels := make([]string, 0, len(req.Sources))
	for _, s := range req.Sources {
		texts = append(texts, s.Text)
		labels = append(labels, s.Label)
	}

	title := req.Title
	if title == "" {
		title = "Untitled"
	}

	return &ai.GeneratedDraft{
		Title:   title,
		Content: strings.Join(texts, "\n\n"),
		Sources: strings.Join(labels, "\n"),
	}, nil
}

// CallCount returns how many times Generate was called.
func (m *MockGenerator) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom behavior.
func (m *MockGenerator) Reset() {
	m.callCount.Store(0)
	m.GenerateFunc = nil
}
