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
	"sync/atomic"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/core"
)

// MockClassifier is a test double for ai.Classifier.
type MockClassifier struct {
	// ClassifyFunc is called by Classify if set.
	// If nil, every source goes into a single create group.
	ClassifyFunc func(ctx context.Context, req ai.ClassifyRequest) ([]ai.ProposedGroup, error)

	callCount atomic.Int64
}

// NewMockClassifier creates a classifier with default behavior.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// Classify implements ai.Classifier.
func (m *MockClassifier) Classify(ctx context.Context, req ai.ClassifyRequest) ([]ai.ProposedGroup, error) {
	m.callCount.Add(1)

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, req)
	}

	group := ai.ProposedGroup{
		Kind:      core.KindCreate,
		Title:     "Imported material",
		URLs:      append([]string(nil), req.URLs...),
		Rationale: "all sources bundled together",
	}
	for _, d := range req.Documents {
		group.DocumentIDs = append(group.DocumentIDs, d.ID)
	}
	return []ai.ProposedGroup{group}, nil
}

// CallCount returns how many times Classify was called.
func (m *MockClassifier) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom behavior.
func (m *MockClassifier) Reset() {
	m.callCount.Store(0)
	m.ClassifyFunc = nil
}
