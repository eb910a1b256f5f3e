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

	"github.com/poiesic/curator/core"
)

// MockDiscrepancyAnalyzer is a test double for ai.DiscrepancyAnalyzer.
type MockDiscrepancyAnalyzer struct {
	// AnalyzeFunc is called by AnalyzeDiscrepancy if set.
	AnalyzeFunc func(ctx context.Context, prior, newText string) (*core.Discrepancy, error)

	callCount atomic.Int64
}

// NewMockDiscrepancyAnalyzer creates an analyzer that reports a moderate change.
func NewMockDiscrepancyAnalyzer() *MockDiscrepancyAnalyzer {
	return &MockDiscrepancyAnalyzer{}
}

// AnalyzeDiscrepancy implements ai.DiscrepancyAnalyzer.
func (m *MockDiscrepancyAnalyzer) AnalyzeDiscrepancy(ctx context.Context, prior, newText string) (*core.Discrepancy, error) {
	m.callCount.Add(1)

	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, prior, newText)
	}

	return &core.Discrepancy{
		ChangeLevel:      core.ChangeModerate,
		ChangePercentage: 30,
		Recommendation:   "review the new material",
	}, nil
}

// CallCount returns how many times AnalyzeDiscrepancy was called.
func (m *MockDiscrepancyAnalyzer) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom behavior.
func (m *MockDiscrepancyAnalyzer) Reset() {
	m.callCount.Store(0)
	m.AnalyzeFunc = nil
}

// MockCoherenceAnalyzer is a test double for ai.CoherenceAnalyzer.
type MockCoherenceAnalyzer struct {
	// AnalyzeFunc is called by AnalyzeCoherence if set.
	AnalyzeFunc func(ctx context.Context, texts []string) (*core.Coherence, error)

	callCount atomic.Int64
}

// NewMockCoherenceAnalyzer creates an analyzer that always reports coherence.
func NewMockCoherenceAnalyzer() *MockCoherenceAnalyzer {
	return &MockCoherenceAnalyzer{}
}

// AnalyzeCoherence implements ai.CoherenceAnalyzer.
func (m *MockCoherenceAnalyzer) AnalyzeCoherence(ctx context.Context, texts []string) (*core.Coherence, error) {
	m.callCount.Add(1)

	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, texts)
	}

	return &core.Coherence{
		Coherent:   true,
		Level:      "high",
		Percentage: 100,
	}, nil
}

// CallCount returns how many times AnalyzeCoherence was called.
func (m *MockCoherenceAnalyzer) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom behavior.
func (m *MockCoherenceAnalyzer) Reset() {
	m.callCount.Store(0)
	m.AnalyzeFunc = nil
}
