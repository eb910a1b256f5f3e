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

import "github.com/poiesic/curator/ai"

// MockProvider is a test double for ai.AIProvider.
type MockProvider struct {
	classifier  *MockClassifier
	discrepancy *MockDiscrepancyAnalyzer
	coherence   *MockCoherenceAnalyzer
	generator   *MockGenerator
}

// NewMockProvider creates a provider backed by default mocks.
func NewMockProvider() *MockProvider {
	return NewMockProviderWithServices(nil, nil, nil, nil)
}

// NewMockProviderWithServices creates a provider from the given mocks.
// Nil arguments are replaced with default mocks.
func NewMockProviderWithServices(
	classifier *MockClassifier,
	discrepancy *MockDiscrepancyAnalyzer,
	coherence *MockCoherenceAnalyzer,
	generator *MockGenerator,
) *MockProvider {
	if classifier == nil {
		classifier = NewMockClassifier()
	}
	if discrepancy == nil {
		discrepancy = NewMockDiscrepancyAnalyzer()
	}
	if coherence == nil {
		coherence = NewMockCoherenceAnalyzer()
	}
	if generator == nil {
		generator = NewMockGenerator()
	}
	return &MockProvider{
		classifier:  classifier,
		discrepancy: discrepancy,
		coherence:   coherence,
		generator:   generator,
	}
}

func (p *MockProvider) Classifier() ai.Classifier                   { return p.classifier }
func (p *MockProvider) DiscrepancyAnalyzer() ai.DiscrepancyAnalyzer { return p.discrepancy }
func (p *MockProvider) CoherenceAnalyzer() ai.CoherenceAnalyzer     { return p.coherence }
func (p *MockProvider) Generator() ai.Generator                     { return p.generator }

// Close does nothing.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockClassifier returns the concrete classifier for assertions.
func (p *MockProvider) GetMockClassifier() *MockClassifier { return p.classifier }

// GetMockDiscrepancy returns the concrete discrepancy analyzer for assertions.
func (p *MockProvider) GetMockDiscrepancy() *MockDiscrepancyAnalyzer { return p.discrepancy }

// GetMockCoherence returns the concrete coherence analyzer for assertions.
func (p *MockProvider) GetMockCoherence() *MockCoherenceAnalyzer { return p.coherence }

// GetMockGenerator returns the concrete generator for assertions.
func (p *MockProvider) GetMockGenerator() *MockGenerator { return p.generator }

var _ ai.AIProvider = (*MockProvider)(nil)
