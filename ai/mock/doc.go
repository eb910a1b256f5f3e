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

// Package mock provides deterministic test doubles for the ai capabilities.
//
// Each mock exposes a function field that replaces its default behavior and
// a call counter that is safe to read while the workflow runs capability
// calls concurrently.
//
// # Usage
//
//	gen := mock.NewMockGenerator()
//	gen.GenerateFunc = func(ctx context.Context, req ai.GenerateRequest) (*ai.GeneratedDraft, error) {
//	    return nil, errors.New("model unavailable")
//	}
//	provider := mock.NewMockProviderWithServices(nil, nil, nil, gen)
//
//	count := gen.CallCount()
//
// # Default Behavior
//
//   - MockClassifier: one create group holding every source
//   - MockDiscrepancyAnalyzer: moderate change
//   - MockCoherenceAnalyzer: coherent, no conflicts
//   - MockGenerator: concatenates the source texts into the draft content
//   - MockProvider: aggregates the four mocks above
package mock
