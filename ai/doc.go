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

// Package ai provides abstractions for the language-model capabilities used by Curator.
//
// The import workflow depends on four capabilities, each behind its own interface:
//
//   - Classifier: bundles a work set of sources into proposed groups
//   - DiscrepancyAnalyzer: compares new material against an existing unit
//   - CoherenceAnalyzer: flags contradictions between sources in one group
//   - Generator: writes the candidate title and content for a group
//
// AIProvider aggregates the four for convenient initialization and lifecycle management.
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible chat APIs
//   - ai/mock: deterministic test doubles for exercising the workflow without a model
//
// Public constructors in ai/openai return interface types. Mock constructors
// return concrete types so tests can inject behavior and assert call counts.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithHost("http://localhost:11434"))
//	provider, err := openai.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	groups, err := provider.Classifier().Classify(ctx, ai.ClassifyRequest{URLs: urls})
package ai
