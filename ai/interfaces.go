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

package ai

import (
	"context"

	"github.com/poiesic/curator/core"
)

// Classifier proposes how a work set of sources should be bundled into knowledge units.
// Implementations must be thread-safe for concurrent use.
type Classifier interface {
	// Classify returns proposed groups for the sources in req.
	// The result may drop or duplicate sources; callers reconcile it.
	// Returns an error if the call fails or the response cannot be parsed.
	Classify(ctx context.Context, req ClassifyRequest) ([]ProposedGroup, error)
}

// DiscrepancyAnalyzer compares new source text against an existing unit's content.
// Implementations must be thread-safe for concurrent use.
type DiscrepancyAnalyzer interface {
	// AnalyzeDiscrepancy classifies how much newText would change prior.
	AnalyzeDiscrepancy(ctx context.Context, prior, newText string) (*core.Discrepancy, error)
}

// CoherenceAnalyzer checks a set of source texts for mutual contradiction.
// Implementations must be thread-safe for concurrent use.
type CoherenceAnalyzer interface {
	// AnalyzeCoherence returns the coherence verdict for texts.
	AnalyzeCoherence(ctx context.Context, texts []string) (*core.Coherence, error)
}

// Generator writes a candidate knowledge unit from source material.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate produces a draft for req.
	// Returns an error if the call fails or the output is malformed.
	Generate(ctx context.Context, req GenerateRequest) (*GeneratedDraft, error)
}

// AIProvider aggregates the capabilities used by the import workflow.
// A provider creates and manages the capability instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Classifier returns the grouping capability.
	Classifier() Classifier

	// DiscrepancyAnalyzer returns the discrepancy capability.
	DiscrepancyAnalyzer() DiscrepancyAnalyzer

	// CoherenceAnalyzer returns the coherence capability.
	CoherenceAnalyzer() CoherenceAnalyzer

	// Generator returns the content generation capability.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
