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

package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/core"
	"github.com/tmc/langchaingo/llms"
)

// DiscrepancyAnalyzer implements ai.DiscrepancyAnalyzer over a chat model.
type DiscrepancyAnalyzer struct {
	chat *chatClient
}

type discrepancyResponse struct {
	ChangeLevel      string `json:"change_level"`
	ChangePercentage int    `json:"change_percentage"`
	Recommendation   string `json:"recommendation"`
	Summary          struct {
		NewTopics     []string `json:"new_topics"`
		UpdatedTopics []string `json:"updated_topics"`
		RemovedTopics []string `json:"removed_topics"`
	} `json:"summary"`
}

func newDiscrepancyAnalyzer(config *ai.Config, model llms.Model) *DiscrepancyAnalyzer {
	return &DiscrepancyAnalyzer{
		chat: &chatClient{
			model:       model,
			maxAttempts: config.MaxAttempts,
			temperature: 0,
			logger:      slog.Default().With("component", "openai-discrepancy"),
		},
	}
}

// NewDiscrepancyAnalyzer creates an ai.DiscrepancyAnalyzer using the configured classifier model.
func NewDiscrepancyAnalyzer(config *ai.Config) (ai.DiscrepancyAnalyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	model, err := newModel(config, config.ClassifierModel)
	if err != nil {
		return nil, err
	}
	return newDiscrepancyAnalyzer(config, model), nil
}

// AnalyzeDiscrepancy implements ai.DiscrepancyAnalyzer.
func (a *DiscrepancyAnalyzer) AnalyzeDiscrepancy(ctx context.Context, prior, newText string) (*core.Discrepancy, error) {
	result, err := completeJSON(ctx, a.chat, discrepancySystemPrompt, buildDiscrepancyPrompt(prior, newText),
		func(r *discrepancyResponse) error {
			switch core.ChangeLevel(normalizeLabel(r.ChangeLevel)) {
			case core.ChangeNone, core.ChangeModerate, core.ChangeSignificant:
				return nil
			}
			return fmt.Errorf("unknown change level %q", r.ChangeLevel)
		})
	if err != nil {
		return nil, err
	}

	return &core.Discrepancy{
		ChangeLevel:      core.ChangeLevel(normalizeLabel(result.ChangeLevel)),
		ChangePercentage: clampPercent(result.ChangePercentage),
		Recommendation:   result.Recommendation,
		Summary: core.ChangeSummary{
			NewTopics:     result.Summary.NewTopics,
			UpdatedTopics: result.Summary.UpdatedTopics,
			RemovedTopics: result.Summary.RemovedTopics,
		},
	}, nil
}

// CoherenceAnalyzer implements ai.CoherenceAnalyzer over a chat model.
type CoherenceAnalyzer struct {
	chat *chatClient
}

type coherenceResponse struct {
	Coherent            bool   `json:"coherent"`
	CoherenceLevel      string `json:"coherence_level"`
	CoherencePercentage int    `json:"coherence_percentage"`
	Conflicts           []struct {
		Type        string `json:"type"`
		Description string `json:"description"`
		Severity    string `json:"severity"`
	} `json:"conflicts"`
	Recommendation string `json:"recommendation"`
	Summary        string `json:"summary"`
}

func newCoherenceAnalyzer(config *ai.Config, model llms.Model) *CoherenceAnalyzer {
	return &CoherenceAnalyzer{
		chat: &chatClient{
			model:       model,
			maxAttempts: config.MaxAttempts,
			temperature: 0,
			logger:      slog.Default().With("component", "openai-coherence"),
		},
	}
}

// NewCoherenceAnalyzer creates an ai.CoherenceAnalyzer using the configured classifier model.
func NewCoherenceAnalyzer(config *ai.Config) (ai.CoherenceAnalyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	model, err := newModel(config, config.ClassifierModel)
	if err != nil {
		return nil, err
	}
	return newCoherenceAnalyzer(config, model), nil
}

// AnalyzeCoherence implements ai.CoherenceAnalyzer.
func (a *CoherenceAnalyzer) AnalyzeCoherence(ctx context.Context, texts []string) (*core.Coherence, error) {
	result, err := completeJSON[coherenceResponse](ctx, a.chat, coherenceSystemPrompt, buildCoherencePrompt(texts), nil)
	if err != nil {
		return nil, err
	}

	conflicts := make([]core.Conflict, 0, len(result.Conflicts))
	for _, c := range result.Conflicts {
		conflicts = append(conflicts, core.Conflict{
			Type:        normalizeLabel(c.Type),
			Description: c.Description,
			Severity:    parseSeverity(c.Severity),
		})
	}

	return &core.Coherence{
		Coherent:       result.Coherent,
		Level:          normalizeLabel(result.CoherenceLevel),
		Percentage:     clampPercent(result.CoherencePercentage),
		Conflicts:      conflicts,
		Recommendation: result.Recommendation,
		Summary:        result.Summary,
	}, nil
}

func parseSeverity(s string) core.Severity {
	switch core.Severity(normalizeLabel(s)) {
	case core.SeverityHigh:
		return core.SeverityHigh
	case core.SeverityMedium:
		return core.SeverityMedium
	default:
		return core.SeverityLow
	}
}

func clampPercent(p int) int {
	return max(0, min(100, p))
}
