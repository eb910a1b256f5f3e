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
	"errors"
	"log/slog"
	"strings"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/core"
	"github.com/tmc/langchaingo/llms"
)

// Generator implements ai.Generator over a chat model.
type Generator struct {
	chat *chatClient
}

type generateResponse struct {
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	HasChanges       *bool    `json:"has_changes"`
	ChangeHighlights []string `json:"change_highlights"`
	Reasoning        string   `json:"reasoning"`
	Inference        string   `json:"inference"`
	Sources          string   `json:"sources"`
}

func newGenerator(config *ai.Config, model llms.Model) *Generator {
	return &Generator{
		chat: &chatClient{
			model:       model,
			maxAttempts: config.MaxAttempts,
			temperature: config.Temperature,
			logger:      slog.Default().With("component", "openai-generator"),
		},
	}
}

// NewGenerator creates an ai.Generator using the configured generator model.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	model, err := newModel(config, config.GeneratorModel)
	if err != nil {
		return nil, err
	}
	return newGenerator(config, model), nil
}

// Generate implements ai.Generator.
func (g *Generator) Generate(ctx context.Context, req ai.GenerateRequest) (*ai.GeneratedDraft, error) {
	result, err := completeJSON(ctx, g.chat, generateSystemPrompt, buildGeneratePrompt(req),
		func(r *generateResponse) error {
			unchanged := r.HasChanges != nil && !*r.HasChanges
			if strings.TrimSpace(r.Content) == "" && !unchanged {
				return errors.New("empty content")
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	draft := &ai.GeneratedDraft{
		Title:            strings.TrimSpace(result.Title),
		Content:          result.Content,
		HasChanges:       result.HasChanges,
		ChangeHighlights: result.ChangeHighlights,
		Reasoning:        result.Reasoning,
		Inference:        result.Inference,
		Sources:          result.Sources,
	}
	if draft.Title == "" {
		draft.Title = req.Title
	}
	// An unchanged update may omit the body; keep the existing content.
	if strings.TrimSpace(draft.Content) == "" && req.Kind == core.KindUpdate {
		draft.Content = req.PriorContent
	}
	return draft, nil
}
