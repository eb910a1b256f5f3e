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
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/core"
	"github.com/tmc/langchaingo/llms"
)

// Classifier implements ai.Classifier over a chat model.
type Classifier struct {
	chat *chatClient
}

type proposedGroup struct {
	Kind           string   `json:"kind"`
	Title          string   `json:"title"`
	ExistingUnitID flexID   `json:"existing_unit_id"`
	URLs           []string `json:"urls"`
	DocumentIDs    []string `json:"document_ids"`
	Rationale      string   `json:"rationale"`
	Scope          string   `json:"scope"`
	Questions      []string `json:"questions"`
}

type classification struct {
	Groups []proposedGroup `json:"groups"`
}

// flexID accepts a unit id written as a JSON number, a string or null.
type flexID uint64

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*f = flexID(v)
	return nil
}

func newClassifier(config *ai.Config, model llms.Model) *Classifier {
	return &Classifier{
		chat: &chatClient{
			model:       model,
			maxAttempts: config.MaxAttempts,
			temperature: 0,
			logger:      slog.Default().With("component", "openai-classifier"),
		},
	}
}

// NewClassifier creates an ai.Classifier using the configured classifier model.
func NewClassifier(config *ai.Config) (ai.Classifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	model, err := newModel(config, config.ClassifierModel)
	if err != nil {
		return nil, err
	}
	return newClassifier(config, model), nil
}

// Classify implements ai.Classifier.
func (c *Classifier) Classify(ctx context.Context, req ai.ClassifyRequest) ([]ai.ProposedGroup, error) {
	result, err := completeJSON(ctx, c.chat, classifySystemPrompt, buildClassifyPrompt(req),
		func(r *classification) error {
			if len(r.Groups) == 0 {
				return errors.New("no groups in response")
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	groups := make([]ai.ProposedGroup, 0, len(result.Groups))
	for _, g := range result.Groups {
		kind, err := core.ParseKind(normalizeLabel(g.Kind))
		if err != nil {
			kind = core.KindCreate
		}
		groups = append(groups, ai.ProposedGroup{
			Kind:           kind,
			Title:          strings.TrimSpace(g.Title),
			ExistingUnitID: core.ID(g.ExistingUnitID),
			URLs:           g.URLs,
			DocumentIDs:    g.DocumentIDs,
			Rationale:      g.Rationale,
			Scope:          g.Scope,
			Questions:      g.Questions,
		})
	}

	c.chat.logger.Debug("classified sources", "groups", len(groups))
	return groups, nil
}
