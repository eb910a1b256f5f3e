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

package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/core"
)

var errEmptyDraft = errors.New("generator returned empty content")

// GenerateDrafts generates a draft for every approved group, one call per group.
// Successful groups become ready for review; failures are recorded on their group.
func (b *Batch) GenerateDrafts(ctx context.Context) (*StageReport, error) {
	return b.runStage(ctx, stageDef{
		stage:   core.StageGeneration,
		entry:   core.StatusApproved,
		active:  core.StatusGenerating,
		success: core.StatusReadyForReview,
		run:     b.generate,
	})
}

func (b *Batch) generate(ctx context.Context, g *core.Group) (func(*core.Group), error) {
	texts, err := b.sourceTexts(ctx, g.Sources)
	if err != nil {
		return nil, err
	}

	req := ai.GenerateRequest{
		Kind:    g.Kind,
		Title:   g.Title,
		Sources: texts,
		Notes:   g.Notes,
	}
	if g.Kind == core.KindUpdate {
		req.PriorContent = g.PriorContent
	}

	out, err := b.engine.provider.Generator().Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errEmptyDraft
	}

	draft := out.ToDraft()
	if draft.Title = strings.TrimSpace(draft.Title); draft.Title == "" {
		draft.Title = g.Title
	}
	if g.Kind == core.KindCreate {
		// A new unit always changes the store.
		draft.HasChanges = true
	}
	if !draft.HasChanges && strings.TrimSpace(draft.Content) == "" {
		draft.Content = g.PriorContent
	}
	if draft.HasChanges && strings.TrimSpace(draft.Content) == "" {
		return nil, errEmptyDraft
	}

	return func(live *core.Group) {
		live.Draft = draft
	}, nil
}
