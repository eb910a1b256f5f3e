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
	"fmt"
	"slices"
	"strings"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/source"
)

// UngroupedTitle is the title of the group that collects sources the classifier left out.
const UngroupedTitle = "Ungrouped sources"

// Propose classifies ws into groups and runs the conflict checks on them.
//
// Every source of ws ends up in exactly one pending group. When classification
// cannot complete no batch is created and the error wraps ErrGroupingFailed.
func (e *Engine) Propose(ctx context.Context, ws *source.WorkSet) (*Batch, error) {
	if ws.IsEmpty() {
		return nil, ErrEmptyWorkSet
	}

	units, err := e.units.ListUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list units: %w", ErrGroupingFailed, err)
	}
	existing := make(map[core.ID]*core.Unit, len(units))
	titles := make([]ai.UnitTitle, 0, len(units))
	for _, u := range units {
		existing[u.Id] = u
		titles = append(titles, ai.UnitTitle{ID: u.Id, Title: u.Title})
	}

	proposed, err := e.provider.Classifier().Classify(ctx, ai.ClassifyRequest{
		URLs:          ws.URLs,
		Documents:     ws.Documents,
		ExistingUnits: titles,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGroupingFailed, err)
	}

	b := newBatch(e, ws.Documents)
	groups := reconcile(ws, proposed, existing)
	for _, g := range groups {
		if err := core.ValidateGroup(g); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrGroupingFailed, err)
		}
		b.insert(g)
	}

	b.logger.Info("batch proposed", "sources", ws.Len(), "groups", len(groups), "proposed", len(proposed))

	b.checkConflicts(ctx, b.order)
	return b, nil
}

// reconcile turns classifier output into pending groups that partition ws.
//
// Unknown sources are dropped and a source placed twice stays in its first group.
// Update groups naming an unknown unit become create groups, and update groups
// naming a unit that is already targeted are merged into the first one. Groups
// without a title are named after their first source. Sources no group claimed
// are gathered into one extra create group.
func reconcile(ws *source.WorkSet, proposed []ai.ProposedGroup, existing map[core.ID]*core.Unit) []*core.Group {
	knownURL := make(map[string]bool, len(ws.URLs))
	for _, u := range ws.URLs {
		knownURL[u] = true
	}
	claimed := make(map[core.SourceRef]bool, ws.Len())

	claim := func(ref core.SourceRef) bool {
		if claimed[ref] {
			return false
		}
		if ref.IsDocument() {
			if ws.Document(ref.DocumentID) == nil {
				return false
			}
		} else if !knownURL[ref.URL] {
			return false
		}
		claimed[ref] = true
		return true
	}

	var groups []*core.Group
	targets := make(map[core.ID]*core.Group)
	for _, p := range proposed {
		g := &core.Group{
			ID:        core.NewGroupID(),
			Kind:      core.KindCreate,
			Title:     strings.TrimSpace(p.Title),
			Status:    core.StatusPending,
			Rationale: p.Rationale,
			Scope:     p.Scope,
			Questions: slices.Clone(p.Questions),
		}
		for _, u := range p.URLs {
			if normalized, err := source.NormalizeURL(u); err == nil && claim(core.URLRef(normalized)) {
				g.Sources.URLs = append(g.Sources.URLs, normalized)
			}
		}
		for _, id := range p.DocumentIDs {
			if claim(core.DocRef(id)) {
				g.Sources.Documents = append(g.Sources.Documents, ws.Document(id).Ref())
			}
		}
		if g.Sources.IsEmpty() {
			continue
		}

		if p.Kind == core.KindUpdate {
			if unit, ok := existing[p.ExistingUnitID]; ok {
				// One group per target unit; later proposals join the first.
				if target, ok := targets[unit.Id]; ok {
					target.Sources.URLs = append(target.Sources.URLs, g.Sources.URLs...)
					target.Sources.Documents = append(target.Sources.Documents, g.Sources.Documents...)
					target.Questions = append(target.Questions, g.Questions...)
					continue
				}
				g.Kind = core.KindUpdate
				g.ExistingUnitID = unit.Id
				g.PriorContent = unit.Content
				if g.Title == "" {
					g.Title = unit.Title
				}
				targets[unit.Id] = g
			}
		}
		if g.Title == "" {
			g.Title = fallbackTitle(g.Sources)
		}
		groups = append(groups, g)
	}

	orphans := &core.Group{
		ID:        core.NewGroupID(),
		Kind:      core.KindCreate,
		Title:     UngroupedTitle,
		Status:    core.StatusPending,
		Rationale: "sources not placed in any proposed group",
	}
	for _, u := range ws.URLs {
		if claim(core.URLRef(u)) {
			orphans.Sources.URLs = append(orphans.Sources.URLs, u)
		}
	}
	for _, d := range ws.Documents {
		if claim(core.DocRef(d.ID)) {
			orphans.Sources.Documents = append(orphans.Sources.Documents, d.Ref())
		}
	}
	if !orphans.Sources.IsEmpty() {
		groups = append(groups, orphans)
	}

	return groups
}

// fallbackTitle names a group after its first source.
func fallbackTitle(sources core.Sources) string {
	if len(sources.URLs) > 0 {
		return sources.URLs[0]
	}
	if len(sources.Documents) > 0 {
		return sources.Documents[0].Filename
	}
	return UngroupedTitle
}
