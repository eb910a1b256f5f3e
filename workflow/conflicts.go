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
	"sync"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/core"
)

// Analyze re-runs the conflict checks for one pending group.
// Check failures leave the annotation absent and are not returned.
func (b *Batch) Analyze(ctx context.Context, id core.GroupID) error {
	b.mu.Lock()
	_, err := b.lookupPending(id)
	b.mu.Unlock()
	if err != nil {
		return err
	}

	b.checkConflicts(ctx, []core.GroupID{id})
	return nil
}

// checkConflicts runs the advisory checks for ids concurrently and waits for them.
func (b *Batch) checkConflicts(ctx context.Context, ids []core.GroupID) {
	type snapshot struct {
		group   *core.Group
		version uint64
	}

	b.mu.Lock()
	var work []snapshot
	for _, id := range ids {
		g, ok := b.groups[id]
		if !ok || g.Status != core.StatusPending {
			continue
		}
		if !b.wantsDiscrepancy(g) && !b.wantsCoherence(g) {
			continue
		}
		work = append(work, snapshot{group: g.Clone(), version: b.versions[id]})
	}
	b.mu.Unlock()

	var wg sync.WaitGroup
	for _, s := range work {
		wg.Add(1)
		err := b.engine.pool.Submit(func() {
			defer wg.Done()
			discrepancy, coherence := b.analyze(ctx, s.group)

			b.mu.Lock()
			defer b.mu.Unlock()
			g, ok := b.groups[s.group.ID]
			if !ok || g.Status != core.StatusPending || b.versions[g.ID] != s.version {
				b.logger.Debug("dropping stale analysis", "group", s.group.ID)
				return
			}
			g.Discrepancy = discrepancy
			g.Coherence = coherence
		})
		if err != nil {
			wg.Done()
			b.logger.Warn("conflict check not scheduled", "group", s.group.ID, "err", err)
		}
	}
	wg.Wait()
}

func (b *Batch) wantsDiscrepancy(g *core.Group) bool {
	return g.Kind == core.KindUpdate && !g.Sources.IsEmpty()
}

func (b *Batch) wantsCoherence(g *core.Group) bool {
	n := g.Sources.Len()
	return n >= b.engine.minCoherence && n <= b.engine.maxCoherence
}

// analyze runs both checks for g. Either result is nil when skipped or failed.
func (b *Batch) analyze(ctx context.Context, g *core.Group) (*core.Discrepancy, *core.Coherence) {
	callCtx, cancel := b.engine.callContext(ctx)
	defer cancel()

	texts, err := b.sourceTexts(callCtx, g.Sources)
	if err != nil {
		b.logger.Warn("conflict checks skipped", "group", g.ID, "err", err)
		return nil, nil
	}

	var discrepancy *core.Discrepancy
	if b.wantsDiscrepancy(g) {
		discrepancy, err = b.engine.provider.DiscrepancyAnalyzer().AnalyzeDiscrepancy(callCtx, g.PriorContent, joinSourceTexts(texts))
		if err != nil {
			b.logger.Warn("discrepancy analysis failed", "group", g.ID, "err", err)
			discrepancy = nil
		}
	}

	var coherence *core.Coherence
	if b.wantsCoherence(g) {
		coherence, err = b.engine.provider.CoherenceAnalyzer().AnalyzeCoherence(callCtx, sourceBodies(texts))
		if err != nil {
			b.logger.Warn("coherence analysis failed", "group", g.ID, "err", err)
			coherence = nil
		}
	}

	return discrepancy, coherence
}

func sourceBodies(texts []ai.SourceText) []string {
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		out = append(out, t.Text)
	}
	return out
}
