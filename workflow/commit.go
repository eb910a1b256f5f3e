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
	"strings"

	"github.com/poiesic/curator/core"
)

// Commit saves every reviewed group to the store, one call per group.
//
// Each group has a ledger key derived from the batch and group ids, recorded
// in the same transaction as the unit write. A group whose key is already
// recorded is marked done with the recorded unit and nothing is written
// again. Groups already done are not picked up.
func (b *Batch) Commit(ctx context.Context) (*StageReport, error) {
	return b.runStage(ctx, stageDef{
		stage:   core.StageCommit,
		entry:   core.StatusReviewed,
		active:  core.StatusSaving,
		success: core.StatusDone,
		run:     b.commit,
	})
}

// CommitKey returns the ledger key for a group of a batch.
func CommitKey(batchID string, id core.GroupID) core.ID {
	return core.IDFromContent(batchID + "/" + string(id))
}

func (b *Batch) commit(ctx context.Context, g *core.Group) (func(*core.Group), error) {
	if g.Draft == nil {
		return nil, ErrNoDraft
	}

	key := CommitKey(b.id, g.ID)
	if unitID, ok, err := b.engine.ledger.LookupCommit(ctx, key); err != nil {
		return nil, fmt.Errorf("lookup commit: %w", err)
	} else if ok {
		b.logger.Info("commit already recorded", "group", g.ID, "unit", unitID)
		return setUnitID(unitID), nil
	}

	// Unit write and ledger record are kept or dropped together.
	var unitID core.ID
	err := b.engine.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		if unitID, err = b.write(ctx, g); err != nil {
			return err
		}
		if err := b.engine.ledger.RecordCommit(ctx, key, unitID); err != nil {
			return fmt.Errorf("record commit for unit %d: %w", unitID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return setUnitID(unitID), nil
}

// write performs the store operation for g and returns the affected unit id.
func (b *Batch) write(ctx context.Context, g *core.Group) (core.ID, error) {
	draft := g.Draft
	sources := g.Sources.Strings()

	switch g.Kind {
	case core.KindCreate:
		candidate := &core.Unit{Title: strings.TrimSpace(draft.Title), Content: draft.Content}
		if err := core.ValidateUnit(candidate); err != nil {
			return 0, err
		}
		unit, err := b.engine.units.CreateUnit(ctx, candidate.Title, candidate.Content, sources)
		if err != nil {
			return 0, fmt.Errorf("create unit: %w", err)
		}
		b.logger.Info("unit created", "group", g.ID, "unit", unit.Id)
		return unit.Id, nil

	case core.KindUpdate:
		if !draft.HasChanges {
			b.logger.Info("update confirmed without changes", "group", g.ID, "unit", g.ExistingUnitID)
			return g.ExistingUnitID, nil
		}
		if strings.TrimSpace(draft.Content) == "" {
			return 0, core.ErrEmptyContent
		}
		unit, err := b.engine.units.UpdateUnit(ctx, g.ExistingUnitID, draft.Content, sources)
		if err != nil {
			return 0, fmt.Errorf("update unit %d: %w", g.ExistingUnitID, err)
		}
		b.logger.Info("unit updated", "group", g.ID, "unit", unit.Id)
		return unit.Id, nil
	}

	return 0, fmt.Errorf("%w: %d", core.ErrInvalidKind, g.Kind)
}

func setUnitID(id core.ID) func(*core.Group) {
	return func(live *core.Group) {
		live.UnitID = id
	}
}
