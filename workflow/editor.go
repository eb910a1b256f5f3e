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

	"github.com/poiesic/curator/core"
)

// Approve moves a pending group to approved.
func (b *Batch) Approve(id core.GroupID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	g, err := b.lookupPending(id)
	if err != nil {
		return err
	}
	return b.setStatus(g, core.StatusApproved)
}

// ApproveAll approves every pending group and returns how many changed.
// Groups in any other status are left alone.
func (b *Batch) ApproveAll() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, id := range b.order {
		g := b.groups[id]
		if g.Status != core.StatusPending {
			continue
		}
		if err := b.setStatus(g, core.StatusApproved); err == nil {
			n++
		}
	}
	return n
}

// Reject moves a pending group to rejected. It stays listed for the rest of the batch.
func (b *Batch) Reject(id core.GroupID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	g, err := b.lookupPending(id)
	if err != nil {
		return err
	}
	return b.setStatus(g, core.StatusRejected)
}

// MoveSource moves ref from one pending group to the end of another.
// If the source group is left empty it is removed from the batch.
func (b *Batch) MoveSource(ref core.SourceRef, from, to core.GroupID) error {
	if from == to {
		return ErrSameGroup
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	src, err := b.lookupPending(from)
	if err != nil {
		return err
	}
	dst, err := b.lookupPending(to)
	if err != nil {
		return err
	}
	if !src.Sources.Contains(ref) {
		return fmt.Errorf("%w: %s in %s", ErrSourceNotFound, ref, from)
	}

	b.transfer(ref, src, dst)
	return nil
}

// SplitNew moves ref out of a pending group into a new pending create group titled title.
// It returns the new group's id.
func (b *Batch) SplitNew(ref core.SourceRef, from core.GroupID, title string) (core.GroupID, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", core.ErrEmptyTitle
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	src, err := b.lookupPending(from)
	if err != nil {
		return "", err
	}
	if !src.Sources.Contains(ref) {
		return "", fmt.Errorf("%w: %s in %s", ErrSourceNotFound, ref, from)
	}

	g := &core.Group{
		ID:     core.NewGroupID(),
		Kind:   core.KindCreate,
		Title:  title,
		Status: core.StatusPending,
	}
	b.insert(g)
	b.transfer(ref, src, g)
	return g.ID, nil
}

// AttachToExisting moves ref into the group that updates unitID, creating a
// pending update group for it when the batch has none. It returns the
// destination group's id.
func (b *Batch) AttachToExisting(ctx context.Context, ref core.SourceRef, from core.GroupID, unitID core.ID) (core.GroupID, error) {
	// The store is read before locking; the unit is only needed if no group targets it.
	unit, err := b.engine.units.GetUnit(ctx, unitID)
	if err != nil {
		return "", fmt.Errorf("get unit %d: %w", unitID, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	src, err := b.lookupPending(from)
	if err != nil {
		return "", err
	}
	if !src.Sources.Contains(ref) {
		return "", fmt.Errorf("%w: %s in %s", ErrSourceNotFound, ref, from)
	}

	for _, id := range b.order {
		g := b.groups[id]
		if g.Kind != core.KindUpdate || g.ExistingUnitID != unitID || g.Status == core.StatusRejected {
			continue
		}
		if g.ID == from {
			return "", ErrSameGroup
		}
		if g.Status != core.StatusPending {
			return "", fmt.Errorf("%w: %s is %s", ErrGroupNotPending, g.ID, g.Status)
		}
		b.transfer(ref, src, g)
		return g.ID, nil
	}

	g := &core.Group{
		ID:             core.NewGroupID(),
		Kind:           core.KindUpdate,
		Title:          unit.Title,
		ExistingUnitID: unit.Id,
		Status:         core.StatusPending,
		PriorContent:   unit.Content,
	}
	b.insert(g)
	b.transfer(ref, src, g)
	return g.ID, nil
}

// SetNotes replaces the guidance passed to generation.
// Notes can change until generation starts, and again after a failed generation.
func (b *Batch) SetNotes(id core.GroupID, notes string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	g, err := b.lookup(id)
	if err != nil {
		return err
	}
	switch g.Status {
	case core.StatusPending, core.StatusApproved:
	case core.StatusError:
		if g.FailedStage != core.StageGeneration {
			return fmt.Errorf("%w: %s is %s", ErrGroupNotPending, id, g.Status)
		}
	case core.StatusRejected, core.StatusGenerating, core.StatusReadyForReview,
		core.StatusReviewed, core.StatusSaving, core.StatusDone:
		return fmt.Errorf("%w: %s is %s", ErrGroupNotPending, id, g.Status)
	}
	g.Notes = notes
	return nil
}

// SetTitle renames a pending group.
func (b *Batch) SetTitle(id core.GroupID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return core.ErrEmptyTitle
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	g, err := b.lookupPending(id)
	if err != nil {
		return err
	}
	g.Title = title
	return nil
}

// transfer removes ref from src and appends it to dst, dropping src if it is
// left empty. Callers have checked that src contains ref.
// Must be called with b.mu held.
func (b *Batch) transfer(ref core.SourceRef, src, dst *core.Group) {
	if ref.IsDocument() {
		i := slices.IndexFunc(src.Sources.Documents, func(d core.DocumentRef) bool { return d.ID == ref.DocumentID })
		doc := src.Sources.Documents[i]
		src.Sources.Documents = slices.Delete(src.Sources.Documents, i, i+1)
		dst.Sources.Documents = append(dst.Sources.Documents, doc)
	} else {
		i := slices.Index(src.Sources.URLs, ref.URL)
		src.Sources.URLs = slices.Delete(src.Sources.URLs, i, i+1)
		dst.Sources.URLs = append(dst.Sources.URLs, ref.URL)
	}

	b.touch(src)
	b.touch(dst)
	b.logger.Debug("source moved", "source", ref, "from", src.ID, "to", dst.ID)

	if src.Sources.IsEmpty() {
		b.remove(src.ID)
	}
}
