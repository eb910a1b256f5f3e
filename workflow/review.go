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
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/diff"
)

// ReviewMode says how a draft is presented.
type ReviewMode int

const (
	// ModePreview shows the draft content as is. Used for create groups.
	ModePreview ReviewMode = iota + 1
	// ModeDiff shows the line diff between the prior content and the draft.
	ModeDiff
	// ModeNoChanges shows that the existing unit needs no update.
	ModeNoChanges
)

func (m ReviewMode) String() string {
	switch m {
	case ModePreview:
		return "preview"
	case ModeDiff:
		return "diff"
	case ModeNoChanges:
		return "no_changes"
	}
	return "unknown"
}

// ReviewView is everything an operator needs to judge one draft.
type ReviewView struct {
	GroupID core.GroupID
	Kind    core.Kind
	Status  core.Status
	Mode    ReviewMode
	Title   string
	Content string

	// Segments holds the collapsed diff for update groups.
	Segments []diff.Segment
	Added    int
	Removed  int

	ChangeHighlights []string
	Reasoning        string
	Inference        string
	Sources          string
	Discrepancy      *core.Discrepancy
	Coherence        *core.Coherence
}

// Review builds the view of a group's draft.
//
// Create groups preview their content. Update groups show a diff against the
// content the unit had when the batch started, unless the draft reports no
// changes or discrepancy analysis found none, in which case they say so.
// Once the operator edits the content only the draft itself decides.
func (b *Batch) Review(id core.GroupID) (*ReviewView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	g, err := b.lookup(id)
	if err != nil {
		return nil, err
	}
	if g.Draft == nil {
		return nil, fmt.Errorf("%w: %s is %s", ErrNoDraft, id, g.Status)
	}

	c := g.Clone()
	view := &ReviewView{
		GroupID:          c.ID,
		Kind:             c.Kind,
		Status:           c.Status,
		Title:            c.Draft.Title,
		Content:          c.Draft.Content,
		ChangeHighlights: c.Draft.ChangeHighlights,
		Reasoning:        c.Draft.Reasoning,
		Inference:        c.Draft.Inference,
		Sources:          c.Draft.Sources,
		Discrepancy:      c.Discrepancy,
		Coherence:        c.Coherence,
	}

	switch c.Kind {
	case core.KindCreate:
		view.Mode = ModePreview
	case core.KindUpdate:
		segments := diff.Lines(c.PriorContent, c.Draft.Content)
		view.Added, view.Removed = diff.Counts(segments)
		view.Segments = diff.Collapse(segments)
		view.Mode = ModeDiff
		// An operator edit overrides the analysis verdict.
		noneFound := c.Discrepancy != nil && c.Discrepancy.ChangeLevel == core.ChangeNone && !c.Draft.Edited
		if !c.Draft.HasChanges || noneFound {
			view.Mode = ModeNoChanges
		}
	}
	return view, nil
}

// Render writes the plain-text form of the view.
func (v *ReviewView) Render(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s [%s, %s]\n\n", v.Title, v.Kind, v.Status); err != nil {
		return err
	}

	switch v.Mode {
	case ModeNoChanges:
		if _, err := fmt.Fprintln(w, "No changes needed."); err != nil {
			return err
		}
		if v.Added+v.Removed > 0 {
			if _, err := fmt.Fprintf(w, "The draft still differs from the current content (+%d -%d lines).\n", v.Added, v.Removed); err != nil {
				return err
			}
		}
	case ModeDiff:
		if _, err := fmt.Fprintf(w, "+%d -%d lines\n\n", v.Added, v.Removed); err != nil {
			return err
		}
		if err := diff.Render(w, v.Segments); err != nil {
			return err
		}
	case ModePreview:
		if _, err := fmt.Fprintln(w, strings.TrimRight(v.Content, "\n")); err != nil {
			return err
		}
	}

	if len(v.ChangeHighlights) > 0 {
		if _, err := fmt.Fprintln(w, "\nHighlights:"); err != nil {
			return err
		}
		for _, h := range v.ChangeHighlights {
			if _, err := fmt.Fprintf(w, "  * %s\n", h); err != nil {
				return err
			}
		}
	}
	return nil
}

// DraftEdit changes draft fields. Nil fields are left as they are.
type DraftEdit struct {
	Title   *string
	Content *string
}

// EditDraft applies a manual edit to a draft awaiting review or commit.
// Editing the content of an update draft recomputes whether it changes the unit.
func (b *Batch) EditDraft(id core.GroupID, edit DraftEdit) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	g, err := b.lookup(id)
	if err != nil {
		return err
	}
	if g.Status != core.StatusReadyForReview && g.Status != core.StatusReviewed {
		return fmt.Errorf("%w: %s is %s", ErrNoDraft, id, g.Status)
	}

	if edit.Title != nil {
		title := strings.TrimSpace(*edit.Title)
		if title == "" {
			return core.ErrEmptyTitle
		}
		g.Draft.Title = title
	}
	if edit.Content != nil {
		g.Draft.Content = *edit.Content
		g.Draft.Edited = true
		if g.Kind == core.KindUpdate {
			g.Draft.HasChanges = diff.Changed(diff.Lines(g.PriorContent, g.Draft.Content))
		}
	}
	return nil
}

// ApproveDraft accepts a draft for commit.
func (b *Batch) ApproveDraft(id core.GroupID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	g, err := b.lookup(id)
	if err != nil {
		return err
	}
	if g.Draft == nil {
		return fmt.Errorf("%w: %s is %s", ErrNoDraft, id, g.Status)
	}
	if strings.TrimSpace(g.Draft.Title) == "" {
		return core.ErrEmptyTitle
	}
	return b.setStatus(g, core.StatusReviewed)
}

// RejectDraft skips a group at review. Its draft is discarded.
func (b *Batch) RejectDraft(id core.GroupID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	g, err := b.lookup(id)
	if err != nil {
		return err
	}
	if err := b.setStatus(g, core.StatusRejected); err != nil {
		return err
	}
	g.Draft = nil
	return nil
}
