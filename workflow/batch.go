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
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/core"
)

// Batch is the in-memory working set of one import.
//
// Groups are keyed by id and listed in proposal order. Editor operations are
// serialized by one lock so a source is never observed in two groups or in none.
// Generation and commit calls run outside the lock; only their results are
// applied under it.
type Batch struct {
	id     string
	engine *Engine
	logger *slog.Logger

	mu       sync.Mutex
	groups   map[core.GroupID]*core.Group
	order    []core.GroupID
	versions map[core.GroupID]uint64
	cancels  map[core.GroupID]context.CancelCauseFunc
	stashed  map[core.GroupID]*core.Draft
	running  bool

	documents map[string]core.Document

	textMu sync.Mutex
	texts  map[string]string
}

func newBatch(e *Engine, documents []core.Document) *Batch {
	id := uuid.NewString()
	b := &Batch{
		id:        id,
		engine:    e,
		logger:    e.logger.With("batch", id),
		groups:    make(map[core.GroupID]*core.Group),
		versions:  make(map[core.GroupID]uint64),
		cancels:   make(map[core.GroupID]context.CancelCauseFunc),
		stashed:   make(map[core.GroupID]*core.Draft),
		documents: make(map[string]core.Document, len(documents)),
		texts:     make(map[string]string),
	}
	for _, d := range documents {
		b.documents[d.ID] = d
	}
	return b
}

// ID returns the batch identifier.
func (b *Batch) ID() string {
	return b.id
}

// Groups returns copies of every group in proposal order.
func (b *Batch) Groups() []*core.Group {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*core.Group, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.groups[id].Clone())
	}
	return out
}

// Group returns a copy of one group.
func (b *Batch) Group(id core.GroupID) (*core.Group, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	g, err := b.lookup(id)
	if err != nil {
		return nil, err
	}
	return g.Clone(), nil
}

// Summary counts groups per status.
func (b *Batch) Summary() map[core.Status]int {
	b.mu.Lock()
	defer b.mu.Unlock()

	counts := make(map[core.Status]int)
	for _, g := range b.groups {
		counts[g.Status]++
	}
	return counts
}

// Len returns the number of groups in the working set.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.groups)
}

// lookup must be called with b.mu held.
func (b *Batch) lookup(id core.GroupID) (*core.Group, error) {
	g, ok := b.groups[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	return g, nil
}

// lookupPending must be called with b.mu held.
func (b *Batch) lookupPending(id core.GroupID) (*core.Group, error) {
	g, err := b.lookup(id)
	if err != nil {
		return nil, err
	}
	if g.Status != core.StatusPending {
		return nil, fmt.Errorf("%w: %s is %s", ErrGroupNotPending, id, g.Status)
	}
	return g, nil
}

// insert must be called with b.mu held.
func (b *Batch) insert(g *core.Group) {
	b.groups[g.ID] = g
	b.order = append(b.order, g.ID)
}

// remove must be called with b.mu held.
func (b *Batch) remove(id core.GroupID) {
	delete(b.groups, id)
	delete(b.versions, id)
	b.order = slices.DeleteFunc(b.order, func(other core.GroupID) bool { return other == id })
	b.logger.Debug("group removed", "group", id)
}

// touch marks a group's sources as changed, dropping stale annotations.
// Must be called with b.mu held.
func (b *Batch) touch(g *core.Group) {
	g.Discrepancy = nil
	g.Coherence = nil
	b.versions[g.ID]++
}

// setStatus moves g through the state machine. Must be called with b.mu held.
func (b *Batch) setStatus(g *core.Group, to core.Status) error {
	if err := core.ValidateTransition(g.Status, to); err != nil {
		return err
	}
	from := g.Status
	g.Status = to
	b.logger.Debug("group transition", "group", g.ID, "from", from, "to", to)
	b.engine.monitor.Transition(g.ID, from, to)
	return nil
}

// sourceTexts retrieves the text of every source, URLs first.
func (b *Batch) sourceTexts(ctx context.Context, sources core.Sources) ([]ai.SourceText, error) {
	out := make([]ai.SourceText, 0, sources.Len())
	for _, u := range sources.URLs {
		text, err := b.readURL(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", u, err)
		}
		out = append(out, ai.SourceText{Label: u, Text: text})
	}
	for _, ref := range sources.Documents {
		doc, ok := b.documents[ref.ID]
		if !ok {
			return nil, fmt.Errorf("%w: document %s", ErrSourceNotFound, ref.ID)
		}
		out = append(out, ai.SourceText{Label: doc.Filename, Text: doc.Content})
	}
	return out, nil
}

// readURL fetches a URL once per batch.
func (b *Batch) readURL(ctx context.Context, u string) (string, error) {
	b.textMu.Lock()
	text, ok := b.texts[u]
	b.textMu.Unlock()
	if ok {
		return text, nil
	}

	text, err := b.engine.reader.ReadURL(ctx, u)
	if err != nil {
		return "", err
	}

	b.textMu.Lock()
	b.texts[u] = text
	b.textMu.Unlock()
	return text, nil
}

// joinSourceTexts renders labelled texts as one document.
func joinSourceTexts(texts []ai.SourceText) string {
	parts := make([]string, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, fmt.Sprintf("Source: %s\n\n%s", t.Label, t.Text))
	}
	return strings.Join(parts, "\n\n---\n\n")
}
