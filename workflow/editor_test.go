package workflow

import (
	"context"
	"testing"

	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/source"
	"github.com/poiesic/curator/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveAndReject(t *testing.T) {
	env := newTestEnv(t)
	env.classifyInto(create("One", urlA), create("Two", urlB))
	b := env.propose(t, urlA, urlB)

	one := groupByTitle(t, b, "One")
	two := groupByTitle(t, b, "Two")

	require.NoError(t, b.Approve(one.ID))
	require.NoError(t, b.Reject(two.ID))

	assert.ErrorIs(t, b.Approve(one.ID), ErrGroupNotPending)
	assert.ErrorIs(t, b.Approve(two.ID), ErrGroupNotPending)
	assert.ErrorIs(t, b.Reject("missing"), ErrGroupNotFound)

	assert.Equal(t, map[core.Status]int{core.StatusApproved: 1, core.StatusRejected: 1}, b.Summary())
}

func TestApproveAll(t *testing.T) {
	env := newTestEnv(t)
	env.classifyInto(create("One", urlA), create("Two", urlB), create("Three", urlC))
	b := env.propose(t, urlA, urlB, urlC)

	rejected := groupByTitle(t, b, "Two")
	require.NoError(t, b.Reject(rejected.ID))

	assert.Equal(t, 2, b.ApproveAll())
	for _, g := range b.Groups() {
		if g.ID == rejected.ID {
			assert.Equal(t, core.StatusRejected, g.Status)
			continue
		}
		assert.Equal(t, core.StatusApproved, g.Status)
	}
	assert.Zero(t, b.ApproveAll())
}

func TestMoveSource(t *testing.T) {
	env := newTestEnv(t)
	env.classifyInto(create("A", urlA, urlB), create("B", urlC))
	b := env.propose(t, urlA, urlB, urlC)

	a := groupByTitle(t, b, "A")
	dst := groupByTitle(t, b, "B")
	require.NotNil(t, a.Coherence)

	require.NoError(t, b.MoveSource(core.URLRef(urlB), a.ID, dst.ID))

	a, err := b.Group(a.ID)
	require.NoError(t, err)
	dst, err = b.Group(dst.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{urlA}, a.Sources.URLs)
	assert.Equal(t, []string{urlC, urlB}, dst.Sources.URLs)
	assert.Nil(t, a.Coherence, "annotations are stale after a move")

	// Emptying the source group removes it.
	require.NoError(t, b.MoveSource(core.URLRef(urlA), a.ID, dst.ID))
	_, err = b.Group(a.ID)
	assert.ErrorIs(t, err, ErrGroupNotFound)
	assert.Equal(t, 1, b.Len())

	dst, err = b.Group(dst.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{urlC, urlB, urlA}, dst.Sources.URLs)
}

func TestMoveSource_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.classifyInto(create("A", urlA, urlB), create("B", urlC))
	b := env.propose(t, urlA, urlB, urlC)
	a := groupByTitle(t, b, "A")
	dst := groupByTitle(t, b, "B")

	assert.ErrorIs(t, b.MoveSource(core.URLRef(urlA), a.ID, a.ID), ErrSameGroup)
	assert.ErrorIs(t, b.MoveSource(core.URLRef(urlA), a.ID, "missing"), ErrGroupNotFound)
	assert.ErrorIs(t, b.MoveSource(core.URLRef(urlC), a.ID, dst.ID), ErrSourceNotFound)

	require.NoError(t, b.Approve(dst.ID))
	assert.ErrorIs(t, b.MoveSource(core.URLRef(urlA), a.ID, dst.ID), ErrGroupNotPending)

	// Nothing changed.
	a, err := b.Group(a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{urlA, urlB}, a.Sources.URLs)
}

func TestSplitNew_Document(t *testing.T) {
	env := newTestEnv(t)
	doc := core.Document{ID: "doc-1", Filename: "notes.md", Content: "notes"}

	ws := source.NewWorkSet()
	require.NoError(t, ws.AddURL(urlA))
	require.NoError(t, ws.AddDocument(doc))
	b, err := env.engine.Propose(context.Background(), ws)
	require.NoError(t, err)

	g := groupByTitle(t, b, "Imported material")
	newID, err := b.SplitNew(core.DocRef(doc.ID), g.ID, "Notes")
	require.NoError(t, err)

	split, err := b.Group(newID)
	require.NoError(t, err)
	assert.Equal(t, []core.DocumentRef{doc.Ref()}, split.Sources.Documents)
	assert.Empty(t, split.Sources.URLs)

	g, err = b.Group(g.ID)
	require.NoError(t, err)
	assert.Empty(t, g.Sources.Documents)
	assert.Equal(t, []string{urlA}, g.Sources.URLs)
}

func TestSplitNew(t *testing.T) {
	env := newTestEnv(t)
	env.classifyInto(create("G1", urlA, urlB))
	b := env.propose(t, urlA, urlB)
	g1 := groupByTitle(t, b, "G1")

	g2ID, err := b.SplitNew(core.URLRef(urlB), g1.ID, "New Topic")
	require.NoError(t, err)

	g1, err = b.Group(g1.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{urlA}, g1.Sources.URLs)

	g2, err := b.Group(g2ID)
	require.NoError(t, err)
	assert.Equal(t, "New Topic", g2.Title)
	assert.Equal(t, core.KindCreate, g2.Kind)
	assert.Equal(t, core.StatusPending, g2.Status)
	assert.Equal(t, []string{urlB}, g2.Sources.URLs)

	// Splitting the last source moves the whole group.
	g3ID, err := b.SplitNew(core.URLRef(urlA), g1.ID, "Renamed")
	require.NoError(t, err)
	_, err = b.Group(g1.ID)
	assert.ErrorIs(t, err, ErrGroupNotFound)
	ids := []core.GroupID{}
	for _, g := range b.Groups() {
		ids = append(ids, g.ID)
	}
	assert.Equal(t, []core.GroupID{g2ID, g3ID}, ids)

	_, err = b.SplitNew(core.URLRef(urlA), g3ID, "  ")
	assert.ErrorIs(t, err, core.ErrEmptyTitle)
}

func TestAttachToExisting_CreatesUpdateGroup(t *testing.T) {
	env := newTestEnv(t)
	unit := env.createUnit(t, "Unit X", "existing body")
	env.classifyInto(create("G4", urlA, urlC))
	b := env.propose(t, urlA, urlC)
	g4 := groupByTitle(t, b, "G4")

	id, err := b.AttachToExisting(context.Background(), core.URLRef(urlC), g4.ID, unit.Id)
	require.NoError(t, err)

	g, err := b.Group(id)
	require.NoError(t, err)
	assert.Equal(t, core.KindUpdate, g.Kind)
	assert.Equal(t, unit.Id, g.ExistingUnitID)
	assert.Equal(t, core.StatusPending, g.Status)
	assert.Equal(t, []string{urlC}, g.Sources.URLs)
	assert.Equal(t, "Unit X", g.Title)
	assert.Equal(t, "existing body", g.PriorContent)

	g4, err = b.Group(g4.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{urlA}, g4.Sources.URLs)

	// A second attach joins the same group.
	again, err := b.AttachToExisting(context.Background(), core.URLRef(urlA), g4.ID, unit.Id)
	require.NoError(t, err)
	assert.Equal(t, id, again)
	g, err = b.Group(id)
	require.NoError(t, err)
	assert.Equal(t, []string{urlC, urlA}, g.Sources.URLs)
	assert.Equal(t, 1, b.Len())
}

func TestAttachToExisting_Errors(t *testing.T) {
	env := newTestEnv(t)
	unit := env.createUnit(t, "Unit X", "existing body")
	env.classifyInto(update("X", unit.Id, urlA), create("Other", urlB))
	b := env.propose(t, urlA, urlB)
	x := groupByTitle(t, b, "X")
	other := groupByTitle(t, b, "Other")

	_, err := b.AttachToExisting(context.Background(), core.URLRef(urlB), other.ID, 4242)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = b.AttachToExisting(context.Background(), core.URLRef(urlA), x.ID, unit.Id)
	assert.ErrorIs(t, err, ErrSameGroup)

	require.NoError(t, b.Approve(x.ID))
	_, err = b.AttachToExisting(context.Background(), core.URLRef(urlB), other.ID, unit.Id)
	assert.ErrorIs(t, err, ErrGroupNotPending)

	other, err = b.Group(other.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{urlB}, other.Sources.URLs)
}

func TestSetNotesAndTitle(t *testing.T) {
	env := newTestEnv(t)
	env.classifyInto(create("One", urlA))
	b := env.propose(t, urlA)
	one := groupByTitle(t, b, "One")

	require.NoError(t, b.SetNotes(one.ID, "focus on installation"))
	require.NoError(t, b.SetTitle(one.ID, " Install "))
	assert.ErrorIs(t, b.SetTitle(one.ID, ""), core.ErrEmptyTitle)

	g, err := b.Group(one.ID)
	require.NoError(t, err)
	assert.Equal(t, "focus on installation", g.Notes)
	assert.Equal(t, "Install", g.Title)
	assert.Equal(t, core.StatusPending, g.Status)

	require.NoError(t, b.Approve(one.ID))
	require.NoError(t, b.SetNotes(one.ID, "still editable"))
	assert.ErrorIs(t, b.SetTitle(one.ID, "late"), ErrGroupNotPending)

	_, err = b.GenerateDrafts(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, b.SetNotes(one.ID, "too late"), ErrGroupNotPending)
}
