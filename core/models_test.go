package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same ID", content: "test content"},
		{name: "empty string", content: ""},
		{name: "long content", content: "This is a much longer piece of content that should still hash consistently"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestNewGroupID_Unique(t *testing.T) {
	seen := make(map[GroupID]bool)
	for i := 0; i < 100; i++ {
		id := NewGroupID()
		require.NotEmpty(t, id)
		require.False(t, seen[id], "duplicate group id %s", id)
		seen[id] = true
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("create")
	require.NoError(t, err)
	assert.Equal(t, KindCreate, k)

	k, err = ParseKind("update")
	require.NoError(t, err)
	assert.Equal(t, KindUpdate, k)

	_, err = ParseKind("delete")
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestSources(t *testing.T) {
	s := Sources{
		URLs:      []string{"https://a.example", "https://b.example"},
		Documents: []DocumentRef{{ID: "d1", Filename: "notes.md"}},
	}

	assert.Equal(t, 3, s.Len())
	assert.False(t, s.IsEmpty())
	assert.True(t, s.Contains(URLRef("https://b.example")))
	assert.True(t, s.Contains(DocRef("d1")))
	assert.False(t, s.Contains(DocRef("d2")))
	assert.False(t, s.Contains(URLRef("https://c.example")))

	assert.Equal(t, []SourceRef{
		URLRef("https://a.example"),
		URLRef("https://b.example"),
		DocRef("d1"),
	}, s.Refs())
	assert.Equal(t, []string{"https://a.example", "https://b.example", "notes.md"}, s.Strings())

	assert.True(t, Sources{}.IsEmpty())
}

func TestSourceRef_String(t *testing.T) {
	assert.Equal(t, "https://a.example", URLRef("https://a.example").String())
	assert.Equal(t, "doc:abc", DocRef("abc").String())
}

func TestGroup_Clone(t *testing.T) {
	original := &Group{
		ID:        "g1",
		Kind:      KindCreate,
		Title:     "Original",
		Sources:   Sources{URLs: []string{"https://a.example"}},
		Questions: []string{"why?"},
		Coherence: &Coherence{Conflicts: []Conflict{{Type: "scope_difference"}}},
		Draft:     &Draft{Title: "t", ChangeHighlights: []string{"h1"}},
		Discrepancy: &Discrepancy{
			ChangeLevel: ChangeModerate,
			Summary:     ChangeSummary{NewTopics: []string{"n"}},
		},
	}

	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.Sources.URLs[0] = "https://changed.example"
	clone.Questions[0] = "changed"
	clone.Coherence.Conflicts[0].Type = "changed"
	clone.Draft.ChangeHighlights[0] = "changed"
	clone.Discrepancy.Summary.NewTopics[0] = "changed"
	clone.Draft.Title = "changed"

	assert.Equal(t, "https://a.example", original.Sources.URLs[0])
	assert.Equal(t, "why?", original.Questions[0])
	assert.Equal(t, "scope_difference", original.Coherence.Conflicts[0].Type)
	assert.Equal(t, "h1", original.Draft.ChangeHighlights[0])
	assert.Equal(t, "n", original.Discrepancy.Summary.NewTopics[0])
	assert.Equal(t, "t", original.Draft.Title)

	var nilGroup *Group
	assert.Nil(t, nilGroup.Clone())
}
