package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClassifier_Default(t *testing.T) {
	c := NewMockClassifier()

	groups, err := c.Classify(context.Background(), ai.ClassifyRequest{
		URLs:      []string{"https://a.example", "https://b.example"},
		Documents: []core.Document{{ID: "d1", Filename: "a.md"}},
	})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, core.KindCreate, groups[0].Kind)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, groups[0].URLs)
	assert.Equal(t, []string{"d1"}, groups[0].DocumentIDs)
	assert.Equal(t, 1, c.CallCount())

	c.Reset()
	assert.Equal(t, 0, c.CallCount())
}

func TestMockGenerator_CustomFunc(t *testing.T) {
	g := NewMockGenerator()
	g.GenerateFunc = func(ctx context.Context, req ai.GenerateRequest) (*ai.GeneratedDraft, error) {
		return nil, errors.New("boom")
	}

	_, err := g.Generate(context.Background(), ai.GenerateRequest{})
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 1, g.CallCount())
}

func TestMockGenerator_Default(t *testing.T) {
	g := NewMockGenerator()

	draft, err := g.Generate(context.Background(), ai.GenerateRequest{
		Title: "Topic",
		Sources: []ai.SourceText{
			{Label: "https://a.example", Text: "alpha"},
			{Label: "b.md", Text: "beta"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Topic", draft.Title)
	assert.Equal(t, "alpha\n\nbeta", draft.Content)
	assert.True(t, draft.Changed())
}

func TestMockProvider(t *testing.T) {
	p := NewMockProvider()
	ctx := context.Background()

	d, err := p.DiscrepancyAnalyzer().AnalyzeDiscrepancy(ctx, "old", "new")
	require.NoError(t, err)
	assert.Equal(t, core.ChangeModerate, d.ChangeLevel)

	c, err := p.CoherenceAnalyzer().AnalyzeCoherence(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.True(t, c.Coherent)

	assert.Equal(t, 1, p.GetMockDiscrepancy().CallCount())
	assert.Equal(t, 1, p.GetMockCoherence().CallCount())
	assert.NoError(t, p.Close())
}
