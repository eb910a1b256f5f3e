package curator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/curator/ai/mock"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/source"
	"github.com/poiesic/curator/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticReader struct{}

func (staticReader) ReadURL(_ context.Context, u string) (string, error) {
	return "contents of " + u, nil
}

func TestNewCurator(t *testing.T) {
	t.Run("create new store", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		c, err := NewCurator(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, c)
		defer c.Close()

		assert.NotNil(t, c.UnitRepository())
		assert.NotNil(t, c.CommitLedger())
		assert.NotNil(t, c.backend)
		assert.NotNil(t, c.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		c, err := NewCurator(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, c)
	})
}

func TestCurator_Close(t *testing.T) {
	c, err := NewCurator(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.NoError(t, c.Close())
}

func TestCurator_ImportRoundTrip(t *testing.T) {
	c, err := NewCurator("", WithInMemory(), WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer c.Close()

	engine, err := c.NewEngine(workflow.WithSourceReader(staticReader{}))
	require.NoError(t, err)
	defer engine.Release()

	ctx := context.Background()
	ws := source.NewWorkSet()
	require.NoError(t, ws.AddURL("https://example.com/guide"))

	batch, err := engine.Propose(ctx, ws)
	require.NoError(t, err)
	assert.Equal(t, 1, batch.ApproveAll())

	_, err = batch.GenerateDrafts(ctx)
	require.NoError(t, err)
	for _, g := range batch.Groups() {
		require.NoError(t, batch.ApproveDraft(g.ID))
	}
	_, err = batch.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[core.Status]int{core.StatusDone: 1}, batch.Summary())

	units, err := c.UnitRepository().ListUnits(ctx)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "Imported material", units[0].Title)
	assert.Equal(t, "contents of https://example.com/guide", units[0].Content)
}
