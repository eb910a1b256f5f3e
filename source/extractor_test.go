package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExtractor(t *testing.T) {
	e := NewFileExtractor(0)
	ctx := context.Background()

	t.Run("markdown verbatim", func(t *testing.T) {
		doc, err := e.Extract(ctx, "dir/notes.md", strings.NewReader("# Notes\n\nbody\n"))
		require.NoError(t, err)
		assert.Equal(t, "notes.md", doc.Filename)
		assert.Equal(t, "# Notes\n\nbody", doc.Content)
		assert.NotEmpty(t, doc.ID)
	})

	t.Run("html converted", func(t *testing.T) {
		doc, err := e.Extract(ctx, "page.HTML", strings.NewReader("<html><head><title>Page</title></head><body><p>hello</p></body></html>"))
		require.NoError(t, err)
		assert.Equal(t, "# Page\n\nhello", doc.Content)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := e.Extract(ctx, "image.png", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrUnsupportedDocument)
	})

	t.Run("binary content", func(t *testing.T) {
		_, err := e.Extract(ctx, "bad.txt", strings.NewReader("\xff\xfe"))
		assert.ErrorIs(t, err, ErrUnsupportedDocument)
	})

	t.Run("too large", func(t *testing.T) {
		small := NewFileExtractor(4)
		_, err := small.Extract(ctx, "big.txt", strings.NewReader("12345"))
		assert.ErrorIs(t, err, ErrContentTooLarge)
	})
}

func TestFileExtractor_StableIDs(t *testing.T) {
	e := NewFileExtractor(0)
	ctx := context.Background()

	a, err := e.Extract(ctx, "a.txt", strings.NewReader("same"))
	require.NoError(t, err)
	b, err := e.Extract(ctx, "a.txt", strings.NewReader("same"))
	require.NoError(t, err)
	c, err := e.Extract(ctx, "b.txt", strings.NewReader("same"))
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestFileExtractor_ExtractFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0644))

	doc, err := NewFileExtractor(0).ExtractFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "guide.txt", doc.Filename)
	assert.Equal(t, "plain text", doc.Content)

	_, err = NewFileExtractor(0).ExtractFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
