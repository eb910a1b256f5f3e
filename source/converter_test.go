package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	c := NewConverter()

	t.Run("main element preferred", func(t *testing.T) {
		page, err := c.Convert(`<html><head><title> Install Guide </title></head><body>
			<nav><a href="/">Home</a></nav>
			<main><h2>Steps</h2><p>Run <strong>make</strong>.</p></main>
			<footer>copyright</footer></body></html>`)
		require.NoError(t, err)
		assert.Equal(t, "Install Guide", page.Title)
		assert.Contains(t, page.Markdown, "## Steps")
		assert.Contains(t, page.Markdown, "**make**")
		assert.NotContains(t, page.Markdown, "Home")
		assert.NotContains(t, page.Markdown, "copyright")
	})

	t.Run("noise removed without main", func(t *testing.T) {
		page, err := c.Convert(`<html><body><header>Site</header><h1>Topic</h1><p>Body text</p><script>alert(1)</script></body></html>`)
		require.NoError(t, err)
		assert.Equal(t, "Topic", page.Title)
		assert.Contains(t, page.Markdown, "Body text")
		assert.NotContains(t, page.Markdown, "Site")
		assert.NotContains(t, page.Markdown, "alert")
	})
}

func TestPage_Text(t *testing.T) {
	assert.Equal(t, "# T\n\nbody", (&Page{Title: "T", Markdown: "body"}).Text())
	assert.Equal(t, "# Own\n\nbody", (&Page{Title: "T", Markdown: "# Own\n\nbody"}).Text())
	assert.Equal(t, "body", (&Page{Markdown: "body"}).Text())
}

func TestMarkdownTitle(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		expected string
	}{
		{name: "H1 at start", markdown: "# Hello World\n\nContent here", expected: "Hello World"},
		{name: "H1 later", markdown: "Some text\n\n# Title Here\n\nMore", expected: "Title Here"},
		{name: "no H1", markdown: "## Section\n\nContent", expected: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MarkdownTitle(tt.markdown))
		})
	}
}
