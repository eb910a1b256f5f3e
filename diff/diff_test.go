package diff

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbered(from, to int) []string {
	var lines []string
	for i := from; i <= to; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}
	return lines
}

func TestLines(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
		want   []Segment
	}{
		{
			name:   "both empty",
			before: "",
			after:  "",
			want:   nil,
		},
		{
			name:   "create from empty",
			before: "",
			after:  "a\nb\n",
			want:   []Segment{{Op: Added, Lines: []string{"a", "b"}}},
		},
		{
			name:   "everything removed",
			before: "a\nb",
			after:  "",
			want:   []Segment{{Op: Removed, Lines: []string{"a", "b"}}},
		},
		{
			name:   "insert in middle",
			before: "a\nc",
			after:  "a\nb\nc",
			want:   []Segment{
				{Op: Equal, Lines: []string{"a"}},
				{Op: Added, Lines: []string{"b"}},
				{Op: Equal, Lines: []string{"c"}},
			},
		},
		{
			name:   "replace is removed then added",
			before: "a\nold\nc",
			after:  "a\nnew\nc",
			want:   []Segment{
				{Op: Equal, Lines: []string{"a"}},
				{Op: Removed, Lines: []string{"old"}},
				{Op: Added, Lines: []string{"new"}},
				{Op: Equal, Lines: []string{"c"}},
			},
		},
		{
			name:   "crlf treated as lf",
			before: "a\r\nb\r\n",
			after:  "a\nb\n",
			want:   []Segment{{Op: Equal, Lines: []string{"a", "b"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lines(tt.before, tt.after)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLines_IdenticalHasNoChanges(t *testing.T) {
	texts := []string{
		"single line",
		strings.Join(numbered(1, 50), "\n"),
		"# Title\n\n\nrepeated\nrepeated\nrepeated\n",
	}
	for _, text := range texts {
		segments := Lines(text, text)
		added, removed := Counts(segments)
		assert.Zero(t, added)
		assert.Zero(t, removed)
		assert.False(t, Changed(segments))
		for _, s := range segments {
			assert.Equal(t, Equal, s.Op)
		}
	}
}

func TestLines_ReconstructsBothSides(t *testing.T) {
	before := strings.Join(append(numbered(1, 20), "tail"), "\n")
	after := strings.Join(append(append(numbered(1, 5), "inserted"), numbered(8, 20)...), "\n")

	var gotOld, gotNew []string
	for _, s := range Lines(before, after) {
		switch s.Op {
		case Equal:
			gotOld = append(gotOld, s.Lines...)
			gotNew = append(gotNew, s.Lines...)
		case Removed:
			gotOld = append(gotOld, s.Lines...)
		case Added:
			gotNew = append(gotNew, s.Lines...)
		case Elided:
			t.Fatal("Lines must not elide")
		}
	}
	assert.Equal(t, SplitLines(before), gotOld)
	assert.Equal(t, SplitLines(after), gotNew)
}

func TestCollapse(t *testing.T) {
	t.Run("six lines stay", func(t *testing.T) {
		in := []Segment{{Op: Equal, Lines: numbered(1, 6)}}
		if diff := cmp.Diff(in, Collapse(in)); diff != "" {
			t.Errorf("Collapse() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("seven lines collapse", func(t *testing.T) {
		in := []Segment{{Op: Equal, Lines: numbered(1, 7)}}
		want := []Segment{
			{Op: Equal, Lines: numbered(1, 3)},
			{Op: Elided, Hidden: 1},
			{Op: Equal, Lines: numbered(5, 7)},
		}
		if diff := cmp.Diff(want, Collapse(in)); diff != "" {
			t.Errorf("Collapse() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("changes never collapse", func(t *testing.T) {
		in := []Segment{
			{Op: Removed, Lines: numbered(1, 10)},
			{Op: Equal, Lines: numbered(11, 30)},
			{Op: Added, Lines: numbered(31, 40)},
		}
		want := []Segment{
			{Op: Removed, Lines: numbered(1, 10)},
			{Op: Equal, Lines: numbered(11, 13)},
			{Op: Elided, Hidden: 14},
			{Op: Equal, Lines: numbered(28, 30)},
			{Op: Added, Lines: numbered(31, 40)},
		}
		if diff := cmp.Diff(want, Collapse(in)); diff != "" {
			t.Errorf("Collapse() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestRender(t *testing.T) {
	before := strings.Join(numbered(1, 10), "\n")
	after := strings.Join(append(numbered(1, 10), "line 11"), "\n")

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Collapse(Lines(before, after))))

	want := "  line 1\n  line 2\n  line 3\n  ... 4 unchanged lines ...\n  line 8\n  line 9\n  line 10\n+ line 11\n"
	assert.Equal(t, want, buf.String())
}
