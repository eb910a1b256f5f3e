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

// Package diff computes line-level differences between two texts and
// prepares them for review.
//
// Lines produces the raw result of the diff algorithm. Collapse is a
// presentation step layered on top that shortens long unchanged runs.
package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Op classifies a run of lines.
type Op int

const (
	// Equal lines appear in both texts.
	Equal Op = iota
	// Added lines appear only in the new text.
	Added
	// Removed lines appear only in the old text.
	Removed
	// Elided stands in for unchanged lines hidden by Collapse.
	Elided
)

func (o Op) String() string {
	switch o {
	case Equal:
		return "equal"
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Elided:
		return "elided"
	}
	return "unknown"
}

// Segment is a run of consecutive lines sharing one Op.
// For Elided segments Lines is empty and Hidden counts the omitted lines.
type Segment struct {
	Op     Op
	Lines  []string
	Hidden int
}

// Lines diffs before against after line by line.
// A replaced block is reported as its removed lines followed by its added lines.
// Adjacent segments never share an Op.
func Lines(before, after string) []Segment {
	a := SplitLines(before)
	b := SplitLines(after)

	matcher := difflib.NewMatcherWithJunk(a, b, false, nil)

	var out []Segment
	for _, oc := range matcher.GetOpCodes() {
		switch oc.Tag {
		case 'e':
			out = appendRun(out, Equal, a[oc.I1:oc.I2])
		case 'd':
			out = appendRun(out, Removed, a[oc.I1:oc.I2])
		case 'i':
			out = appendRun(out, Added, b[oc.J1:oc.J2])
		case 'r':
			out = appendRun(out, Removed, a[oc.I1:oc.I2])
			out = appendRun(out, Added, b[oc.J1:oc.J2])
		}
	}
	return out
}

func appendRun(out []Segment, op Op, lines []string) []Segment {
	if len(lines) == 0 {
		return out
	}
	if n := len(out); n > 0 && out[n-1].Op == op {
		out[n-1].Lines = append(out[n-1].Lines, lines...)
		return out
	}
	return append(out, Segment{Op: op, Lines: append([]string(nil), lines...)})
}

// SplitLines splits text into lines. Empty text has no lines, and a
// trailing newline does not start an extra empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// Counts returns the number of added and removed lines.
func Counts(segments []Segment) (added, removed int) {
	for _, s := range segments {
		switch s.Op {
		case Added:
			added += len(s.Lines)
		case Removed:
			removed += len(s.Lines)
		case Equal, Elided:
		}
	}
	return added, removed
}

// Changed reports whether any segment adds or removes lines.
func Changed(segments []Segment) bool {
	added, removed := Counts(segments)
	return added+removed > 0
}

// Render writes segments as text: "+ " for added, "- " for removed and
// two spaces for unchanged lines.
func Render(w io.Writer, segments []Segment) error {
	for _, s := range segments {
		if s.Op == Elided {
			if _, err := fmt.Fprintf(w, "  ... %d unchanged lines ...\n", s.Hidden); err != nil {
				return err
			}
			continue
		}
		prefix := "  "
		switch s.Op {
		case Added:
			prefix = "+ "
		case Removed:
			prefix = "- "
		case Equal, Elided:
		}
		for _, line := range s.Lines {
			if _, err := fmt.Fprintf(w, "%s%s\n", prefix, line); err != nil {
				return err
			}
		}
	}
	return nil
}
