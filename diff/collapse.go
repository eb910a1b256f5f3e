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

package diff

const (
	// CollapseThreshold is the longest unchanged run shown in full.
	CollapseThreshold = 6
	// CollapseKeep is how many lines stay visible at each end of a collapsed run.
	CollapseKeep = 3
)

// Collapse shortens every unchanged run longer than CollapseThreshold lines
// to its first and last CollapseKeep lines around an Elided marker.
// The input is not modified.
func Collapse(segments []Segment) []Segment {
	out := make([]Segment, 0, len(segments))
	for _, s := range segments {
		if s.Op != Equal || len(s.Lines) <= CollapseThreshold {
			out = append(out, s)
			continue
		}
		n := len(s.Lines)
		out = append(out,
			Segment{Op: Equal, Lines: s.Lines[:CollapseKeep]},
			Segment{Op: Elided, Hidden: n - 2*CollapseKeep},
			Segment{Op: Equal, Lines: s.Lines[n-CollapseKeep:]},
		)
	}
	return out
}
