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

package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/core"
)

const classifySystemPrompt = `You organize raw source material into knowledge-base entries.

You receive a list of URLs, a list of documents and the titles of existing knowledge units.
Bundle the sources into groups. Each group becomes exactly one knowledge unit.
A group either creates a new unit ("create") or revises an existing unit ("update").
Use "update" only when the sources clearly extend or correct an existing unit, and then
set existing_unit_id to that unit's id.

Every URL and every document id must appear in exactly one group.

Respond with JSON only, matching this shape:
{
  "groups": [
    {
      "kind": "create" | "update",
      "title": "short working title",
      "existing_unit_id": 0,
      "urls": ["..."],
      "document_ids": ["..."],
      "rationale": "why these sources belong together",
      "scope": "what the unit should cover",
      "questions": ["open questions for the operator"]
    }
  ]
}`

const discrepancySystemPrompt = `You compare new source material against an existing knowledge-base entry.

Classify how much the entry would change if the new material were incorporated:
- "none": the entry already covers everything in the new material
- "moderate": some sections need additions or corrections
- "significant": the entry needs substantial rewriting

Respond with JSON only, matching this shape:
{
  "change_level": "none" | "moderate" | "significant",
  "change_percentage": 0,
  "recommendation": "what the editor should do",
  "summary": {
    "new_topics": ["..."],
    "updated_topics": ["..."],
    "removed_topics": ["..."]
  }
}`

const coherenceSystemPrompt = `You check whether several source documents agree with one another.

Look for version mismatches, scope differences and technical contradictions.
Grade each conflict with a severity of "low", "medium" or "high".

Respond with JSON only, matching this shape:
{
  "coherent": true,
  "coherence_level": "high" | "medium" | "low",
  "coherence_percentage": 100,
  "conflicts": [
    {"type": "version_mismatch" | "scope_difference" | "technical_contradiction", "description": "...", "severity": "low"}
  ],
  "recommendation": "...",
  "summary": "..."
}`

const generateSystemPrompt = `You write knowledge-base entries in markdown from source material.

Write a complete, self-contained entry. Prefer facts stated in the sources over
inference, and say in "inference" what you concluded without direct support.
Follow the operator notes when given.

When revising an existing entry, return the full revised content, not a patch.
If the sources add nothing the existing entry lacks, set "has_changes" to false
and return the existing content unchanged.

Respond with JSON only, matching this shape:
{
  "title": "...",
  "content": "markdown body",
  "has_changes": true,
  "change_highlights": ["..."],
  "reasoning": "how the sources were used",
  "inference": "what was inferred",
  "sources": "the sources the entry relies on"
}`

func buildClassifyPrompt(req ai.ClassifyRequest) string {
	var b strings.Builder

	b.WriteString("URLs:\n")
	if len(req.URLs) == 0 {
		b.WriteString("(none)\n")
	}
	for _, u := range req.URLs {
		fmt.Fprintf(&b, "- %s\n", u)
	}

	b.WriteString("\nDocuments:\n")
	if len(req.Documents) == 0 {
		b.WriteString("(none)\n")
	}
	for _, d := range req.Documents {
		fmt.Fprintf(&b, "- id: %s\n  filename: %s\n  excerpt: %s\n",
			d.ID, d.Filename, strings.ReplaceAll(truncate(d.Content, 600), "\n", " "))
	}

	b.WriteString("\nExisting knowledge units:\n")
	if len(req.ExistingUnits) == 0 {
		b.WriteString("(none)\n")
	}
	for _, u := range req.ExistingUnits {
		fmt.Fprintf(&b, "- id: %d, title: %s\n", u.ID, u.Title)
	}
	return b.String()
}

func buildDiscrepancyPrompt(prior, newText string) string {
	return fmt.Sprintf("Existing entry:\n---\n%s\n---\n\nNew material:\n---\n%s\n---\n",
		truncate(prior, maxSourceChars), truncate(newText, maxSourceChars))
}

func buildCoherencePrompt(texts []string) string {
	var b strings.Builder
	for i, t := range texts {
		fmt.Fprintf(&b, "Source %d:\n---\n%s\n---\n\n", i+1, truncate(t, maxSourceChars))
	}
	return b.String()
}

func buildGeneratePrompt(req ai.GenerateRequest) string {
	var b strings.Builder

	switch req.Kind {
	case core.KindUpdate:
		fmt.Fprintf(&b, "Task: revise the existing entry %q.\n\n", req.Title)
		fmt.Fprintf(&b, "Existing entry:\n---\n%s\n---\n\n", truncate(req.PriorContent, maxSourceChars))
	default:
		if req.Title != "" {
			fmt.Fprintf(&b, "Task: write a new entry titled %q.\n\n", req.Title)
		} else {
			b.WriteString("Task: write a new entry and choose a title.\n\n")
		}
	}

	if strings.TrimSpace(req.Notes) != "" {
		fmt.Fprintf(&b, "Operator notes:\n%s\n\n", req.Notes)
	}

	for i, s := range req.Sources {
		fmt.Fprintf(&b, "Source %d (%s):\n---\n%s\n---\n\n", i+1, s.Label, truncate(s.Text, maxSourceChars))
	}
	return b.String()
}
