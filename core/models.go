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

package core

import (
	"encoding/binary"
	"slices"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// ID is a unique identifier for stored entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// GroupID identifies a group for the lifetime of a batch.
type GroupID string

// NewGroupID returns a fresh random group identifier.
func NewGroupID() GroupID {
	return GroupID(uuid.NewString())
}

// Kind says whether a group creates a new knowledge unit or revises an existing one.
type Kind int

const (
	// KindCreate proposes a brand-new knowledge unit.
	KindCreate Kind = iota + 1
	// KindUpdate revises the unit referenced by Group.ExistingUnitID.
	KindUpdate
)

func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindUpdate:
		return "update"
	}
	return "unknown"
}

// ParseKind converts "create" or "update" into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "create":
		return KindCreate, nil
	case "update":
		return KindUpdate, nil
	}
	return 0, ErrInvalidKind
}

// DocumentRef points at an extracted document contributing to a group.
type DocumentRef struct {
	ID       string
	Filename string
}

// Document is an uploaded file after text extraction.
type Document struct {
	ID       string
	Filename string
	Content  string
}

// Ref returns the reference form of the document.
func (d Document) Ref() DocumentRef {
	return DocumentRef{ID: d.ID, Filename: d.Filename}
}

// SourceRef names exactly one source: either a URL or a document id.
type SourceRef struct {
	URL        string
	DocumentID string
}

// URLRef returns a SourceRef for a URL.
func URLRef(url string) SourceRef {
	return SourceRef{URL: url}
}

// DocRef returns a SourceRef for a document id.
func DocRef(id string) SourceRef {
	return SourceRef{DocumentID: id}
}

// IsDocument reports whether the ref points at a document.
func (r SourceRef) IsDocument() bool {
	return r.DocumentID != ""
}

func (r SourceRef) String() string {
	if r.IsDocument() {
		return "doc:" + r.DocumentID
	}
	return r.URL
}

// Sources is the material bundled into one group.
// URLs keep their order; documents keep insertion order.
type Sources struct {
	URLs      []string
	Documents []DocumentRef
}

// Len returns the total number of sources.
func (s Sources) Len() int {
	return len(s.URLs) + len(s.Documents)
}

// IsEmpty reports whether there are no URLs and no documents.
func (s Sources) IsEmpty() bool {
	return s.Len() == 0
}

// Contains reports whether ref is part of the sources.
func (s Sources) Contains(ref SourceRef) bool {
	if ref.IsDocument() {
		return slices.ContainsFunc(s.Documents, func(d DocumentRef) bool { return d.ID == ref.DocumentID })
	}
	return slices.Contains(s.URLs, ref.URL)
}

// Refs returns every source as a SourceRef, URLs first.
func (s Sources) Refs() []SourceRef {
	refs := make([]SourceRef, 0, s.Len())
	for _, u := range s.URLs {
		refs = append(refs, URLRef(u))
	}
	for _, d := range s.Documents {
		refs = append(refs, DocRef(d.ID))
	}
	return refs
}

// Strings returns the sources in the flat form stored alongside a unit.
func (s Sources) Strings() []string {
	out := make([]string, 0, s.Len())
	out = append(out, s.URLs...)
	for _, d := range s.Documents {
		out = append(out, d.Filename)
	}
	return out
}

// Clone returns a deep copy.
func (s Sources) Clone() Sources {
	return Sources{
		URLs:      slices.Clone(s.URLs),
		Documents: slices.Clone(s.Documents),
	}
}

// ChangeLevel classifies how much an update would change an existing unit.
type ChangeLevel string

const (
	ChangeNone        ChangeLevel = "none"
	ChangeModerate    ChangeLevel = "moderate"
	ChangeSignificant ChangeLevel = "significant"
)

// ChangeSummary lists the topics a discrepancy analysis found.
type ChangeSummary struct {
	NewTopics     []string
	UpdatedTopics []string
	RemovedTopics []string
}

// Discrepancy is the advisory comparison of new sources against an existing unit.
type Discrepancy struct {
	ChangeLevel      ChangeLevel
	ChangePercentage int
	Recommendation   string
	Summary          ChangeSummary
}

// Severity grades a coherence conflict.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Conflict is one contradiction found between sources of a group.
type Conflict struct {
	Type        string // e.g. version_mismatch, scope_difference, technical_contradiction
	Description string
	Severity    Severity
}

// Coherence is the advisory check for mutual contradiction among a group's sources.
type Coherence struct {
	Coherent       bool
	Level          string
	Percentage     int
	Conflicts      []Conflict
	Recommendation string
	Summary        string
}

// Draft is the generated candidate for a group, pending human review.
type Draft struct {
	Title            string
	Content          string
	HasChanges       bool // false on an update group means "no update needed"
	Edited           bool // content was changed by the operator after generation
	ChangeHighlights []string
	Reasoning        string
	Inference        string
	Sources          string
}

// Stage names the pipeline stage a group failed in.
type Stage string

const (
	StageGeneration Stage = "generation"
	StageCommit     Stage = "commit"
)

// Group is one proposed knowledge unit moving through the import workflow.
type Group struct {
	ID             GroupID
	Kind           Kind
	Title          string
	ExistingUnitID ID // set iff Kind == KindUpdate
	Sources        Sources
	Status         Status

	Rationale string   // why the classifier bundled these sources
	Scope     string   // what the unit should cover
	Questions []string // open questions raised by the classifier
	Notes     string   // operator guidance for generation

	Discrepancy *Discrepancy
	Coherence   *Coherence
	Draft       *Draft

	PriorContent string // existing unit content at batch start, update groups only

	Error       string
	FailedStage Stage
	UnitID      ID // unit created or updated by a successful commit
}

// Clone returns a deep copy so callers never alias working-set state.
func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	c := *g
	c.Sources = g.Sources.Clone()
	c.Questions = slices.Clone(g.Questions)
	if g.Discrepancy != nil {
		d := *g.Discrepancy
		d.Summary.NewTopics = slices.Clone(d.Summary.NewTopics)
		d.Summary.UpdatedTopics = slices.Clone(d.Summary.UpdatedTopics)
		d.Summary.RemovedTopics = slices.Clone(d.Summary.RemovedTopics)
		c.Discrepancy = &d
	}
	if g.Coherence != nil {
		co := *g.Coherence
		co.Conflicts = slices.Clone(co.Conflicts)
		c.Coherence = &co
	}
	if g.Draft != nil {
		dr := *g.Draft
		dr.ChangeHighlights = slices.Clone(dr.ChangeHighlights)
		c.Draft = &dr
	}
	return &c
}

// Unit is a persisted knowledge-base entry.
type Unit struct {
	Id         ID
	Title      string
	Content    string
	Sources    []string
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// CommitRecord remembers which unit a group commit produced.
type CommitRecord struct {
	Key         ID
	UnitID      ID
	CommittedAt time.Time
}
