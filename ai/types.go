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

package ai

import "github.com/poiesic/curator/core"

// UnitTitle identifies an existing knowledge unit to the classifier.
type UnitTitle struct {
	ID    core.ID
	Title string
}

// ClassifyRequest is the input to Classifier.Classify.
type ClassifyRequest struct {
	URLs          []string
	Documents     []core.Document
	ExistingUnits []UnitTitle
}

// ProposedGroup is one bundle returned by a Classifier before reconciliation.
type ProposedGroup struct {
	Kind           core.Kind
	Title          string
	ExistingUnitID core.ID // only meaningful when Kind is KindUpdate
	URLs           []string
	DocumentIDs    []string
	Rationale      string
	Scope          string
	Questions      []string
}

// SourceText is one source's retrieved text, labelled by URL or filename.
type SourceText struct {
	Label string
	Text  string
}

// GenerateRequest is the input to Generator.Generate.
type GenerateRequest struct {
	Kind         core.Kind
	Title        string
	Sources      []SourceText
	Notes        string
	PriorContent string // update groups only
}

// GeneratedDraft is the raw output of a Generator.
type GeneratedDraft struct {
	Title   string
	Content string
	// HasChanges is nil when the model did not say; absent means the draft changes something.
	HasChanges       *bool
	ChangeHighlights []string
	Reasoning        string
	Inference        string
	Sources          string
}

// Changed reports whether the draft changes anything.
func (d *GeneratedDraft) Changed() bool {
	return d.HasChanges == nil || *d.HasChanges
}

// ToDraft converts the generator output into the domain draft.
func (d *GeneratedDraft) ToDraft() *core.Draft {
	return &core.Draft{
		Title:            d.Title,
		Content:          d.Content,
		HasChanges:       d.Changed(),
		ChangeHighlights: d.ChangeHighlights,
		Reasoning:        d.Reasoning,
		Inference:        d.Inference,
		Sources:          d.Sources,
	}
}
