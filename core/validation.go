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
	"fmt"
	"strings"
)

// ValidateGroup validates a Group according to the working-set invariants.
//
// Validation rules:
//   - Kind and Status must be declared values
//   - Sources must be non-empty unless the group is rejected
//   - ExistingUnitID is set if and only if Kind is KindUpdate
//   - Draft is only present in ready_for_review, reviewed, saving and done
//
// NOT validated:
//   - Title (may be blank until the operator or generator fills it)
//   - Discrepancy and Coherence (advisory, may be absent)
func ValidateGroup(g *Group) error {
	if g == nil {
		return fmt.Errorf("%w: group is nil", ErrInvalidGroup)
	}

	if g.Kind != KindCreate && g.Kind != KindUpdate {
		return fmt.Errorf("%w: %w: value %d", ErrInvalidGroup, ErrInvalidKind, g.Kind)
	}

	if !g.Status.Valid() {
		return fmt.Errorf("%w: %w: value %d", ErrInvalidGroup, ErrInvalidStatus, g.Status)
	}

	if g.Status != StatusRejected && g.Sources.IsEmpty() {
		return fmt.Errorf("%w: %w", ErrInvalidGroup, ErrEmptySources)
	}

	if (g.Kind == KindUpdate) != (g.ExistingUnitID != 0) {
		return fmt.Errorf("%w: %w", ErrInvalidGroup, ErrKindMismatch)
	}

	if g.Draft != nil && !g.Status.HasDraft() {
		return fmt.Errorf("%w: %w: %s", ErrInvalidGroup, ErrDraftNotAllowed, g.Status)
	}

	return nil
}

// ValidateTransition returns ErrInvalidTransition if from -> to is not allowed.
func ValidateTransition(from, to Status) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// ValidateUnit validates a Unit before it is written to the store.
//
// Validation rules:
//   - Title must not be blank
//   - Content must not be blank
func ValidateUnit(unit *Unit) error {
	if unit == nil {
		return fmt.Errorf("%w: unit is nil", ErrInvalidUnit)
	}

	if strings.TrimSpace(unit.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUnit, ErrEmptyTitle)
	}

	if strings.TrimSpace(unit.Content) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUnit, ErrEmptyContent)
	}

	return nil
}
