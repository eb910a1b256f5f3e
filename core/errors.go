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

import "errors"

// Domain validation errors
var (
	// ErrInvalidGroup indicates a Group failed validation.
	ErrInvalidGroup = errors.New("invalid group")

	// ErrInvalidUnit indicates a Unit failed validation.
	ErrInvalidUnit = errors.New("invalid unit")

	// ErrEmptySources indicates a non-rejected group has no sources.
	ErrEmptySources = errors.New("group has no sources")

	// ErrKindMismatch indicates ExistingUnitID disagrees with Kind.
	ErrKindMismatch = errors.New("existing unit id must be set iff kind is update")

	// ErrDraftNotAllowed indicates a draft is present in a status that cannot carry one.
	ErrDraftNotAllowed = errors.New("draft not allowed in this status")

	// ErrInvalidTransition indicates the state machine forbids a status change.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidStatus indicates an unknown Status value.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidKind indicates an unknown Kind value.
	ErrInvalidKind = errors.New("invalid kind")

	// ErrEmptyTitle indicates a title is blank.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyContent indicates the content is blank.
	ErrEmptyContent = errors.New("content cannot be empty")
)
