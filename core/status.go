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

// Status is the position of a group in the import state machine.
// The set of values is closed; switches over Status must list every value.
type Status int

const (
	StatusPending Status = iota + 1
	StatusApproved
	StatusRejected
	StatusGenerating
	StatusReadyForReview
	StatusReviewed
	StatusSaving
	StatusDone
	StatusError
)

// AllStatuses lists every status in pipeline order.
var AllStatuses = []Status{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusGenerating,
	StatusReadyForReview,
	StatusReviewed,
	StatusSaving,
	StatusDone,
	StatusError,
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	case StatusGenerating:
		return "generating"
	case StatusReadyForReview:
		return "ready_for_review"
	case StatusReviewed:
		return "reviewed"
	case StatusSaving:
		return "saving"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Valid reports whether s is one of the declared statuses.
func (s Status) Valid() bool {
	return s >= StatusPending && s <= StatusError
}

// Terminal reports whether the batch pipeline leaves the group alone in this status.
// StatusError only moves again through an explicit operator retry.
func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusDone, StatusError:
		return true
	case StatusPending, StatusApproved, StatusGenerating, StatusReadyForReview,
		StatusReviewed, StatusSaving:
		return false
	}
	return false
}

// HasDraft reports whether a group in this status is expected to carry a draft.
func (s Status) HasDraft() bool {
	switch s {
	case StatusReadyForReview, StatusReviewed, StatusSaving, StatusDone:
		return true
	case StatusPending, StatusApproved, StatusRejected, StatusGenerating, StatusError:
		return false
	}
	return false
}

// transitions is the state machine. Error exits are operator retries
// back into the entry state of the failed stage.
var transitions = map[Status][]Status{
	StatusPending:        {StatusApproved, StatusRejected},
	StatusApproved:       {StatusGenerating},
	StatusGenerating:     {StatusReadyForReview, StatusError},
	StatusReadyForReview: {StatusReviewed, StatusRejected},
	StatusReviewed:       {StatusSaving},
	StatusSaving:         {StatusDone, StatusError},
	StatusError:          {StatusApproved, StatusReviewed},
}

// CanTransition reports whether the state machine allows s -> to.
func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseStatus converts the string form back into a Status.
func ParseStatus(name string) (Status, error) {
	for _, s := range AllStatuses {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, ErrInvalidStatus
}
