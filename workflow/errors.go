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

package workflow

import "errors"

var (
	// ErrUnitRepositoryRequired is returned when a unit repository is not provided.
	ErrUnitRepositoryRequired = errors.New("unit repository required")

	// ErrLedgerRequired is returned when a commit ledger is not provided.
	ErrLedgerRequired = errors.New("commit ledger required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrSourceReaderRequired is returned when WithSourceReader is given nil.
	ErrSourceReaderRequired = errors.New("source reader required")

	// ErrTransactionsRequired is returned when WithTransactions is given nil.
	ErrTransactionsRequired = errors.New("transaction manager required")

	// ErrEmptyWorkSet is returned when a batch is proposed with no sources.
	ErrEmptyWorkSet = errors.New("work set has no sources")

	// ErrGroupingFailed is returned when classification fails; no batch is created.
	ErrGroupingFailed = errors.New("grouping failed")

	// ErrGroupNotFound is returned when a group id is not in the working set.
	ErrGroupNotFound = errors.New("group not found")

	// ErrGroupNotPending is returned when an editor operation targets a group past review.
	ErrGroupNotPending = errors.New("group is not pending")

	// ErrSourceNotFound is returned when a source is not part of the named group.
	ErrSourceNotFound = errors.New("source not found in group")

	// ErrSameGroup is returned when a source would move into the group it is already in.
	ErrSameGroup = errors.New("source and destination are the same group")

	// ErrNoDraft is returned when a review operation targets a group without a draft.
	ErrNoDraft = errors.New("group has no draft")

	// ErrNotRetryable is returned by Retry for groups that are not in error.
	ErrNotRetryable = errors.New("group is not retryable")

	// ErrNotInFlight is returned by Cancel when the group has no running call.
	ErrNotInFlight = errors.New("group has no call in flight")

	// ErrGroupCanceled is recorded on groups whose call was canceled by the operator.
	ErrGroupCanceled = errors.New("canceled by operator")

	// ErrBatchBusy is returned when a stage is started while another is running.
	ErrBatchBusy = errors.New("batch stage already running")
)
