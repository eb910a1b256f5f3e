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

// Package workflow implements the bulk-import pipeline.
//
// An Engine classifies a source.WorkSet into a Batch of proposed groups, each of
// which will create or update one knowledge unit. Operators edit the batch
// (approve, reject, move and split sources), generate drafts for approved
// groups, review the drafts against prior content and commit the reviewed ones
// to the store.
//
// Group status follows the state machine in core. Generation and commit run one
// task per group on a bounded worker pool, so a failure or cancellation only
// affects its own group:
//
//	engine, err := workflow.NewEngine(units, ledger, provider)
//	batch, err := engine.Propose(ctx, ws)
//	batch.ApproveAll()
//	report, err := batch.GenerateDrafts(ctx)
//	for _, g := range batch.Groups() {
//	    if g.Status == core.StatusReadyForReview {
//	        batch.ApproveDraft(g.ID)
//	    }
//	}
//	report, err = batch.Commit(ctx)
//
// A batch may finish with a mix of done, rejected and error groups. Failed
// groups are re-entered with Retry; nothing is retried automatically.
package workflow
