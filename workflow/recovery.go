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

import (
	"fmt"

	"github.com/poiesic/curator/core"
)

// Retry puts a failed group back at the start of the stage it failed in:
// approved for generation failures, reviewed for commit failures.
// The next GenerateDrafts or Commit picks it up.
func (b *Batch) Retry(id core.GroupID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	g, err := b.lookup(id)
	if err != nil {
		return err
	}
	if g.Status != core.StatusError {
		return fmt.Errorf("%w: %s is %s", ErrNotRetryable, id, g.Status)
	}

	switch g.FailedStage {
	case core.StageGeneration:
		if err := b.setStatus(g, core.StatusApproved); err != nil {
			return err
		}
	case core.StageCommit:
		draft, ok := b.stashed[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNoDraft, id)
		}
		if err := b.setStatus(g, core.StatusReviewed); err != nil {
			return err
		}
		g.Draft = draft
		delete(b.stashed, id)
	default:
		return fmt.Errorf("%w: %s failed in unknown stage %q", ErrNotRetryable, id, g.FailedStage)
	}

	b.logger.Info("group retry", "group", id, "stage", g.FailedStage)
	g.Error = ""
	g.FailedStage = ""
	return nil
}

// Cancel aborts the running generation or commit call of one group.
// The group lands in error; other groups keep running.
func (b *Batch) Cancel(id core.GroupID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	g, err := b.lookup(id)
	if err != nil {
		return err
	}
	cancel, ok := b.cancels[id]
	if !ok {
		return fmt.Errorf("%w: %s is %s", ErrNotInFlight, id, g.Status)
	}
	cancel(ErrGroupCanceled)
	return nil
}
