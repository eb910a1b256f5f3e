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
	"github.com/poiesic/curator/core"
)

// Monitor provides hooks to observe a batch.
// Hooks are called while the batch is locked and must not call back into it.
type Monitor interface {
	// Transition is called after a group changes status.
	Transition(id core.GroupID, from, to core.Status)
	// StageFinished is called once a generation or commit run has settled every group.
	StageFinished(report *StageReport)
}

// StageReport summarizes one run of a per-group stage.
type StageReport struct {
	Stage     core.Stage
	Attempted int
	Succeeded int
	Failed    int
	// Errors maps each failed group to its error message.
	Errors map[core.GroupID]string
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Transition(_ core.GroupID, _, _ core.Status) {}
func (n *noopMonitor) StageFinished(_ *StageReport)               {}
