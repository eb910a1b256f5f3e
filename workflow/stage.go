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
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/poiesic/curator/core"
)

// stageDef describes one per-group stage of the pipeline.
type stageDef struct {
	stage   core.Stage
	entry   core.Status // groups in this status are picked up
	active  core.Status // status while the call runs
	success core.Status
	// run performs the call on a snapshot of the group and returns a function
	// that applies the result to the live group under the batch lock.
	run func(ctx context.Context, g *core.Group) (func(*core.Group), error)
}

type stageJob struct {
	group *core.Group
	ctx   context.Context
	stop  context.CancelFunc
}

// runStage moves every group in def.entry through def.run, one pool task per group.
// A failing group lands in error and never affects its siblings.
func (b *Batch) runStage(ctx context.Context, def stageDef) (*StageReport, error) {
	jobs, err := b.beginStage(ctx, def)
	if err != nil {
		return nil, err
	}

	report := &StageReport{
		Stage:     def.stage,
		Attempted: len(jobs),
		Errors:    make(map[core.GroupID]string),
	}
	var reportMu sync.Mutex
	record := func(id core.GroupID, err error) {
		reportMu.Lock()
		defer reportMu.Unlock()
		if err != nil {
			report.Failed++
			report.Errors[id] = err.Error()
			return
		}
		report.Succeeded++
	}

	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		submitErr := b.engine.pool.Submit(func() {
			defer wg.Done()
			apply, err := def.run(job.ctx, job.group)
			record(job.group.ID, b.finishJob(def, job, apply, err))
		})
		if submitErr != nil {
			wg.Done()
			record(job.group.ID, b.finishJob(def, job, nil, fmt.Errorf("schedule: %w", submitErr)))
		}
	}
	wg.Wait()

	b.mu.Lock()
	b.running = false
	b.engine.monitor.StageFinished(report)
	b.mu.Unlock()

	b.logger.Info("stage finished", "stage", def.stage,
		"attempted", report.Attempted, "succeeded", report.Succeeded, "failed", report.Failed)
	return report, nil
}

// beginStage claims the eligible groups and moves them to def.active.
func (b *Batch) beginStage(ctx context.Context, def stageDef) ([]stageJob, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		return nil, ErrBatchBusy
	}

	var jobs []stageJob
	for _, id := range b.order {
		g := b.groups[id]
		if g.Status != def.entry {
			continue
		}
		if err := b.setStatus(g, def.active); err != nil {
			return nil, err
		}

		groupCtx, cancel := context.WithCancelCause(ctx)
		callCtx, stop := b.engine.callContext(groupCtx)
		b.cancels[id] = cancel
		jobs = append(jobs, stageJob{
			group: g.Clone(),
			ctx:   callCtx,
			stop: func() {
				stop()
				cancel(nil)
			},
		})
	}
	b.running = true
	return jobs, nil
}

// finishJob settles one group and returns the error recorded on it, if any.
func (b *Batch) finishJob(def stageDef, job stageJob, apply func(*core.Group), err error) error {
	if err != nil && errors.Is(context.Cause(job.ctx), ErrGroupCanceled) {
		err = ErrGroupCanceled
	}
	job.stop()

	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.cancels, job.group.ID)
	g, ok := b.groups[job.group.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, job.group.ID)
	}

	if err == nil {
		apply(g)
		g.Error = ""
		g.FailedStage = ""
		if err = b.setStatus(g, def.success); err == nil {
			return nil
		}
	}

	if g.Draft != nil {
		b.stashed[g.ID] = g.Draft
		g.Draft = nil
	}
	g.Error = fmt.Sprintf("%s: %v", def.stage, err)
	g.FailedStage = def.stage
	if statusErr := b.setStatus(g, core.StatusError); statusErr != nil {
		b.logger.Error("cannot record failure", "group", g.ID, "err", statusErr)
	}
	b.logger.Warn("group failed", "group", g.ID, "stage", def.stage, "err", err)
	return err
}
