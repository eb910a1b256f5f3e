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

package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/workflow"
)

// progressMonitor prints per-stage progress to a writer.
// Call begin with the number of eligible groups before each stage.
type progressMonitor struct {
	writer io.Writer

	mu        sync.Mutex
	label     string
	total     int
	current   int
	startTime time.Time
	started   bool
}

var _ workflow.Monitor = (*progressMonitor)(nil)

func newProgressMonitor(writer io.Writer) *progressMonitor {
	return &progressMonitor{writer: writer}
}

func (p *progressMonitor) begin(label string, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.label = label
	p.total = total
	p.current = 0
	p.startTime = time.Now()
	p.started = true
}

func (p *progressMonitor) Transition(_ core.GroupID, from, _ core.Status) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	// Leaving an active status settles one group.
	if from != core.StatusGenerating && from != core.StatusSaving {
		return
	}
	if p.current < p.total {
		p.current++
	}
	p.report()
}

func (p *progressMonitor) StageFinished(report *workflow.StageReport) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	p.current = p.total
	p.report()
	fmt.Fprintf(p.writer, "\n%s: %d succeeded, %d failed\n", report.Stage, report.Succeeded, report.Failed)
	p.started = false
}

// report prints the current progress. Must be called with lock held.
func (p *progressMonitor) report() {
	elapsed := time.Since(p.startTime)
	rate := float64(p.current) / elapsed.Seconds()

	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\r%s: %d/%d (%.1f%%) - %.1f groups/s",
		p.label, p.current, p.total, percentage, rate)
}
