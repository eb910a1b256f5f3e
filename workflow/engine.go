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
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/source"
	"github.com/poiesic/curator/storage"
)

// SourceReader retrieves the text behind a URL.
// *source.Fetcher satisfies it.
type SourceReader interface {
	ReadURL(ctx context.Context, rawURL string) (string, error)
}

var _ SourceReader = (*source.Fetcher)(nil)

// Engine runs import batches against a knowledge store.
// One engine may serve many batches; each per-group task runs on a shared worker pool.
type Engine struct {
	units    storage.UnitRepository
	ledger   storage.CommitLedger
	provider ai.AIProvider
	tx       storage.TransactionManager
	reader   SourceReader
	pool     *ants.Pool
	monitor  Monitor

	callTimeout  time.Duration
	minCoherence int
	maxCoherence int
	logger       *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithPoolSize sets how many per-group calls may run at once.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if e.pool != nil {
			e.pool.Release()
		}
		e.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithMonitor installs hooks that observe status changes and stage results.
func WithMonitor(monitor Monitor) Option {
	return func(e *Engine) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		e.monitor = monitor
		return nil
	}
}

// WithCallTimeout bounds each per-group capability call. Zero means no limit.
func WithCallTimeout(d time.Duration) Option {
	return func(e *Engine) error {
		if d < 0 {
			d = 0
		}
		e.callTimeout = d
		return nil
	}
}

// WithCoherenceBounds sets the inclusive range of source counts that get a coherence check.
// Default is 2 to 5.
func WithCoherenceBounds(minSources, maxSources int) Option {
	return func(e *Engine) error {
		if minSources < 2 {
			minSources = 2
		}
		if maxSources < minSources {
			maxSources = minSources
		}
		e.minCoherence = minSources
		e.maxCoherence = maxSources
		return nil
	}
}

// WithSourceReader sets how URL text is retrieved.
// Default is a source.Fetcher with source.DefaultFetcherConfig().
func WithSourceReader(reader SourceReader) Option {
	return func(e *Engine) error {
		if reader == nil {
			return ErrSourceReaderRequired
		}
		e.reader = reader
		return nil
	}
}

// WithTransactions sets how a commit's store write and ledger record are
// made atomic. Default is the unit repository itself when it implements
// storage.TransactionManager.
func WithTransactions(tm storage.TransactionManager) Option {
	return func(e *Engine) error {
		if tm == nil {
			return ErrTransactionsRequired
		}
		e.tx = tm
		return nil
	}
}

// NewEngine creates an import engine.
func NewEngine(
	units storage.UnitRepository,
	ledger storage.CommitLedger,
	provider ai.AIProvider,
	opts ...Option,
) (*Engine, error) {
	if units == nil {
		return nil, ErrUnitRepositoryRequired
	}
	if ledger == nil {
		return nil, ErrLedgerRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		units:        units,
		ledger:       ledger,
		provider:     provider,
		pool:         pool,
		monitor:      &noopMonitor{},
		minCoherence: 2,
		maxCoherence: 5,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(e); optErr != nil {
			e.Release()
			return nil, optErr
		}
	}

	if e.reader == nil {
		e.reader = source.NewFetcher(source.DefaultFetcherConfig())
	}
	if e.tx == nil {
		if tm, ok := units.(storage.TransactionManager); ok {
			e.tx = tm
		} else {
			e.tx = sequential{}
		}
	}
	e.logger = e.logger.With("component", "workflow")

	return e, nil
}

// Release releases the worker pool.
// The engine and its batches should not be used after calling Release.
func (e *Engine) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// callContext derives the context for one per-group call.
func (e *Engine) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.callTimeout > 0 {
		return context.WithTimeout(ctx, e.callTimeout)
	}
	return context.WithCancel(ctx)
}

// sequential runs commit steps one after another without atomicity.
type sequential struct{}

func (sequential) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
