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

package curator

import (
	"log/slog"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/ai/openai"
	"github.com/poiesic/curator/storage"
	"github.com/poiesic/curator/storage/badger"
	"github.com/poiesic/curator/workflow"
)

// Curator owns a knowledge store and the AI provider that feeds it.
type Curator struct {
	backend  *badger.Backend
	units    storage.UnitRepository
	ledger   storage.CommitLedger
	provider ai.AIProvider
	logger   *slog.Logger
}

// Option configures a Curator.
type Option func(*curatorOptions)

type curatorOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	inMemory bool
}

// WithAIConfig sets the configuration of the remote AI provider.
func WithAIConfig(config *ai.Config) Option {
	return func(o *curatorOptions) {
		o.aiConfig = config
	}
}

// WithAIProvider uses provider instead of building one from the AI config.
// The Curator takes ownership and closes it.
func WithAIProvider(provider ai.AIProvider) Option {
	return func(o *curatorOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps the store in memory; the path is ignored.
func WithInMemory() Option {
	return func(o *curatorOptions) {
		o.inMemory = true
	}
}

// NewCurator opens the knowledge store at filePath.
func NewCurator(filePath string, opts ...Option) (*Curator, error) {
	options := &curatorOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	units, err := badger.NewUnitRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	ledger := badger.NewCommitLedger(backend)

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			ledger.Close()
			units.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Curator{
		backend:  backend,
		units:    units,
		ledger:   ledger,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

func (c *Curator) Close() error {
	if err := c.provider.Close(); err != nil {
		c.logger.Error("error closing AI provider", "err", err)
	}

	if err := c.ledger.Close(); err != nil {
		c.logger.Error("error closing commit ledger", "err", err)
		return err
	}
	if err := c.units.Close(); err != nil {
		c.logger.Error("error closing unit repository", "err", err)
		return err
	}

	if err := c.backend.Close(); err != nil {
		c.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (c *Curator) UnitRepository() storage.UnitRepository {
	return c.units
}

func (c *Curator) CommitLedger() storage.CommitLedger {
	return c.ledger
}

// NewEngine creates an import engine over the store.
// The caller releases it when done.
func (c *Curator) NewEngine(opts ...workflow.Option) (*workflow.Engine, error) {
	return workflow.NewEngine(c.units, c.ledger, c.provider, opts...)
}
