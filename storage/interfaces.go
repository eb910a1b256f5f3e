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

package storage

import (
	"context"

	"github.com/poiesic/curator/core"
)

// Repository is the base interface for storage backends.
type Repository interface {
	// Close closes the storage backend and releases resources.
	Close() error
}

// TransactionManager groups repository calls into one atomic write.
type TransactionManager interface {
	// WithTransaction executes fn within a transaction.
	// Repository calls made with the context passed to fn join the transaction.
	// If fn returns an error nothing fn wrote is kept; otherwise it is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UnitRepository provides operations for managing knowledge units.
type UnitRepository interface {
	Repository

	// CreateUnit stores a new unit and returns it with its generated ID and timestamps.
	// Returns ErrDuplicateKey if a unit with the same title already exists.
	CreateUnit(ctx context.Context, title, content string, sources []string) (*core.Unit, error)

	// UpdateUnit replaces a unit's content and sources, keeping its title.
	// Sources are merged with the unit's existing sources, preserving order.
	// Returns ErrNotFound if the unit doesn't exist.
	UpdateUnit(ctx context.Context, id core.ID, content string, sources []string) (*core.Unit, error)

	// GetUnit retrieves a single unit by ID.
	// Returns ErrNotFound if the unit doesn't exist.
	GetUnit(ctx context.Context, id core.ID) (*core.Unit, error)

	// ListUnits returns every unit ordered by ID.
	ListUnits(ctx context.Context) ([]*core.Unit, error)

	// FindUnitByTitle looks a unit up by exact title, ignoring case and surrounding space.
	// Returns ErrNotFound if no unit has that title.
	FindUnitByTitle(ctx context.Context, title string) (*core.Unit, error)
}

// CommitLedger remembers which unit each group commit produced so that
// re-running a commit never writes twice.
type CommitLedger interface {
	Repository

	// RecordCommit stores key -> unitID.
	RecordCommit(ctx context.Context, key core.ID, unitID core.ID) error

	// LookupCommit returns the unit recorded for key, if any.
	LookupCommit(ctx context.Context, key core.ID) (core.ID, bool, error)
}
