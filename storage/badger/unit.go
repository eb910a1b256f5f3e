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

package badger

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/storage"
)

// UnitRepository implements storage.UnitRepository for BadgerDB.
type UnitRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var (
	_ storage.UnitRepository     = (*UnitRepository)(nil)
	_ storage.TransactionManager = (*UnitRepository)(nil)
)

// NewUnitRepository creates a new unit repository on backend.
func NewUnitRepository(backend *Backend) (storage.UnitRepository, error) {
	return newUnitRepository(backend)
}

func newUnitRepository(backend *Backend) (*UnitRepository, error) {
	idSeq, err := backend.GetSequence(unitIDSeq)
	if err != nil {
		return nil, err
	}

	return &UnitRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// WithTransaction runs fn in a backend transaction. Units and commit records
// written through ctx inside fn are kept or dropped together.
func (r *UnitRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// Close releases the ID sequence.
func (r *UnitRepository) Close() error {
	return r.idSeq.Release()
}

// nextID returns the next unit ID, skipping 0.
func (r *UnitRepository) nextID() (core.ID, error) {
	nextID, err := r.idSeq.Next()
	if err != nil {
		return 0, err
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if nextID == 0 {
		nextID, err = r.idSeq.Next()
		if err != nil {
			return 0, err
		}
	}
	return core.ID(nextID), nil
}

// CreateUnit stores a new unit.
func (r *UnitRepository) CreateUnit(ctx context.Context, title, content string, sources []string) (*core.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	unit := &core.Unit{
		Title:   strings.TrimSpace(title),
		Content: content,
		Sources: dedupe(sources),
	}
	if err := core.ValidateUnit(unit); err != nil {
		return nil, err
	}

	err := r.backend.update(ctx, func(tx *badger.Txn) error {
		titleKey := makeUnitTitleKey(unit.Title)
		if _, err := tx.Get(titleKey); err == nil {
			return storage.ErrDuplicateKey
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		id, err := r.nextID()
		if err != nil {
			return err
		}
		unit.Id = id
		unit.InsertedAt = time.Now().UTC()
		unit.UpdatedAt = unit.InsertedAt

		if err := tx.Set(makeUnitKey(unit.Id), storage.MarshalUnit(unit)); err != nil {
			return err
		}
		return tx.Set(titleKey, storage.MarshalID(unit.Id))
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// UpdateUnit replaces a unit's content and merges its sources.
func (r *UnitRepository) UpdateUnit(ctx context.Context, id core.ID, content string, sources []string) (*core.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var unit *core.Unit
	err := r.backend.update(ctx, func(tx *badger.Txn) error {
		key := makeUnitKey(id)
		old, err := readUnit(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		unit = old
		unit.Content = content
		unit.Sources = dedupe(append(slices.Clone(old.Sources), sources...))
		if err := core.ValidateUnit(unit); err != nil {
			return err
		}
		unit.UpdatedAt = time.Now().UTC()

		return tx.Set(key, storage.MarshalUnit(unit))
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// GetUnit retrieves a single unit by ID.
func (r *UnitRepository) GetUnit(ctx context.Context, id core.ID) (*core.Unit, error) {
	var result *core.Unit
	err := r.backend.view(ctx, func(tx *badger.Txn) error {
		var err error
		result, err = readUnit(tx, makeUnitKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	})
	return result, err
}

// ListUnits returns every unit ordered by ID.
func (r *UnitRepository) ListUnits(ctx context.Context) ([]*core.Unit, error) {
	var units []*core.Unit
	err := r.backend.view(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(unitPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := iter.Item().Value(func(val []byte) error {
				unit, err := storage.UnmarshalUnit(val)
				if err != nil {
					return err
				}
				units = append(units, unit)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return units, nil
}

// FindUnitByTitle looks a unit up through the title index.
func (r *UnitRepository) FindUnitByTitle(ctx context.Context, title string) (*core.Unit, error) {
	var result *core.Unit
	err := r.backend.view(ctx, func(tx *badger.Txn) error {
		item, err := tx.Get(makeUnitTitleKey(title))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		var id core.ID
		err = item.Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		})
		if err != nil {
			return err
		}
		result, err = readUnit(tx, makeUnitKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	})
	return result, err
}

// readUnit reads a unit from a transaction. Returns nil, nil if the key doesn't exist.
func readUnit(tx *badger.Txn, key []byte) (*core.Unit, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var unit *core.Unit
	err = item.Value(func(val []byte) error {
		var err error
		unit, err = storage.UnmarshalUnit(val)
		return err
	})
	return unit, err
}

// dedupe drops blank and repeated entries, keeping first occurrences in order.
func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
