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
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/storage"
)

// CommitLedger implements storage.CommitLedger for BadgerDB.
type CommitLedger struct {
	backend *Backend
}

var _ storage.CommitLedger = (*CommitLedger)(nil)

// NewCommitLedger creates a new CommitLedger.
func NewCommitLedger(backend *Backend) storage.CommitLedger {
	return &CommitLedger{
		backend: backend,
	}
}

// Close is a no-op; the backend owns the database.
func (l *CommitLedger) Close() error {
	return nil
}

// RecordCommit persists key -> unitID.
func (l *CommitLedger) RecordCommit(ctx context.Context, key core.ID, unitID core.ID) error {
	return l.backend.update(ctx, func(tx *badger.Txn) error {
		record := &core.CommitRecord{
			Key:         key,
			UnitID:      unitID,
			CommittedAt: time.Now().UTC(),
		}
		return tx.Set(makeCommitKey(key), storage.MarshalCommitRecord(record))
	})
}

// LookupCommit returns the unit recorded for key.
// Returns 0, false, nil if no commit was recorded.
func (l *CommitLedger) LookupCommit(ctx context.Context, key core.ID) (core.ID, bool, error) {
	var record *core.CommitRecord
	err := l.backend.view(ctx, func(tx *badger.Txn) error {
		item, err := tx.Get(makeCommitKey(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			record, unmarshalErr = storage.UnmarshalCommitRecord(val)
			return unmarshalErr
		})
	})
	if err != nil || record == nil {
		return 0, false, err
	}
	return record.UnitID, true, nil
}
