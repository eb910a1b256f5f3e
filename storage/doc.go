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

// Package storage provides the storage abstraction layer for curator.
//
// This package defines repository interfaces that decouple the import workflow
// from the knowledge store. The BadgerDB implementation lives in storage/badger.
//
// # Constructor Return Type Pattern
//
// Public constructors return interface types:
//
//	units, err := badger.NewUnitRepository(backend)  // returns storage.UnitRepository
//
// Internal constructors may return concrete types since they're only used
// within the implementation package.
//
// # Architecture
//
//   - UnitRepository: create, update and read knowledge units
//   - CommitLedger: idempotency records for workflow commits
//
// Records are encoded with mus-go; see serialization.go.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
