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
	"encoding/binary"
	"strings"

	"github.com/poiesic/curator/core"
)

// Key prefixes. Each ends in ':' so no prefix is a prefix of another.
const (
	unitPrefix      = "unit:"
	unitTitlePrefix = "unitt:"
	unitIDSeq       = "unitseq"
	commitPrefix    = "commit:"
)

// makeIDKey builds prefix + big-endian id so prefix scans return records in ID order.
func makeIDKey(prefix string, id core.ID) []byte {
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeUnitKey generates a key for a unit by ID.
func makeUnitKey(id core.ID) []byte {
	return makeIDKey(unitPrefix, id)
}

// makeUnitTitleKey generates the title index key.
// Titles are compared case-insensitively with surrounding space trimmed.
func makeUnitTitleKey(title string) []byte {
	return []byte(unitTitlePrefix + normalizeTitle(title))
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// makeCommitKey generates a key for a ledger entry.
func makeCommitKey(key core.ID) []byte {
	return makeIDKey(commitPrefix, key)
}
