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
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/curator/core"
)

// Timestamps are stored as Unix microseconds.

// IDMUS encodes a core.ID as an unsigned varint.
var IDMUS = idMUS{}

type idMUS struct{}

func (idMUS) Marshal(id core.ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (id core.ID, n int, err error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return core.ID(v), n, err
}

func (idMUS) Size(id core.ID) (size int) {
	return varint.Uint64.Size(uint64(id))
}

// timeMUS encodes a time.Time as Unix microseconds in UTC.
var timeMUS = timeMicroMUS{}

type timeMicroMUS struct{}

func (timeMicroMUS) Marshal(t time.Time, bs []byte) (n int) {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func (timeMicroMUS) Unmarshal(bs []byte) (t time.Time, n int, err error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	return time.UnixMicro(v).UTC(), n, nil
}

func (timeMicroMUS) Size(t time.Time) (size int) {
	return varint.Int64.Size(t.UnixMicro())
}

// stringsMUS encodes a []string as a count followed by each string.
var stringsMUS = stringSliceMUS{}

type stringSliceMUS struct{}

func (stringSliceMUS) Marshal(v []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, s := range v {
		n += ord.String.Marshal(s, bs[n:])
	}
	return n
}

func (stringSliceMUS) Unmarshal(bs []byte) (v []string, n int, err error) {
	count, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if count < 0 || count > len(bs)-n {
		return nil, n, fmt.Errorf("%w: invalid slice length %d", ErrSerializationFailed, count)
	}
	v = make([]string, 0, count)
	for i := 0; i < count; i++ {
		s, m, err := ord.String.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return nil, n, err
		}
		v = append(v, s)
	}
	return v, n, nil
}

func (stringSliceMUS) Size(v []string) (size int) {
	size = varint.Int.Size(len(v))
	for _, s := range v {
		size += ord.String.Size(s)
	}
	return size
}

// UnitMUS encodes a core.Unit field by field.
var UnitMUS = unitMUS{}

type unitMUS struct{}

func (unitMUS) Marshal(u core.Unit, bs []byte) (n int) {
	n = IDMUS.Marshal(u.Id, bs)
	n += ord.String.Marshal(u.Title, bs[n:])
	n += ord.String.Marshal(u.Content, bs[n:])
	n += stringsMUS.Marshal(u.Sources, bs[n:])
	n += timeMUS.Marshal(u.InsertedAt, bs[n:])
	return n + timeMUS.Marshal(u.UpdatedAt, bs[n:])
}

func (unitMUS) Unmarshal(bs []byte) (u core.Unit, n int, err error) {
	var n1 int
	u.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	u.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	u.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	u.Sources, n1, err = stringsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	u.InsertedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	u.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (unitMUS) Size(u core.Unit) (size int) {
	size = IDMUS.Size(u.Id)
	size += ord.String.Size(u.Title)
	size += ord.String.Size(u.Content)
	size += stringsMUS.Size(u.Sources)
	size += timeMUS.Size(u.InsertedAt)
	return size + timeMUS.Size(u.UpdatedAt)
}

// CommitRecordMUS encodes a core.CommitRecord.
var CommitRecordMUS = commitRecordMUS{}

type commitRecordMUS struct{}

func (commitRecordMUS) Marshal(r core.CommitRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(r.Key, bs)
	n += IDMUS.Marshal(r.UnitID, bs[n:])
	return n + timeMUS.Marshal(r.CommittedAt, bs[n:])
}

func (commitRecordMUS) Unmarshal(bs []byte) (r core.CommitRecord, n int, err error) {
	var n1 int
	r.Key, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	r.UnitID, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.CommittedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (commitRecordMUS) Size(r core.CommitRecord) (size int) {
	return IDMUS.Size(r.Key) + IDMUS.Size(r.UnitID) + timeMUS.Size(r.CommittedAt)
}

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, IDMUS.Size(id))
	IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := IDMUS.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return id, nil
}

// MarshalUnit serializes a Unit to bytes.
func MarshalUnit(unit *core.Unit) []byte {
	buf := make([]byte, UnitMUS.Size(*unit))
	UnitMUS.Marshal(*unit, buf)
	return buf
}

// UnmarshalUnit deserializes a Unit from bytes.
func UnmarshalUnit(data []byte) (*core.Unit, error) {
	unit, _, err := UnitMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &unit, nil
}

// MarshalCommitRecord serializes a CommitRecord to bytes.
func MarshalCommitRecord(record *core.CommitRecord) []byte {
	buf := make([]byte, CommitRecordMUS.Size(*record))
	CommitRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalCommitRecord deserializes a CommitRecord from bytes.
func UnmarshalCommitRecord(data []byte) (*core.CommitRecord, error) {
	record, _, err := CommitRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}
