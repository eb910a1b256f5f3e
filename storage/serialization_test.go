package storage

import (
	"testing"
	"time"

	"github.com/poiesic/curator/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("test content")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalUnit(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name string
		unit *core.Unit
	}{
		{
			name: "minimal unit",
			unit: &core.Unit{Id: 1, Title: "T", Content: "body", InsertedAt: now, UpdatedAt: now},
		},
		{
			name: "unit with sources",
			unit: &core.Unit{
				Id:         2,
				Title:      "Install guide",
				Content:    "# Install\n\nRun the installer.",
				Sources:    []string{"https://a.example/install", "notes.md"},
				InsertedAt: now,
				UpdatedAt:  now.Add(time.Hour),
			},
		},
		{
			name: "unicode content",
			unit: &core.Unit{Id: 3, Title: "Grüße", Content: "世界 🌍", InsertedAt: now, UpdatedAt: now},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalUnit(tt.unit)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalUnit(data)
			require.NoError(t, err)

			assert.Equal(t, tt.unit.Id, decoded.Id)
			assert.Equal(t, tt.unit.Title, decoded.Title)
			assert.Equal(t, tt.unit.Content, decoded.Content)
			assert.True(t, tt.unit.InsertedAt.Equal(decoded.InsertedAt))
			assert.True(t, tt.unit.UpdatedAt.Equal(decoded.UpdatedAt))
			if len(tt.unit.Sources) == 0 {
				assert.Empty(t, decoded.Sources)
			} else {
				assert.Equal(t, tt.unit.Sources, decoded.Sources)
			}
		})
	}
}

func TestUnmarshalUnit_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"invalid data", []byte{0xFF, 0xFF, 0xFF}},
		{"truncated", MarshalUnit(&core.Unit{Id: 9, Title: "title", Content: "content"})[:4]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalUnit(tt.data)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestMarshalUnmarshalCommitRecord(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	record := &core.CommitRecord{Key: core.IDFromContent("batch/group"), UnitID: 17, CommittedAt: now}

	decoded, err := UnmarshalCommitRecord(MarshalCommitRecord(record))
	require.NoError(t, err)
	assert.Equal(t, record.Key, decoded.Key)
	assert.Equal(t, record.UnitID, decoded.UnitID)
	assert.True(t, record.CommittedAt.Equal(decoded.CommittedAt))

	_, err = UnmarshalCommitRecord([]byte{0x80})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
