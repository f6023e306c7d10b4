package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/auditlog/internal/audit"
)

// failingKV fails reads or writes on demand and otherwise delegates to a MemoryKV.
type failingKV struct {
	*MemoryKV
	failGet bool
	failSet bool
}

func (f *failingKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, errors.New("disk unavailable")
	}
	return f.MemoryKV.Get(ctx, key)
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return f.MemoryKV.Set(ctx, key, value)
}

func sampleRecords() []audit.Record {
	return []audit.Record{
		{SerialNumber: "1", Location: "Warehouse A", Observation: "Blocked exit", Priority: audit.PriorityHigh, Recommendation: "Clear pallets", Status: "open"},
		{SerialNumber: "2", Location: "Dock 3", ImageReference: "/data/img/2.jpg", Priority: audit.PriorityMedium},
		{SerialNumber: "3", Location: "Office", Priority: audit.PriorityLow, Status: "closed"},
	}
}

func TestRecordStore_LoadEmpty(t *testing.T) {
	rs := NewRecordStore(NewMemoryKV())

	records, err := rs.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestRecordStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	backends := map[string]KV{
		"memory": NewMemoryKV(),
		"sqlite": openTestKV(t),
	}

	for name, kv := range backends {
		t.Run(name, func(t *testing.T) {
			rs := NewRecordStore(kv)
			want := sampleRecords()

			require.NoError(t, rs.Save(ctx, want))
			got, err := rs.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestRecordStore_SaveNil(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	rs := NewRecordStore(kv)

	require.NoError(t, rs.Save(ctx, nil))
	raw, ok, err := kv.Get(ctx, RecordsKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", raw)
}

func TestRecordStore_SaveThenLoadScenario(t *testing.T) {
	ctx := context.Background()
	rs := NewRecordStore(openTestKV(t))

	rec := audit.Record{SerialNumber: "1", Location: "Warehouse A", Priority: audit.PriorityHigh}
	_, err := rs.Append(ctx, rec)
	require.NoError(t, err)

	got, err := rs.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].SerialNumber)
	assert.Equal(t, "Warehouse A", got[0].Location)
	assert.Equal(t, audit.Priority("high"), got[0].Priority)
}

func TestRecordStore_AppendPreservesOrder(t *testing.T) {
	ctx := context.Background()
	rs := NewRecordStore(NewMemoryKV())

	first, err := rs.Append(ctx, sampleRecords()[0])
	require.NoError(t, err)
	second, err := rs.Append(ctx, sampleRecords()[1])
	require.NoError(t, err)

	assert.Len(t, first, 1, "earlier result must not grow")
	require.Len(t, second, 2)
	assert.Equal(t, "1", second[0].SerialNumber)
	assert.Equal(t, "2", second[1].SerialNumber)
}

func TestRecordStore_LoadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "definitely not json"},
		{"object root", `{"serialNumber":"1"}`},
		{"null root", "null"},
		{"string root", `"entries"`},
		{"bad element", `[{"serialNumber":"1","priority":"urgent"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := NewMemoryKV()
			require.NoError(t, kv.Set(ctx, RecordsKey, tt.payload))
			rs := NewRecordStore(kv)

			records, err := rs.Load(ctx)
			require.Error(t, err)
			assert.Nil(t, records)
			assert.True(t, errors.Is(err, ErrStorageCorrupt))

			var se *Error
			require.ErrorAs(t, err, &se)
			assert.Equal(t, RecordsKey, se.Key)
		})
	}
}

func TestRecordStore_LoadOrEmptyOnCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, RecordsKey, "{{{"))
	rs := NewRecordStore(kv)

	records, err := rs.LoadOrEmpty(ctx)
	assert.ErrorIs(t, err, ErrStorageCorrupt)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestRecordStore_AppendReplacesCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, RecordsKey, "not json"))
	rs := NewRecordStore(kv)

	got, err := rs.Append(ctx, sampleRecords()[0])
	require.NoError(t, err)
	require.Len(t, got, 1)

	loaded, err := rs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, loaded)

	backup, ok, err := kv.Get(ctx, RecordsKey+BackupSuffix)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "not json", backup)
}

func TestRecordStore_AppendCorruptBackupFailure(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{MemoryKV: NewMemoryKV()}
	require.NoError(t, kv.MemoryKV.Set(ctx, RecordsKey, "not json"))
	rs := NewRecordStore(kv)

	kv.failSet = true
	_, err := rs.Append(ctx, sampleRecords()[0])
	assert.ErrorIs(t, err, ErrStorageWrite)

	data, _, err := kv.MemoryKV.Get(ctx, RecordsKey)
	require.NoError(t, err)
	assert.Equal(t, "not json", data, "corrupt payload must survive a failed backup")
}

func TestRecordStore_SaveRejectsInvalidPriority(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	rs := NewRecordStore(kv)
	require.NoError(t, rs.Save(ctx, sampleRecords()))

	bad := append(sampleRecords(), audit.Record{SerialNumber: "9", Location: "X", Priority: "urgent"})
	err := rs.Save(ctx, bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageWrite)
	assert.True(t, audit.IsValidationError(err))

	got, err := rs.Load(ctx)
	require.NoError(t, err, "stored list must stay readable")
	assert.Len(t, got, len(sampleRecords()))
}

func TestRecordStore_LoadOrEmptyReadFailure(t *testing.T) {
	rs := NewRecordStore(&failingKV{MemoryKV: NewMemoryKV(), failGet: true})

	records, err := rs.LoadOrEmpty(context.Background())
	assert.ErrorIs(t, err, ErrStorageRead)
	assert.Nil(t, records)
}

func TestRecordStore_WriteFailureKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{MemoryKV: NewMemoryKV()}
	rs := NewRecordStore(kv)

	_, err := rs.Append(ctx, sampleRecords()[0])
	require.NoError(t, err)

	kv.failSet = true
	_, err = rs.Append(ctx, sampleRecords()[1])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageWrite)

	kv.failSet = false
	got, err := rs.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].SerialNumber)
}

func TestRecordStore_CustomKey(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	rs := NewRecordStore(kv, WithKey("site_b"))

	require.NoError(t, rs.Save(ctx, sampleRecords()))
	_, ok, err := kv.Get(ctx, RecordsKey)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = kv.Get(ctx, "site_b")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: ErrStorageWrite, Key: RecordsKey, Err: errors.New("disk full")}
	assert.Equal(t, "storage write failed (key=audit_entries): disk full", err.Error())
	assert.ErrorIs(t, err, ErrStorageWrite)
	assert.NotErrorIs(t, err, ErrStorageRead)
}
