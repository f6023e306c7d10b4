package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/auditlog/internal/audit"
)

// RecordsKey is the storage key holding the record list.
const RecordsKey = "audit_entries"

// BackupSuffix is appended to the storage key to hold a corrupt payload
// that Append replaced.
const BackupSuffix = ".corrupt"

// RecordStore persists the ordered list of audit records under one key.
type RecordStore struct {
	kv     KV
	key    string
	logger *slog.Logger
}

// Option configures a RecordStore.
type Option func(*RecordStore)

// WithKey overrides the storage key (default RecordsKey).
func WithKey(key string) Option {
	return func(s *RecordStore) { s.key = key }
}

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(s *RecordStore) { s.logger = l }
}

// NewRecordStore wraps kv.
func NewRecordStore(kv KV, opts ...Option) *RecordStore {
	s := &RecordStore{kv: kv, key: RecordsKey, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the persisted records in insertion order.
//
// Returns an empty slice if nothing has been stored yet. Returns an error
// matching ErrStorageCorrupt if the payload is malformed JSON or its root
// is not a list.
func (s *RecordStore) Load(ctx context.Context) ([]audit.Record, error) {
	data, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, &Error{Kind: ErrStorageRead, Key: s.key, Err: err}
	}
	if !ok || len(bytes.TrimSpace([]byte(data))) == 0 {
		return []audit.Record{}, nil
	}

	records, err := decodeRecords([]byte(data))
	if err != nil {
		return nil, &Error{Kind: ErrStorageCorrupt, Key: s.key, Err: err}
	}

	s.logger.Debug("records loaded", "key", s.key, "count", len(records))
	return records, nil
}

// LoadOrEmpty is Load with the read-time corruption policy applied: a
// corrupt payload yields an empty list together with the error, so the
// caller can alert the user and keep working. Other errors are returned
// with a nil list.
func (s *RecordStore) LoadOrEmpty(ctx context.Context) ([]audit.Record, error) {
	records, err := s.Load(ctx)
	if errors.Is(err, ErrStorageCorrupt) {
		s.logger.Warn("stored records are corrupt, continuing with empty list", "key", s.key, "error", err)
		return []audit.Record{}, err
	}
	return records, err
}

// Save serializes the full list and overwrites any previous content.
// A nil slice is stored as an empty list. A record with a priority Load
// would reject is refused and nothing is written; an empty priority loads
// as the default.
func (s *RecordStore) Save(ctx context.Context, records []audit.Record) error {
	if records == nil {
		records = []audit.Record{}
	}
	for i, rec := range records {
		if rec.Priority != "" && !rec.Priority.Valid() {
			return &Error{Kind: ErrStorageWrite, Key: s.key, Err: &audit.ValidationError{
				Fields:  []audit.Field{audit.FieldPriority},
				Message: fmt.Sprintf("record %d has invalid priority %q", i+1, rec.Priority),
			}}
		}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return &Error{Kind: ErrStorageWrite, Key: s.key, Err: fmt.Errorf("encode records: %w", err)}
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return &Error{Kind: ErrStorageWrite, Key: s.key, Err: err}
	}

	s.logger.Debug("records saved", "key", s.key, "count", len(records))
	return nil
}

// Append commits rec after the existing records and returns the new list.
//
// This is the read-modify-write of the whole list: load, copy, append one,
// save. The previous slice is never modified, and on failure the stored
// list is left as it was.
//
// A corrupt stored list counts as empty. Its raw payload is copied to the
// key plus BackupSuffix before the new list replaces it.
func (s *RecordStore) Append(ctx context.Context, rec audit.Record) ([]audit.Record, error) {
	prev, err := s.Load(ctx)
	if errors.Is(err, ErrStorageCorrupt) {
		if err := s.backupCorrupt(ctx); err != nil {
			return nil, err
		}
		prev = []audit.Record{}
	} else if err != nil {
		return nil, err
	}

	next := make([]audit.Record, len(prev), len(prev)+1)
	copy(next, prev)
	next = append(next, rec)

	if err := s.Save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// backupCorrupt copies the current raw payload to the backup key.
func (s *RecordStore) backupCorrupt(ctx context.Context) error {
	data, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return &Error{Kind: ErrStorageRead, Key: s.key, Err: err}
	}
	if !ok {
		return nil
	}
	backup := s.key + BackupSuffix
	if err := s.kv.Set(ctx, backup, data); err != nil {
		return &Error{Kind: ErrStorageWrite, Key: backup, Err: err}
	}
	s.logger.Warn("replacing corrupt stored records", "key", s.key, "backup", backup)
	return nil
}

// decodeRecords parses a JSON list of records. The root must be an array.
func decodeRecords(data []byte) ([]audit.Record, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("decode records: root is not a list")
	}

	var records []audit.Record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if records == nil {
		records = []audit.Record{}
	}
	return records, nil
}
