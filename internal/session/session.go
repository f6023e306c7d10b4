// Package session holds the audit record being edited.
//
// A Session is owned by the caller (a CLI loop, a UI binding) and passed
// by reference. It validates its record before handing a copy to the
// record store and resets itself after a successful commit.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/auditlog/internal/audit"
	"github.com/roach88/auditlog/internal/imaging"
)

// Committer persists a validated record after the ones already stored.
// Implemented by *store.RecordStore.
type Committer interface {
	Append(ctx context.Context, rec audit.Record) ([]audit.Record, error)
}

// Confirmer is the yes/no gate shown before discarding a dirty form.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// DiscardPrompt is the question asked before a dirty form is reset.
const DiscardPrompt = "Start a new entry? Current data will be lost."

// Session is the in-progress record plus its validation policy.
//
// Session is not safe for concurrent use; the caller drives it from one
// goroutine, one operation at a time.
type Session struct {
	record          audit.Record
	requirePriority bool
	logger          *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithRequirePriority makes Validate reject a record without a priority.
func WithRequirePriority(require bool) Option {
	return func(s *Session) { s.requirePriority = require }
}

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New creates a session holding the default empty record.
func New(opts ...Option) *Session {
	s := &Session{record: audit.Default(), logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the record being edited.
func (s *Session) Snapshot() audit.Record {
	return s.record
}

// Update sets one field by name. An unknown field or priority value is a
// *audit.ValidationError and leaves the session unchanged.
func (s *Session) Update(field audit.Field, value string) error {
	next, err := s.record.With(field, value)
	if err != nil {
		return err
	}
	s.record = next
	return nil
}

// UpdateByName resolves name with audit.ParseField and calls Update.
func (s *Session) UpdateByName(name, value string) error {
	f, err := audit.ParseField(name)
	if err != nil {
		return err
	}
	return s.Update(f, value)
}

// Validate checks the commit rules against the current record.
func (s *Session) Validate() error {
	return s.record.Validate(s.requirePriority)
}

// IsDirty reports whether any field differs from the empty form.
// The priority counts only when it is not the default.
func (s *Session) IsDirty() bool {
	r := s.record
	return r.SerialNumber != "" ||
		r.Location != "" ||
		r.Observation != "" ||
		r.ImageReference != "" ||
		r.Recommendation != "" ||
		r.Status != "" ||
		(r.Priority != "" && r.Priority != audit.DefaultPriority)
}

// Reset discards the current record unconditionally.
func (s *Session) Reset() {
	s.record = audit.Default()
}

// StartNew resets a clean form silently. A dirty form is reset only if
// confirm answers yes; a nil confirm counts as no. Returns whether the
// form was reset.
func (s *Session) StartNew(confirm Confirmer) bool {
	if !s.IsDirty() {
		s.Reset()
		return true
	}
	if confirm == nil || !confirm.Confirm(DiscardPrompt) {
		s.logger.Debug("new entry declined, keeping form")
		return false
	}
	s.Reset()
	return true
}

// AttachImage acquires an image from src and stores its reference. When tf
// is non-nil the image is transformed first and the transformed path is
// stored. On any error, including imaging.ErrCanceled, the session keeps
// its previous image reference.
func (s *Session) AttachImage(ctx context.Context, src imaging.Source, tf imaging.Transformer) (string, error) {
	ref, err := src.Acquire(ctx)
	if err != nil {
		if errors.Is(err, imaging.ErrCanceled) {
			return "", err
		}
		return "", fmt.Errorf("acquire image: %w", err)
	}
	if tf != nil {
		ref, err = tf.Transform(ctx, ref)
		if err != nil {
			return "", fmt.Errorf("transform image: %w", err)
		}
	}
	s.record.ImageReference = ref
	s.logger.Debug("image attached", "path", ref)
	return ref, nil
}

// ClearImage drops the attached image reference.
func (s *Session) ClearImage() {
	s.record.ImageReference = ""
}

// Commit validates the record, appends its normalized copy through c and
// resets the session. On a validation or storage error the session keeps
// its data so the user can fix it or retry.
func (s *Session) Commit(ctx context.Context, c Committer) (audit.Record, error) {
	if err := s.Validate(); err != nil {
		return audit.Record{}, err
	}

	rec := s.record.Normalize()
	all, err := c.Append(ctx, rec)
	if err != nil {
		return audit.Record{}, fmt.Errorf("save entry: %w", err)
	}

	s.logger.Info("entry saved", "serial", rec.SerialNumber, "count", len(all))
	s.Reset()
	return rec, nil
}
