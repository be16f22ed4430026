package session

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/vkarpenko/faultlog/internal/domain/model/record"
)

var (
	// ErrEmptyValue is returned when a staged replacement value is blank.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrNoPendingEdit is returned when an edit operation arrives without a
	// staged edit to act on.
	ErrNoPendingEdit = errors.New("no pending edit")

	// ErrNotConfirming is returned when a commit is requested before the
	// replacement value has been supplied.
	ErrNotConfirming = errors.New("pending edit is not awaiting confirmation")
)

// EditState tags the lifecycle of a PendingEdit.
type EditState string

const (
	EditCollecting EditState = "COLLECTING" // field chosen, waiting for new value
	EditConfirming EditState = "CONFIRMING" // new value staged, waiting for confirm/cancel
)

// PendingEdit is a staged, not-yet-persisted change to one field of the
// record under the cursor. A session holds at most one at a time.
type PendingEdit struct {
	Field    record.Field
	OldValue string
	NewValue string
	State    EditState
}

// SearchSession is the per-user state of one search: the immutable result
// snapshot, a cursor into it, and an optional in-flight edit. Sessions are
// never shared between users.
type SearchSession struct {
	userID  int64
	traceID string
	phrase  string
	results []record.Record
	cursor  int
	pending *PendingEdit
}

// New creates a session positioned at the first result. The results slice is
// owned by the session from here on; callers must not retain it.
func New(userID int64, phrase string, results []record.Record) *SearchSession {
	return &SearchSession{
		userID:  userID,
		traceID: uuid.NewString(),
		phrase:  phrase,
		results: results,
	}
}

// UserID returns the owning user.
func (s *SearchSession) UserID() int64 { return s.userID }

// TraceID returns the identifier used to correlate log lines for this session.
func (s *SearchSession) TraceID() string { return s.traceID }

// Phrase returns the original search phrase.
func (s *SearchSession) Phrase() string { return s.phrase }

// Len returns the number of matched records.
func (s *SearchSession) Len() int { return len(s.results) }

// Cursor returns the 0-based position of the record in view.
func (s *SearchSession) Cursor() int { return s.cursor }

// Current returns the record under the cursor. The pointer aliases the
// session's snapshot so a committed edit is visible through it.
func (s *SearchSession) Current() *record.Record {
	return &s.results[s.cursor]
}

// Pending returns the in-flight edit, or nil.
func (s *SearchSession) Pending() *PendingEdit {
	return s.pending
}

// Advance moves the cursor by delta, clamped to the snapshot bounds. A press
// past either edge is a no-op, not an error.
func (s *SearchSession) Advance(delta int) {
	next := s.cursor + delta
	if next < 0 {
		next = 0
	}
	if max := len(s.results) - 1; next > max {
		next = max
	}
	s.cursor = next
}

// StageEdit opens a pending edit for the given field on the current record,
// capturing its present value for the copy affordance. Any previously staged
// edit is replaced.
func (s *SearchSession) StageEdit(f record.Field) error {
	if !f.IsValid() {
		return record.ErrUnknownField
	}
	s.pending = &PendingEdit{
		Field:    f,
		OldValue: s.Current().Value(f),
		State:    EditCollecting,
	}
	return nil
}

// SupplyValue stages the replacement text and moves the pending edit to the
// confirming state. Blank input (after trimming) is rejected.
func (s *SearchSession) SupplyValue(text string) error {
	if s.pending == nil {
		return ErrNoPendingEdit
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyValue
	}
	s.pending.NewValue = trimmed
	s.pending.State = EditConfirming
	return nil
}

// ApplyPending mutates the in-memory current record to the staged value and
// clears the pending edit. Callers invoke this only after the store write
// succeeded, so snapshot and store never diverge once a save completes.
func (s *SearchSession) ApplyPending() error {
	if s.pending == nil {
		return ErrNoPendingEdit
	}
	if s.pending.State != EditConfirming {
		return ErrNotConfirming
	}
	s.Current().SetValue(s.pending.Field, s.pending.NewValue)
	s.pending = nil
	return nil
}

// CancelEdit drops the pending edit without touching the store or the
// in-memory record.
func (s *SearchSession) CancelEdit() {
	s.pending = nil
}
