package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vkarpenko/faultlog/internal/app"
	"github.com/vkarpenko/faultlog/internal/domain/model/audit"
	"github.com/vkarpenko/faultlog/internal/domain/model/record"
	"github.com/vkarpenko/faultlog/internal/domain/model/session"
	"github.com/vkarpenko/faultlog/internal/domain/repository"
)

// SessionService manages per-user search sessions: one session per user,
// created on a successful search, replaced by the next search, discarded on
// exit. All mutating operations on one user's session are serialized, so a
// duplicated trigger operates on whatever state the first one left behind.
type SessionService interface {
	// Start runs a search and creates a session positioned at the first
	// result. repository.ErrNoMatches is returned (and no session created)
	// when nothing matched. A prior session for the user is replaced.
	Start(ctx context.Context, userID int64, phrase string) (*session.SearchSession, error)

	// Get returns the user's session, or false if none exists.
	Get(userID int64) (*session.SearchSession, bool)

	// Advance moves the cursor and returns the record now in view.
	Advance(userID int64, delta int) (*record.Record, error)

	// StageEdit opens a pending edit on the record in view.
	StageEdit(userID int64, f record.Field) error

	// SupplyValue stages the replacement text for the pending edit.
	SupplyValue(userID int64, text string) error

	// Commit persists the confirmed edit, mirrors it into the session
	// snapshot, and appends an edit-trail event. On store failure the
	// pending edit is left in the confirming state so the caller can retry
	// or cancel.
	Commit(ctx context.Context, userID int64) (*record.Record, error)

	// Cancel drops the pending edit without touching the store.
	Cancel(userID int64) (*record.Record, error)

	// Discard removes the user's session.
	Discard(userID int64)
}

// ErrNoSession is returned when an operation needs a session the user
// doesn't have.
var ErrNoSession = errors.New("no active session")

// SessionServiceImpl implements SessionService
type SessionServiceImpl struct {
	records repository.RecordRepository
	editLog repository.EditLogRepository

	mu       sync.Mutex
	sessions map[int64]*sessionEntry
}

// sessionEntry pairs a session with the mutex serializing its triggers
type sessionEntry struct {
	mu   sync.Mutex
	sess *session.SearchSession
}

// NewSessionService creates a new session service
func NewSessionService(records repository.RecordRepository, editLog repository.EditLogRepository) SessionService {
	return &SessionServiceImpl{
		records:  records,
		editLog:  editLog,
		sessions: make(map[int64]*sessionEntry),
	}
}

// entry returns the per-user entry, creating it on demand
func (s *SessionServiceImpl) entry(userID int64) *sessionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[userID]
	if !ok {
		e = &sessionEntry{}
		s.sessions[userID] = e
	}
	return e
}

func (s *SessionServiceImpl) Start(ctx context.Context, userID int64, phrase string) (*session.SearchSession, error) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	results, err := s.records.Search(ctx, phrase)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		return nil, repository.ErrNoMatches
	}

	e.sess = session.New(userID, phrase, results)
	app.GetLogger().Info("session %s: user %d matched %d records for %q",
		e.sess.TraceID(), userID, len(results), phrase)
	return e.sess, nil
}

func (s *SessionServiceImpl) Get(userID int64) (*session.SearchSession, bool) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess, e.sess != nil
}

func (s *SessionServiceImpl) Advance(userID int64, delta int) (*record.Record, error) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sess == nil {
		return nil, ErrNoSession
	}
	e.sess.Advance(delta)
	return e.sess.Current(), nil
}

func (s *SessionServiceImpl) StageEdit(userID int64, f record.Field) error {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sess == nil {
		return ErrNoSession
	}
	return e.sess.StageEdit(f)
}

func (s *SessionServiceImpl) SupplyValue(userID int64, text string) error {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sess == nil {
		return ErrNoSession
	}
	return e.sess.SupplyValue(text)
}

func (s *SessionServiceImpl) Commit(ctx context.Context, userID int64) (*record.Record, error) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sess == nil {
		return nil, ErrNoSession
	}
	pending := e.sess.Pending()
	if pending == nil {
		return nil, session.ErrNoPendingEdit
	}
	if pending.State != session.EditConfirming {
		return nil, session.ErrNotConfirming
	}

	rec := e.sess.Current()
	if err := s.records.UpdateField(ctx, rec.ID, pending.Field, pending.NewValue); err != nil {
		// Pending edit stays confirming; the workflow may retry or cancel.
		return nil, fmt.Errorf("commit edit failed: %w", err)
	}

	event := audit.NewEditEvent(rec.ID, pending.Field, pending.OldValue, pending.NewValue, userID)
	if err := e.sess.ApplyPending(); err != nil {
		return nil, err
	}
	if err := s.editLog.Append(ctx, event); err != nil {
		// The field update already landed; losing a trail entry is not a
		// reason to fail the commit.
		app.GetLogger().Warn("session %s: edit trail append failed: %v", e.sess.TraceID(), err)
	}

	app.GetLogger().Info("session %s: record %d field %s updated",
		e.sess.TraceID(), rec.ID, pending.Field)
	return rec, nil
}

func (s *SessionServiceImpl) Cancel(userID int64) (*record.Record, error) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sess == nil {
		return nil, ErrNoSession
	}
	e.sess.CancelEdit()
	return e.sess.Current(), nil
}

func (s *SessionServiceImpl) Discard(userID int64) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sess = nil
}
