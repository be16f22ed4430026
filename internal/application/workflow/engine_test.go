package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkarpenko/faultlog/internal/application/service"
	"github.com/vkarpenko/faultlog/internal/domain/model/audit"
	"github.com/vkarpenko/faultlog/internal/domain/model/record"
	"github.com/vkarpenko/faultlog/internal/domain/model/session"
	"github.com/vkarpenko/faultlog/internal/domain/repository"
	"github.com/vkarpenko/faultlog/internal/domain/search"
)

// fakeRecordRepo is an in-memory RecordRepository with failure injection.
type fakeRecordRepo struct {
	mu      sync.Mutex
	records []record.Record
	failAll bool
}

func (r *fakeRecordRepo) Save(_ context.Context, rec *record.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec.ID = int64(len(r.records) + 1)
	r.records = append(r.records, *rec)
	return nil
}

func (r *fakeRecordRepo) FindByID(_ context.Context, id int64) (*record.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].ID == id {
			rec := r.records[i]
			return &rec, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (r *fakeRecordRepo) Search(_ context.Context, phrase string) ([]record.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return nil, errors.New("store unavailable")
	}
	var out []record.Record
	for i := len(r.records) - 1; i >= 0; i-- {
		if search.Matches(phrase, r.records[i].SearchValues()) {
			out = append(out, r.records[i])
		}
	}
	return out, nil
}

func (r *fakeRecordRepo) UpdateField(_ context.Context, id int64, f record.Field, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return errors.New("store unavailable")
	}
	for i := range r.records {
		if r.records[i].ID == id {
			r.records[i].SetValue(f, value)
			return nil
		}
	}
	return repository.ErrRecordNotFound
}

func (r *fakeRecordRepo) Recent(_ context.Context, _ time.Duration) ([]record.Record, error) {
	return nil, nil
}

func (r *fakeRecordRepo) delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []record.Record
	for _, rec := range r.records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	r.records = kept
}

func (r *fakeRecordRepo) setFailAll(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failAll = v
}

// fakeEditLog collects appended events.
type fakeEditLog struct {
	mu     sync.Mutex
	events []audit.EditEvent
}

func (l *fakeEditLog) Append(_ context.Context, event audit.EditEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return nil
}

func (l *fakeEditLog) FindByRecordID(_ context.Context, recordID int64) ([]audit.EditEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []audit.EditEvent
	for _, e := range l.events {
		if e.RecordID == recordID {
			out = append(out, e)
		}
	}
	return out, nil
}

// allowAll grants every user access; denyAll grants none.
type allowAll struct{}

func (allowAll) RoleOf(int64) repository.Role { return repository.RoleUser }

type denyAll struct{}

func (denyAll) RoleOf(int64) repository.Role { return repository.RoleNone }

// recordingPresenter captures render calls for assertions.
type recordingPresenter struct {
	mu    sync.Mutex
	calls []string
}

func (p *recordingPresenter) log(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, fmt.Sprintf(format, args...))
}

func (p *recordingPresenter) ShowRecord(rec *record.Record, index, total int, editable bool) {
	p.log("show #%d %d/%d", rec.ID, index+1, total)
}

func (p *recordingPresenter) PromptPhrase() { p.log("prompt-phrase") }

func (p *recordingPresenter) PromptNewValue(f record.Field, oldValue string) {
	p.log("prompt-value %s [%s]", f, oldValue)
}

func (p *recordingPresenter) ConfirmEdit(f record.Field, oldValue, newValue string) {
	p.log("confirm %s %s -> %s", f, oldValue, newValue)
}

func (p *recordingPresenter) Notice(msg string) { p.log("notice: %s", msg) }

func (p *recordingPresenter) last() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.calls) == 0 {
		return ""
	}
	return p.calls[len(p.calls)-1]
}

func setupEngine(t *testing.T, access repository.AccessRepository) (*Engine, *fakeRecordRepo, *recordingPresenter) {
	repo := &fakeRecordRepo{}
	ctx := context.Background()
	for _, rec := range []record.Record{
		{Machine: "CNC-12", Description: "Шпиндель перегрев", Status: "Открыта", Workers: "Иванов"},
		{Machine: "CNC-12", Description: "Вибрация", Status: "Открыта", Workers: "Петров"},
		{Machine: "Т-4", Description: "Течь масла", Status: "Закрыта", Workers: "Сидоров"},
	} {
		r := rec
		require.NoError(t, repo.Save(ctx, &r))
	}

	presenter := &recordingPresenter{}
	sessions := service.NewSessionService(repo, &fakeEditLog{})
	return NewEngine(sessions, access, presenter), repo, presenter
}

// toViewing walks a user from Idle into Viewing with the given phrase.
func toViewing(t *testing.T, e *Engine, userID int64, phrase string) {
	ctx := context.Background()
	require.Equal(t, session.StateAwaitingPhrase, e.Dispatch(ctx, userID, Search()))
	require.Equal(t, session.StateViewing, e.Dispatch(ctx, userID, Phrase(phrase)))
}

func TestEngine_SearchEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("prompts for phrase", func(t *testing.T) {
		e, _, p := setupEngine(t, allowAll{})
		got := e.Dispatch(ctx, 1, Search())
		assert.Equal(t, session.StateAwaitingPhrase, got)
		assert.Equal(t, "prompt-phrase", p.last())
	})

	t.Run("fails closed without a role", func(t *testing.T) {
		e, _, p := setupEngine(t, denyAll{})
		got := e.Dispatch(ctx, 1, Search())
		assert.Equal(t, session.StateIdle, got)
		assert.Contains(t, p.last(), "Доступ запрещён")
	})
}

func TestEngine_Phrase(t *testing.T) {
	ctx := context.Background()

	t.Run("empty phrase re-prompts", func(t *testing.T) {
		e, _, p := setupEngine(t, allowAll{})
		e.Dispatch(ctx, 1, Search())
		got := e.Dispatch(ctx, 1, Phrase("   "))
		assert.Equal(t, session.StateAwaitingPhrase, got)
		assert.Contains(t, p.last(), "не может быть пустой")
	})

	t.Run("no matches re-prompts and creates no session", func(t *testing.T) {
		e, _, p := setupEngine(t, allowAll{})
		e.Dispatch(ctx, 1, Search())
		got := e.Dispatch(ctx, 1, Phrase("xyz"))
		assert.Equal(t, session.StateAwaitingPhrase, got)
		assert.Contains(t, p.last(), "ничего не найдено")
	})

	t.Run("match shows the newest record first", func(t *testing.T) {
		e, _, p := setupEngine(t, allowAll{})
		e.Dispatch(ctx, 1, Search())
		got := e.Dispatch(ctx, 1, Phrase("cnc"))
		assert.Equal(t, session.StateViewing, got)
		assert.Equal(t, "show #2 1/2", p.last())
	})

	t.Run("store failure reports and returns to idle", func(t *testing.T) {
		e, repo, p := setupEngine(t, allowAll{})
		repo.setFailAll(true)
		e.Dispatch(ctx, 1, Search())
		got := e.Dispatch(ctx, 1, Phrase("cnc"))
		assert.Equal(t, session.StateIdle, got)
		assert.Contains(t, p.last(), "Ошибка")
	})
}

func TestEngine_Navigation(t *testing.T) {
	ctx := context.Background()
	e, _, p := setupEngine(t, allowAll{})
	toViewing(t, e, 1, "cnc")

	assert.Equal(t, session.StateViewing, e.Dispatch(ctx, 1, Navigate(1)))
	assert.Equal(t, "show #1 2/2", p.last())

	// Edge press is a no-op re-render.
	assert.Equal(t, session.StateViewing, e.Dispatch(ctx, 1, Navigate(1)))
	assert.Equal(t, "show #1 2/2", p.last())

	assert.Equal(t, session.StateViewing, e.Dispatch(ctx, 1, Navigate(-1)))
	assert.Equal(t, "show #2 1/2", p.last())
}

func TestEngine_EditFlow(t *testing.T) {
	ctx := context.Background()
	e, repo, p := setupEngine(t, allowAll{})
	toViewing(t, e, 1, "вибрация")

	got := e.Dispatch(ctx, 1, ChooseField(record.FieldStatus))
	require.Equal(t, session.StateAwaitingNewValue, got)
	assert.Equal(t, "prompt-value fault_status [Открыта]", p.last())

	got = e.Dispatch(ctx, 1, Input("  "))
	require.Equal(t, session.StateAwaitingNewValue, got)
	assert.Contains(t, p.last(), "не может быть пустым")

	got = e.Dispatch(ctx, 1, Input("Закрыта"))
	require.Equal(t, session.StateConfirmingEdit, got)
	assert.Equal(t, "confirm fault_status Открыта -> Закрыта", p.last())

	got = e.Dispatch(ctx, 1, Confirm())
	require.Equal(t, session.StateViewing, got)
	assert.Equal(t, "show #2 1/1", p.last())

	rec, err := repo.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Закрыта", rec.Status)
}

func TestEngine_EditCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel while collecting", func(t *testing.T) {
		e, repo, _ := setupEngine(t, allowAll{})
		toViewing(t, e, 1, "вибрация")
		e.Dispatch(ctx, 1, ChooseField(record.FieldStatus))

		got := e.Dispatch(ctx, 1, Cancel())
		assert.Equal(t, session.StateViewing, got)

		rec, err := repo.FindByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "Открыта", rec.Status)
	})

	t.Run("cancel while confirming", func(t *testing.T) {
		e, repo, _ := setupEngine(t, allowAll{})
		toViewing(t, e, 1, "вибрация")
		e.Dispatch(ctx, 1, ChooseField(record.FieldStatus))
		e.Dispatch(ctx, 1, Input("Закрыта"))

		got := e.Dispatch(ctx, 1, Cancel())
		assert.Equal(t, session.StateViewing, got)

		rec, err := repo.FindByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "Открыта", rec.Status, "store untouched after cancel")
	})
}

func TestEngine_CommitFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("record vanished between search and commit", func(t *testing.T) {
		e, repo, p := setupEngine(t, allowAll{})
		toViewing(t, e, 1, "вибрация")
		e.Dispatch(ctx, 1, ChooseField(record.FieldStatus))
		e.Dispatch(ctx, 1, Input("Закрыта"))

		repo.delete(2)

		got := e.Dispatch(ctx, 1, Confirm())
		assert.Equal(t, session.StateViewing, got)
		assert.True(t, strings.HasPrefix(p.last(), "show"), "falls back to viewing, got %q", p.last())
	})

	t.Run("transient store failure keeps the pending edit", func(t *testing.T) {
		e, repo, p := setupEngine(t, allowAll{})
		toViewing(t, e, 1, "вибрация")
		e.Dispatch(ctx, 1, ChooseField(record.FieldStatus))
		e.Dispatch(ctx, 1, Input("Закрыта"))

		repo.setFailAll(true)
		got := e.Dispatch(ctx, 1, Confirm())
		assert.Equal(t, session.StateConfirmingEdit, got)
		assert.Contains(t, p.last(), "ошибка при сохранении")

		// Retry succeeds once the store recovers.
		repo.setFailAll(false)
		got = e.Dispatch(ctx, 1, Confirm())
		assert.Equal(t, session.StateViewing, got)

		rec, err := repo.FindByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "Закрыта", rec.Status)
	})
}

func TestEngine_ExitFromAnyState(t *testing.T) {
	ctx := context.Background()

	walks := []struct {
		name  string
		setup func(t *testing.T, e *Engine)
	}{
		{name: "from idle", setup: func(t *testing.T, e *Engine) {}},
		{name: "from awaiting phrase", setup: func(t *testing.T, e *Engine) {
			e.Dispatch(ctx, 1, Search())
		}},
		{name: "from viewing", setup: func(t *testing.T, e *Engine) {
			toViewing(t, e, 1, "cnc")
		}},
		{name: "from awaiting value", setup: func(t *testing.T, e *Engine) {
			toViewing(t, e, 1, "cnc")
			e.Dispatch(ctx, 1, ChooseField(record.FieldStatus))
		}},
		{name: "from confirming", setup: func(t *testing.T, e *Engine) {
			toViewing(t, e, 1, "cnc")
			e.Dispatch(ctx, 1, ChooseField(record.FieldStatus))
			e.Dispatch(ctx, 1, Input("Закрыта"))
		}},
	}

	for _, tt := range walks {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _ := setupEngine(t, allowAll{})
			tt.setup(t, e)
			assert.Equal(t, session.StateIdle, e.Dispatch(ctx, 1, Exit()))
			assert.Equal(t, session.StateIdle, e.StateOf(1))
		})
	}
}

func TestEngine_StrayTriggersAreIgnored(t *testing.T) {
	ctx := context.Background()
	e, _, _ := setupEngine(t, allowAll{})

	// A confirm in Idle, a phrase in Viewing: nothing moves.
	assert.Equal(t, session.StateIdle, e.Dispatch(ctx, 1, Confirm()))
	toViewing(t, e, 1, "cnc")
	assert.Equal(t, session.StateViewing, e.Dispatch(ctx, 1, Phrase("другое")))
}

func TestEngine_UsersAreIndependent(t *testing.T) {
	ctx := context.Background()
	e, _, _ := setupEngine(t, allowAll{})

	toViewing(t, e, 1, "cnc")
	toViewing(t, e, 2, "cnc")

	e.Dispatch(ctx, 1, Navigate(1))

	s1, _ := sessionOf(t, e, 1)
	s2, _ := sessionOf(t, e, 2)
	assert.Equal(t, 1, s1.Cursor())
	assert.Equal(t, 0, s2.Cursor())
}

func sessionOf(t *testing.T, e *Engine, userID int64) (*session.SearchSession, bool) {
	sess, ok := e.sessions.Get(userID)
	require.True(t, ok)
	return sess, ok
}
