// Package workflow drives the search-and-edit conversation as one explicit
// state machine: a single dispatch keyed on (current state, trigger) returns
// the next state and performs the side effects, so every transition is
// independently testable.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vkarpenko/faultlog/internal/app"
	"github.com/vkarpenko/faultlog/internal/application/port/output"
	"github.com/vkarpenko/faultlog/internal/application/service"
	"github.com/vkarpenko/faultlog/internal/domain/model/record"
	"github.com/vkarpenko/faultlog/internal/domain/model/session"
	"github.com/vkarpenko/faultlog/internal/domain/repository"
)

// Engine runs the per-user session workflow. One logical task per incoming
// trigger; triggers for the same user are serialized so a duplicate button
// press operates on whatever state the first one left behind.
type Engine struct {
	sessions  service.SessionService
	access    repository.AccessRepository
	presenter output.Presenter

	mu    sync.Mutex
	users map[int64]*userFSM
}

// userFSM holds one user's workflow state and the mutex serializing it
type userFSM struct {
	mu    sync.Mutex
	state session.State
}

// NewEngine creates a workflow engine
func NewEngine(sessions service.SessionService, access repository.AccessRepository, presenter output.Presenter) *Engine {
	return &Engine{
		sessions:  sessions,
		access:    access,
		presenter: presenter,
		users:     make(map[int64]*userFSM),
	}
}

func (e *Engine) fsm(userID int64) *userFSM {
	e.mu.Lock()
	defer e.mu.Unlock()
	f, ok := e.users[userID]
	if !ok {
		f = &userFSM{state: session.StateIdle}
		e.users[userID] = f
	}
	return f
}

// StateOf returns the user's current workflow state.
func (e *Engine) StateOf(userID int64) session.State {
	f := e.fsm(userID)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Dispatch advances the workflow with one trigger and returns the state it
// lands in. Store failures never escape: they are reported through the
// presenter and the workflow falls back to the nearest stable state.
func (e *Engine) Dispatch(ctx context.Context, userID int64, trg Trigger) session.State {
	f := e.fsm(userID)
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state = e.dispatch(ctx, userID, f.state, trg)
	return f.state
}

// dispatch is the transition table. Unknown (state, trigger) pairs are
// ignored: the rendered controls only offer valid triggers, so anything else
// is a stray press.
func (e *Engine) dispatch(ctx context.Context, userID int64, state session.State, trg Trigger) session.State {
	// Exit works from any state.
	if trg.Kind == TriggerExit {
		e.sessions.Discard(userID)
		return session.StateIdle
	}

	switch state {
	case session.StateIdle:
		if trg.Kind == TriggerSearch {
			return e.onSearch(userID)
		}
	case session.StateAwaitingPhrase:
		if trg.Kind == TriggerPhrase {
			return e.onPhrase(ctx, userID, trg.Text)
		}
	case session.StateViewing:
		switch trg.Kind {
		case TriggerNavigate:
			return e.onNavigate(userID, trg.Delta)
		case TriggerChooseField:
			return e.onChooseField(userID, trg.Field)
		}
	case session.StateAwaitingNewValue:
		switch trg.Kind {
		case TriggerInput:
			return e.onInput(userID, trg.Text)
		case TriggerCancel:
			return e.onCancel(userID)
		}
	case session.StateConfirmingEdit:
		switch trg.Kind {
		case TriggerConfirm:
			return e.onConfirm(ctx, userID)
		case TriggerCancel:
			return e.onCancel(userID)
		}
	}

	return state
}

func (e *Engine) onSearch(userID int64) session.State {
	if !e.access.RoleOf(userID).Exists() {
		e.presenter.Notice("Доступ запрещён.")
		return session.StateIdle
	}
	e.presenter.PromptPhrase()
	return session.StateAwaitingPhrase
}

func (e *Engine) onPhrase(ctx context.Context, userID int64, text string) session.State {
	phrase := strings.TrimSpace(text)
	if phrase == "" {
		e.presenter.Notice("Фраза не может быть пустой. Попробуйте ещё раз:")
		return session.StateAwaitingPhrase
	}

	sess, err := e.sessions.Start(ctx, userID, phrase)
	if errors.Is(err, repository.ErrNoMatches) {
		e.presenter.Notice(fmt.Sprintf("По запросу '%s' ничего не найдено.\nВведите новую фразу:", phrase))
		return session.StateAwaitingPhrase
	}
	if err != nil {
		app.GetLogger().Error("search for user %d failed: %v", userID, err)
		e.presenter.Notice("Ошибка при обработке запроса. Попробуйте позже.")
		return session.StateIdle
	}

	e.render(sess)
	return session.StateViewing
}

func (e *Engine) onNavigate(userID int64, delta int) session.State {
	if _, err := e.sessions.Advance(userID, delta); err != nil {
		return e.reset(userID, err)
	}
	e.renderCurrent(userID)
	return session.StateViewing
}

func (e *Engine) onChooseField(userID int64, f record.Field) session.State {
	err := e.sessions.StageEdit(userID, f)
	if errors.Is(err, record.ErrUnknownField) {
		// Can only happen through a control-mapping bug; the session is no
		// longer trustworthy.
		app.GetLogger().Error("user %d staged unknown field %q", userID, f)
		e.sessions.Discard(userID)
		e.presenter.Notice("Внутренняя ошибка. Начните новый поиск.")
		return session.StateIdle
	}
	if err != nil {
		return e.reset(userID, err)
	}

	sess, _ := e.sessions.Get(userID)
	e.presenter.PromptNewValue(f, sess.Pending().OldValue)
	return session.StateAwaitingNewValue
}

func (e *Engine) onInput(userID int64, text string) session.State {
	err := e.sessions.SupplyValue(userID, text)
	if errors.Is(err, session.ErrEmptyValue) {
		e.presenter.Notice("Значение не может быть пустым. Попробуйте ещё раз:")
		return session.StateAwaitingNewValue
	}
	if err != nil {
		return e.reset(userID, err)
	}

	sess, _ := e.sessions.Get(userID)
	p := sess.Pending()
	e.presenter.ConfirmEdit(p.Field, p.OldValue, p.NewValue)
	return session.StateConfirmingEdit
}

func (e *Engine) onConfirm(ctx context.Context, userID int64) session.State {
	_, err := e.sessions.Commit(ctx, userID)
	if errors.Is(err, repository.ErrRecordNotFound) {
		// The edit target vanished between search and commit.
		e.sessions.Cancel(userID)
		e.presenter.Notice("Запись не найдена — возможно, она была удалена.")
		e.renderCurrent(userID)
		return session.StateViewing
	}
	if err != nil {
		app.GetLogger().Error("commit for user %d failed: %v", userID, err)
		// The pending edit is still confirming; the user may retry or cancel.
		e.presenter.Notice("Произошла ошибка при сохранении. Повторите или отмените.")
		return session.StateConfirmingEdit
	}

	e.presenter.Notice("Поле успешно обновлено!")
	e.renderCurrent(userID)
	return session.StateViewing
}

func (e *Engine) onCancel(userID int64) session.State {
	if _, err := e.sessions.Cancel(userID); err != nil {
		return e.reset(userID, err)
	}
	e.presenter.Notice("Изменения отменены.")
	e.renderCurrent(userID)
	return session.StateViewing
}

// reset handles a missing session mid-conversation, which indicates the
// process state got out of sync with the session store.
func (e *Engine) reset(userID int64, err error) session.State {
	app.GetLogger().Warn("workflow for user %d reset: %v", userID, err)
	e.sessions.Discard(userID)
	e.presenter.Notice("Сессия не найдена. Начните новый поиск.")
	return session.StateIdle
}

func (e *Engine) renderCurrent(userID int64) {
	sess, ok := e.sessions.Get(userID)
	if !ok {
		return
	}
	e.render(sess)
}

func (e *Engine) render(sess *session.SearchSession) {
	e.presenter.ShowRecord(sess.Current(), sess.Cursor(), sess.Len(), true)
}
