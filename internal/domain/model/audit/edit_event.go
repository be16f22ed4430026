// Package audit models the edit trail: one event per committed field change.
package audit

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/vkarpenko/faultlog/internal/domain/model/record"
)

// EditEvent records one committed edit of one record field.
type EditEvent struct {
	ID        string
	RecordID  int64
	Field     record.Field
	OldValue  string
	NewValue  string
	EditorID  int64
	ChangedAt time.Time
}

// NewEditEvent creates an event with a fresh ULID, so events sort
// lexicographically in commit order.
func NewEditEvent(recordID int64, f record.Field, oldValue, newValue string, editorID int64) EditEvent {
	return EditEvent{
		ID:        ulid.Make().String(),
		RecordID:  recordID,
		Field:     f,
		OldValue:  oldValue,
		NewValue:  newValue,
		EditorID:  editorID,
		ChangedAt: time.Now(),
	}
}
