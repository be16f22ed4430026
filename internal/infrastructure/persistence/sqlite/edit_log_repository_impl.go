package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vkarpenko/faultlog/internal/domain/model/audit"
	"github.com/vkarpenko/faultlog/internal/domain/model/record"
	"github.com/vkarpenko/faultlog/internal/domain/repository"
)

// EditLogRepositoryImpl implements repository.EditLogRepository with SQLite
type EditLogRepositoryImpl struct {
	db *sql.DB
}

// NewEditLogRepository creates a new SQLite-based edit log repository
func NewEditLogRepository(db *sql.DB) repository.EditLogRepository {
	return &EditLogRepositoryImpl{db: db}
}

// Append records one committed edit
func (r *EditLogRepositoryImpl) Append(ctx context.Context, event audit.EditEvent) error {
	query := `
		INSERT INTO edit_log (id, record_id, field, old_value, new_value, editor_id, changed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.RecordID, event.Field.String(),
		event.OldValue, event.NewValue, event.EditorID, event.ChangedAt,
	)
	if err != nil {
		return fmt.Errorf("append edit event failed: %w", err)
	}
	return nil
}

// FindByRecordID returns the edit history of one record, oldest first.
// ULIDs sort lexicographically in creation order, so ordering by id is
// ordering by commit time.
func (r *EditLogRepositoryImpl) FindByRecordID(ctx context.Context, recordID int64) ([]audit.EditEvent, error) {
	query := `
		SELECT id, record_id, field, old_value, new_value, editor_id, changed_at
		FROM edit_log
		WHERE record_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, recordID)
	if err != nil {
		return nil, fmt.Errorf("query edit log failed: %w", err)
	}
	defer rows.Close()

	var events []audit.EditEvent
	for rows.Next() {
		var ev audit.EditEvent
		var field string
		if err := rows.Scan(&ev.ID, &ev.RecordID, &field, &ev.OldValue, &ev.NewValue, &ev.EditorID, &ev.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan edit event failed: %w", err)
		}
		ev.Field = record.Field(field)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate edit log failed: %w", err)
	}
	return events, nil
}
