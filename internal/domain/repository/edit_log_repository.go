package repository

import (
	"context"

	"github.com/vkarpenko/faultlog/internal/domain/model/audit"
)

// EditLogRepository defines the interface for the append-only edit trail.
type EditLogRepository interface {
	// Append records one committed edit.
	Append(ctx context.Context, event audit.EditEvent) error

	// FindByRecordID returns the edit history of one record, oldest first.
	FindByRecordID(ctx context.Context, recordID int64) ([]audit.EditEvent, error)
}
