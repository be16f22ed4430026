package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vkarpenko/faultlog/internal/domain/model/record"
)

var (
	// ErrRecordNotFound is returned when an identifier does not exist in the
	// store, e.g. the edit target vanished between search and commit.
	ErrRecordNotFound = errors.New("record not found")

	// ErrNoMatches is returned when a search yields an empty result set.
	ErrNoMatches = errors.New("no matching records")
)

// RecordRepository defines the interface for fault-record persistence.
//
// Search and Recent return value snapshots: each returned item reflects one
// atomic read, and mutating a returned slice never affects the store.
type RecordRepository interface {
	// Save persists a new record and assigns its identifier.
	Save(ctx context.Context, rec *record.Record) error

	// FindByID retrieves one record by identifier.
	FindByID(ctx context.Context, id int64) (*record.Record, error)

	// Search returns every record whose normalized text fields contain the
	// normalized phrase as a substring, most recent (highest id) first.
	// An empty phrase matches every record.
	Search(ctx context.Context, phrase string) ([]record.Record, error)

	// UpdateField atomically updates exactly one field of one record.
	UpdateField(ctx context.Context, id int64, f record.Field, value string) error

	// Recent returns records whose recorded end time falls within the
	// trailing window, most recent first.
	Recent(ctx context.Context, window time.Duration) ([]record.Record, error)
}
